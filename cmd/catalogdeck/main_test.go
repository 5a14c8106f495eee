package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/waabox/catalogdeck/internal/cli"
	"github.com/waabox/catalogdeck/internal/domain"
	"github.com/waabox/catalogdeck/internal/failure"
	"github.com/waabox/catalogdeck/internal/intercept"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, ExitOK},
		{"interrupt", fmt.Errorf("run: %w", context.Canceled), ExitInterrupt},
		{"usage", errors.New(`unknown flag: --nope`), ExitUsage},
		{"not signed in", cli.ErrNotSignedIn, ExitUnauthorized},
		{"validation", &domain.ValidationError{Field: "name", Reason: "short"}, ExitValidation},
		{"network", &cli.ReportedError{Err: &intercept.HandledError{Kind: failure.Network, Err: errors.New("x")}}, ExitNetwork},
		{"unauthorized", &intercept.HandledError{Kind: failure.Unauthorized, Err: errors.New("x")}, ExitUnauthorized},
		{"forbidden", &intercept.HandledError{Kind: failure.Forbidden, Err: errors.New("x")}, ExitForbidden},
		{"reported unauthorized", &cli.ReportedError{Err: fmt.Errorf("product 1: %w", &intercept.HandledError{Kind: failure.Unauthorized, Err: errors.New("x")})}, ExitUnauthorized},
		{"wrapped forbidden", fmt.Errorf("delete: %w", &intercept.HandledError{Kind: failure.Forbidden, Err: errors.New("x")}), ExitForbidden},
		{"unhandled server error", &intercept.HandledError{Kind: failure.Unknown, Err: errors.New("x")}, ExitGeneral},
		{"other", errors.New("boom"), ExitGeneral},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
