package failure_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waabox/catalogdeck/internal/failure"
	"github.com/waabox/catalogdeck/internal/graphql"
)

func TestClassify_NilIsNone(t *testing.T) {
	c := failure.Classify(nil)
	require.Equal(t, failure.None, c.Kind)
	require.False(t, c.Failed())
}

func TestClassify_TransportCauseWinsOverMessages(t *testing.T) {
	err := &graphql.Error{
		Operation: "Products",
		Transport: errors.New("dial tcp 127.0.0.1:8000: connect: connection refused"),
		Messages:  []string{"Unauthorized"},
	}
	require.Equal(t, failure.Network, failure.Classify(err).Kind)
}

func TestClassify_ServerMessages(t *testing.T) {
	cases := []struct {
		name     string
		messages []string
		want     failure.Kind
		message  string
	}{
		{"unauthorized", []string{"Unauthorized"}, failure.Unauthorized, "Unauthorized"},
		{"case insensitive", []string{"user is UNAUTHORIZED here"}, failure.Unauthorized, "user is UNAUTHORIZED here"},
		{"forbidden", []string{"Forbidden: admin only"}, failure.Forbidden, "Forbidden: admin only"},
		{"first matching message wins", []string{"forbidden", "unauthorized"}, failure.Forbidden, "forbidden"},
		{"unauthorized before forbidden in one message", []string{"unauthorized or forbidden"}, failure.Unauthorized, "unauthorized or forbidden"},
		{"skips unrelated messages", []string{"oops", "Unauthorized"}, failure.Unauthorized, "Unauthorized"},
		{"unknown keeps message", []string{"Product name taken"}, failure.Unknown, "Product name taken"},
		{"empty list", nil, failure.Unknown, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := failure.Classify(&graphql.Error{Operation: "Op", Messages: tc.messages})
			require.Equal(t, tc.want, c.Kind)
			require.Equal(t, tc.message, c.Message)
		})
	}
}

func TestClassify_ServerMessagesAreNotNetworkPhrases(t *testing.T) {
	c := failure.Classify(&graphql.Error{Messages: []string{"network policy violated"}})
	require.Equal(t, failure.Unknown, c.Kind)
}

func TestClassify_PlainErrors(t *testing.T) {
	require.Equal(t, failure.Network, failure.Classify(errors.New("TypeError: Failed to fetch")).Kind)
	require.Equal(t, failure.Network, failure.Classify(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)).Kind)
	require.Equal(t, failure.Unknown, failure.Classify(errors.New("something odd")).Kind)
}

func TestClassify_CanceledIsNotNetwork(t *testing.T) {
	err := &graphql.Error{
		Operation: "Product",
		Transport: fmt.Errorf("executing request: %w", context.Canceled),
	}
	c := failure.Classify(err)
	require.Equal(t, failure.Canceled, c.Kind)
	require.True(t, c.Failed())
	require.Equal(t, failure.Canceled, failure.Classify(context.Canceled).Kind)
}

func TestClassify_WrappedGraphQLError(t *testing.T) {
	inner := &graphql.Error{Messages: []string{"Forbidden"}}
	c := failure.Classify(fmt.Errorf("deleting product: %w", inner))
	require.Equal(t, failure.Forbidden, c.Kind)
}

func TestClassify_TypedNilDoesNotPanic(t *testing.T) {
	var gerr *graphql.Error
	var err error = gerr
	require.NotPanics(t, func() {
		c := failure.Classify(err)
		require.Equal(t, failure.Unknown, c.Kind)
	})
}

func TestClassify_IsDeterministic(t *testing.T) {
	err := &graphql.Error{Messages: []string{"x", "Forbidden"}}
	first := failure.Classify(err)
	for i := 0; i < 10; i++ {
		require.Equal(t, first.Kind, failure.Classify(err).Kind)
	}
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "network", failure.Network.String())
	require.Equal(t, "unknown", failure.Kind(99).String())
}
