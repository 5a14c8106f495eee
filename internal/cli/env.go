// Package cli implements the non-interactive catalogdeck subcommands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/term"

	"github.com/waabox/catalogdeck/internal/app"
	"github.com/waabox/catalogdeck/internal/config"
	"github.com/waabox/catalogdeck/internal/domain"
	"github.com/waabox/catalogdeck/internal/i18n"
	"github.com/waabox/catalogdeck/internal/notify"
)

// Env holds injectable dependencies for CLI commands.
//
// Env must not be nil when passed to command functions. Use NewEnv to create
// a valid instance.
type Env struct {
	App    *app.App
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// ReadPassword reads a secret without echo.
	ReadPassword func() ([]byte, error)
	// ConfigPath is the file the config command reads and writes.
	ConfigPath string

	lines *bufio.Reader
	shown atomic.Int32
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithIO sets the standard streams.
func WithIO(in io.Reader, out, errOut io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdin = in
		e.Stdout = out
		e.Stderr = errOut
	}
}

// WithConfigPath sets the configuration file path.
func WithConfigPath(path string) EnvOption {
	return func(e *Env) {
		e.ConfigPath = path
	}
}

// WithReadPassword sets the secret reader.
func WithReadPassword(fn func() ([]byte, error)) EnvOption {
	return func(e *Env) {
		e.ReadPassword = fn
	}
}

// NewEnv creates an Env over a with process defaults for everything else.
func NewEnv(a *app.App, opts ...EnvOption) *Env {
	env := &Env{
		App:        a,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		ConfigPath: config.DefaultConfigPath(),
		ReadPassword: func() ([]byte, error) {
			return term.ReadPassword(int(os.Stdin.Fd()))
		},
	}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ReportedError wraps a failure the user has already been told about.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

func (e *Env) t(k i18n.Key) string {
	return e.App.Text.T(k)
}

// notice prints one bus notification to stderr.
func (e *Env) notice(n notify.Notification) {
	e.shown.Add(1)
	prefix := ""
	switch n.Severity {
	case notify.Error:
		prefix = "error: "
	case notify.Warning:
		prefix = "warning: "
	}
	fmt.Fprintln(e.Stderr, prefix+n.Message)
}

// run executes fn with the notification bus printing to stderr. Failures
// the user has already seen come back as *ReportedError.
func (e *Env) run(ctx context.Context, fn func(ctx context.Context) error) error {
	release := e.App.Bus.Bind(e.notice)
	defer release()

	before := e.shown.Load()
	err := fn(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		fmt.Fprintln(e.Stderr, e.t(i18n.SessionExpired))
		return &ReportedError{Err: err}
	}
	if e.shown.Load() != before {
		return &ReportedError{Err: err}
	}
	return err
}

// readLine prompts on stderr and reads one trimmed line from stdin.
func (e *Env) readLine(prompt string) (string, error) {
	if e.lines == nil {
		e.lines = bufio.NewReader(e.Stdin)
	}
	fmt.Fprint(e.Stderr, prompt)
	line, err := e.lines.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readSecret prompts on stderr and reads a password without echo.
func (e *Env) readSecret(prompt string) (string, error) {
	fmt.Fprint(e.Stderr, prompt)
	pw, err := e.ReadPassword()
	fmt.Fprintln(e.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}
