// Package intercept is the response side of the request pipeline. Every
// failure passes through one Interceptor, which classifies it and runs an
// ordered list of rules. A rule either resolves the failure with a side
// effect (a notification, or clearing the session and returning to the login
// screen) or lets it through to the caller.
package intercept

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/waabox/catalogdeck/internal/domain"
	"github.com/waabox/catalogdeck/internal/failure"
	"github.com/waabox/catalogdeck/internal/graphql"
	"github.com/waabox/catalogdeck/internal/i18n"
	"github.com/waabox/catalogdeck/internal/logging"
	"github.com/waabox/catalogdeck/internal/nav"
	"github.com/waabox/catalogdeck/internal/notify"
)

// Decision is a rule's verdict on a failure.
type Decision int

const (
	// Pass lets the next rule, and eventually the caller, see the failure.
	Pass Decision = iota
	// Resolve stops evaluation: the failure has been dealt with.
	Resolve
)

// Rule inspects one classified failure.
type Rule struct {
	Name  string
	Apply func(ctx context.Context, req *graphql.Request, c failure.Classified) Decision
}

// HandledError is returned in place of a failure that a rule already
// resolved. Callers must not show a second message for it.
type HandledError struct {
	Kind failure.Kind
	Err  error
}

func (e *HandledError) Error() string {
	return fmt.Sprintf("%s (handled): %v", e.Kind, e.Err)
}

// Unwrap returns the original failure.
func (e *HandledError) Unwrap() error {
	return e.Err
}

// Is matches the domain sentinel for the kind, so callers can test for a
// rejected session or a denied operation with errors.Is.
func (e *HandledError) Is(target error) bool {
	switch e.Kind {
	case failure.Unauthorized:
		return target == domain.ErrUnauthorized
	case failure.Forbidden:
		return target == domain.ErrForbidden
	}
	return false
}

// IsHandled reports whether err was already resolved by the Interceptor.
func IsHandled(err error) bool {
	var h *HandledError
	return errors.As(err, &h)
}

// HandledKind returns the kind of a handled failure and whether err was handled.
func HandledKind(err error) (failure.Kind, bool) {
	var h *HandledError
	if errors.As(err, &h) {
		return h.Kind, true
	}
	return failure.None, false
}

// Notifier shows a transient message.
type Notifier interface {
	Show(message string, severity notify.Severity)
}

// CredentialClearer drops the active credential.
type CredentialClearer interface {
	Clear() error
}

// Navigator moves between screens.
type Navigator interface {
	Navigate(loc nav.Location, opts ...nav.Option) bool
}

// Translator looks up user-facing text.
type Translator interface {
	T(key i18n.Key) string
}

// Interceptor runs its rules, in order, against every failed request.
type Interceptor struct {
	rules []Rule
	log   *zap.Logger
}

// New creates an Interceptor with explicit rules. log may be nil.
func New(log *zap.Logger, rules ...Rule) *Interceptor {
	return &Interceptor{rules: rules, log: logging.OrNop(log)}
}

// Rules returns the rule names in evaluation order.
func (i *Interceptor) Rules() []string {
	names := make([]string, 0, len(i.rules))
	for _, r := range i.rules {
		names = append(names, r.Name)
	}
	return names
}

// Middleware returns the pipeline link. It must sit outside the bearer link
// so that it sees the final outcome of each request.
func (i *Interceptor) Middleware() graphql.Middleware {
	return func(next graphql.Handler) graphql.Handler {
		return graphql.HandlerFunc(func(ctx context.Context, req *graphql.Request) (*graphql.Response, error) {
			resp, err := next.Do(ctx, req)
			if err == nil {
				return resp, nil
			}
			return resp, i.Handle(ctx, req, err)
		})
	}
}

// Handle classifies err and applies the rules. It returns a *HandledError
// when a rule resolved the failure and err unchanged otherwise. Canceled
// requests skip the rules.
func (i *Interceptor) Handle(ctx context.Context, req *graphql.Request, err error) error {
	c := failure.Classify(err)
	if !c.Failed() {
		return err
	}
	op := ""
	if req != nil {
		op = req.OperationName
	}
	if c.Kind == failure.Canceled {
		i.log.Debug("request canceled", zap.String("operation", op))
		return err
	}
	for _, r := range i.rules {
		if r.Apply(ctx, req, c) == Resolve {
			i.log.Info("request failure resolved",
				zap.String("operation", op),
				zap.String("kind", c.Kind.String()),
				zap.String("rule", r.Name),
			)
			return &HandledError{Kind: c.Kind, Err: err}
		}
	}
	i.log.Info("request failure passed to caller",
		zap.String("operation", op),
		zap.String("kind", c.Kind.String()),
	)
	return err
}

// NetworkRule shows the "server unreachable" notification.
func NetworkRule(n Notifier, t Translator) Rule {
	return Rule{
		Name: "network",
		Apply: func(_ context.Context, _ *graphql.Request, c failure.Classified) Decision {
			if c.Kind != failure.Network {
				return Pass
			}
			n.Show(t.T(i18n.ToastServerUnreachable), notify.Error)
			return Resolve
		},
	}
}

// UnauthorizedRule clears the session and replaces the current screen with
// the login screen. Both steps are no-ops on an already anonymous session,
// so concurrent Unauthorized replies converge on the same state.
func UnauthorizedRule(store CredentialClearer, navigator Navigator, log *zap.Logger) Rule {
	log = logging.OrNop(log)
	return Rule{
		Name: "unauthorized",
		Apply: func(_ context.Context, _ *graphql.Request, c failure.Classified) Decision {
			if c.Kind != failure.Unauthorized {
				return Pass
			}
			if err := store.Clear(); err != nil {
				log.Warn("clearing session after unauthorized reply", zap.Error(err))
			}
			if navigator != nil {
				navigator.Navigate(nav.At(nav.Login), nav.Replace())
			}
			return Resolve
		},
	}
}

// ForbiddenRule shows the "access denied" notification.
func ForbiddenRule(n Notifier, t Translator) Rule {
	return Rule{
		Name: "forbidden",
		Apply: func(_ context.Context, _ *graphql.Request, c failure.Classified) Decision {
			if c.Kind != failure.Forbidden {
				return Pass
			}
			n.Show(t.T(i18n.ToastAccessDenied), notify.Error)
			return Resolve
		},
	}
}

// Deps are the collaborators of the default rule set.
type Deps struct {
	Notifier   Notifier
	Translator Translator
	Session    CredentialClearer
	Navigator  Navigator
	Log        *zap.Logger
}

// Default returns an Interceptor with the network rule first, then
// unauthorized, then forbidden. Unknown failures reach the caller.
func Default(d Deps) *Interceptor {
	return New(d.Log,
		NetworkRule(d.Notifier, d.Translator),
		UnauthorizedRule(d.Session, d.Navigator, d.Log),
		ForbiddenRule(d.Notifier, d.Translator),
	)
}
