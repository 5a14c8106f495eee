// Package app wires the request pipeline and exposes the user-level
// operations the terminal UI and the CLI share: sign in and out, and the
// product list, create, edit and delete flows.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/waabox/catalogdeck/internal/catalog"
	"github.com/waabox/catalogdeck/internal/dispatch"
	"github.com/waabox/catalogdeck/internal/domain"
	"github.com/waabox/catalogdeck/internal/graphql"
	"github.com/waabox/catalogdeck/internal/i18n"
	"github.com/waabox/catalogdeck/internal/intercept"
	"github.com/waabox/catalogdeck/internal/logging"
	"github.com/waabox/catalogdeck/internal/nav"
	"github.com/waabox/catalogdeck/internal/notify"
	"github.com/waabox/catalogdeck/internal/session"
)

// Options configure New.
type Options struct {
	Endpoint string
	Timeout  time.Duration
	Language string
	Store    session.Store
	Log      *zap.Logger
	// Transport replaces the HTTP transport, for tests.
	Transport graphql.Handler
}

// App owns the process-wide state: the credential store, the notification
// bus and the navigation history.
type App struct {
	Store       session.Store
	Bus         *notify.Bus
	History     *nav.History
	Guard       nav.Guard
	Text        *i18n.Catalog
	Catalog     domain.Catalog
	Interceptor *intercept.Interceptor
	log         *zap.Logger
}

// New builds the pipeline. Links run in this order on the way out:
// interceptor, request id, logging, bearer, then the HTTP transport.
func New(o Options) *App {
	log := logging.OrNop(o.Log)
	store := o.Store
	if store == nil {
		store = session.NewMemoryStore("")
	}

	a := &App{
		Store: store,
		Bus:   notify.NewBus(),
		Text:  i18n.New(o.Language),
		Guard: nav.NewGuard(store),
		log:   log,
	}
	start, _ := a.Guard.Resolve(nav.At(nav.Root))
	a.History = nav.NewHistory(start)

	a.Interceptor = intercept.Default(intercept.Deps{
		Notifier:   a.Bus,
		Translator: a.Text,
		Session:    store,
		Navigator:  a.History,
		Log:        log,
	})

	terminal := o.Transport
	if terminal == nil {
		terminal = graphql.NewHTTPTransport(o.Endpoint, o.Timeout)
	}
	handler := graphql.Chain(terminal,
		a.Interceptor.Middleware(),
		dispatch.RequestID(),
		dispatch.Logging(log),
		dispatch.Bearer(store),
	)
	a.Catalog = catalog.NewClient(graphql.NewClient(handler), store)
	return a
}

// Open navigates to loc, or to where the guard sends it.
func (a *App) Open(loc nav.Location, opts ...nav.Option) nav.Location {
	target, redirected := a.Guard.Resolve(loc)
	if redirected {
		opts = append(opts, nav.Replace())
	}
	a.History.Navigate(target, opts...)
	return a.History.Current()
}

// Authenticated reports the session boundary state.
func (a *App) Authenticated() bool {
	return a.Store.IsAuthenticated()
}

// Username returns the name carried by the stored token, or "" when there
// is none or it cannot be decoded.
func (a *App) Username() string {
	token, ok := a.Store.Get()
	if !ok {
		return ""
	}
	claims, err := session.PeekClaims(token)
	if err != nil {
		return ""
	}
	return claims.Username
}

// Login signs in and moves to the product list. On failure the user stays
// on the login screen and one notification explains why.
func (a *App) Login(ctx context.Context, creds domain.Credentials) (domain.LoginResult, error) {
	res, err := a.Catalog.Login(ctx, creds)
	if err != nil {
		a.fail(catalog.ActionLogin, err)
		return domain.LoginResult{}, err
	}
	a.log.Info("signed in", zap.String("username", res.User.Username), zap.String("role", res.User.Role))
	a.History.Navigate(nav.At(nav.Products), nav.Replace())
	return res, nil
}

// Logout drops the credential and replaces the current screen with login.
func (a *App) Logout() error {
	if err := a.Store.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	a.History.Navigate(nav.At(nav.Login), nav.Replace())
	return nil
}

// Register creates an account.
func (a *App) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	u, err := a.Catalog.Register(ctx, username, email, password)
	if err != nil {
		a.fail(catalog.ActionRegister, err)
		return domain.User{}, err
	}
	a.Bus.Show(fmt.Sprintf(a.Text.T(i18n.RegisterDone), u.Username), notify.Success)
	return u, nil
}

// Ping checks that the API answers. Failures reach the caller without a
// notification of their own; the interceptor still reports network ones.
func (a *App) Ping(ctx context.Context) error {
	return a.Catalog.Ping(ctx)
}

// Me returns the signed-in user.
func (a *App) Me(ctx context.Context) (domain.User, error) {
	u, err := a.Catalog.Me(ctx)
	if err != nil {
		a.fail(catalog.ActionLoad, err)
		return domain.User{}, err
	}
	return u, nil
}

// Products loads the list. A failed load yields an empty list alongside the
// error so that the caller can render its placeholder.
func (a *App) Products(ctx context.Context) ([]domain.Product, error) {
	products, err := a.Catalog.ListProducts(ctx)
	if err != nil {
		a.fail(catalog.ActionLoad, err)
		return []domain.Product{}, err
	}
	return products, nil
}

// Product loads one product for the edit screen.
func (a *App) Product(ctx context.Context, id string) (domain.Product, error) {
	p, err := a.Catalog.GetProduct(ctx, id)
	if err != nil {
		a.fail(catalog.ActionLoad, err)
		return domain.Product{}, err
	}
	return p, nil
}

// CreateProduct creates a product and returns to the list.
func (a *App) CreateProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	p, err := a.Catalog.CreateProduct(ctx, in)
	if err != nil {
		a.fail(catalog.ActionCreate, err)
		return domain.Product{}, err
	}
	a.Bus.Show(a.Text.T(i18n.ProductCreated), notify.Success)
	a.History.Navigate(nav.At(nav.Products), nav.Replace())
	return p, nil
}

// UpdateProduct saves a product and returns to the list.
func (a *App) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (domain.Product, error) {
	p, err := a.Catalog.UpdateProduct(ctx, id, in)
	if err != nil {
		a.fail(catalog.ActionUpdate, err)
		return domain.Product{}, err
	}
	a.Bus.Show(a.Text.T(i18n.ProductUpdatedToast), notify.Success)
	a.History.Navigate(nav.At(nav.Products), nav.Replace())
	return p, nil
}

// DeleteProduct removes a product. The caller keeps its confirmation open
// when this fails.
func (a *App) DeleteProduct(ctx context.Context, id string) error {
	ok, err := a.Catalog.DeleteProduct(ctx, id)
	if err == nil && !ok {
		err = fmt.Errorf("product %s: %w", id, domain.ErrProductNotFound)
	}
	if err != nil {
		a.fail(catalog.ActionDelete, err)
		return err
	}
	a.Bus.Show(a.Text.T(i18n.ProductDeleted), notify.Success)
	return nil
}

// fail shows the caller-side message for err unless the interceptor
// already resolved it.
func (a *App) fail(action catalog.Action, err error) {
	key, show := catalog.FailureMessage(action, err)
	if !show {
		return
	}
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		a.log.Warn("operation failed", zap.Error(err))
	}
	a.Bus.Show(a.Text.T(key), notify.Error)
}
