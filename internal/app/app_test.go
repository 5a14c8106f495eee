package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/waabox/catalogdeck/internal/app"
	"github.com/waabox/catalogdeck/internal/domain"
	"github.com/waabox/catalogdeck/internal/fakeapi"
	"github.com/waabox/catalogdeck/internal/intercept"
	"github.com/waabox/catalogdeck/internal/nav"
	"github.com/waabox/catalogdeck/internal/notify"
	"github.com/waabox/catalogdeck/internal/session"
)

type harness struct {
	api *fakeapi.Server
	app *app.App
	rec *notify.Recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := fakeapi.New()
	api.AddUser("admin", "secret1", fakeapi.RoleAdmin)
	api.AddUser("viewer", "secret2", fakeapi.RoleUser)
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)

	a := app.New(app.Options{
		Endpoint: srv.URL + fakeapi.Path,
		Timeout:  2 * time.Second,
		Language: "en",
		Store:    session.NewFileStore(filepath.Join(t.TempDir(), "session.toml"), nil),
	})
	rec := &notify.Recorder{}
	a.Bus.Bind(rec.Handle)
	return &harness{api: api, app: a, rec: rec}
}

func (h *harness) login(t *testing.T, user, pw string) {
	t.Helper()
	_, err := h.app.Login(context.Background(), domain.Credentials{Username: user, Password: pw})
	require.NoError(t, err)
	h.rec.Reset()
}

func TestApp_StartsOnLoginWhenAnonymous(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, nav.At(nav.Login), h.app.History.Current())
	require.Equal(t, nav.At(nav.Login), h.app.Open(nav.At(nav.Products)))
}

func TestApp_LoginStoresCredentialAndOpensProducts(t *testing.T) {
	h := newHarness(t)

	res, err := h.app.Login(context.Background(), domain.Credentials{Username: "admin", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "admin", res.User.Username)

	tok, ok := h.app.Store.Get()
	require.True(t, ok)
	require.Equal(t, res.Token, tok)
	require.Equal(t, nav.At(nav.Products), h.app.History.Current())
	require.Equal(t, 1, h.app.History.Len(), "login must replace the login entry")
	require.Empty(t, h.rec.All())

	_, err = h.app.Products(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer "+tok, h.api.CallsOf("Products")[0].Authorization)
}

func TestApp_InvalidCredentialsStayOnLogin(t *testing.T) {
	h := newHarness(t)

	_, err := h.app.Login(context.Background(), domain.Credentials{Username: "admin", Password: "wrong-pw"})
	require.Error(t, err)
	require.False(t, h.app.Authenticated())
	require.Equal(t, nav.At(nav.Login), h.app.History.Current())
	require.Equal(t, []notify.Notification{{Message: "Invalid credentials", Severity: notify.Error}}, h.rec.All())
	require.Empty(t, h.api.CallsOf("Login")[0].Authorization)
}

func TestApp_LoginValidationNeverReachesServer(t *testing.T) {
	h := newHarness(t)

	_, err := h.app.Login(context.Background(), domain.Credentials{Username: "admin", Password: "123"})
	require.ErrorIs(t, err, domain.ErrValidation)
	require.Empty(t, h.api.Calls())
}

func TestApp_LoginGatewayErrorReadsAsUnreachable(t *testing.T) {
	h := newHarness(t)
	h.api.FailNextStatus("Login", http.StatusBadGateway)

	_, err := h.app.Login(context.Background(), domain.Credentials{Username: "admin", Password: "secret1"})
	require.True(t, intercept.IsHandled(err))
	require.Equal(t, "Server unreachable", h.rec.All()[0].Message)
	require.Len(t, h.rec.All(), 1)
}

func TestApp_NetworkFailureShowsPlaceholder(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "secret1")
	h.api.HangUpNext("Products")

	products, err := h.app.Products(context.Background())
	require.Error(t, err)
	require.Empty(t, products)
	require.NotNil(t, products)
	require.Equal(t, []notify.Notification{{Message: "Server unreachable", Severity: notify.Error}}, h.rec.All())
	require.True(t, h.app.Authenticated())
	require.Equal(t, nav.At(nav.Products), h.app.History.Current())
}

func TestApp_UnauthorizedDeleteClearsSessionWithoutNotification(t *testing.T) {
	h := newHarness(t)
	id := h.api.Seed("Laptop", nil, "1300.99", 3)
	h.login(t, "admin", "secret1")
	tok, _ := h.app.Store.Get()
	h.api.Revoke(tok)

	err := h.app.DeleteProduct(context.Background(), id)
	require.True(t, intercept.IsHandled(err))
	require.False(t, h.app.Authenticated())
	require.Equal(t, nav.At(nav.Login), h.app.History.Current())
	require.Empty(t, h.rec.All())
	require.Len(t, h.api.Products(), 1)
}

func TestApp_ForbiddenDeleteNotifiesAndKeepsSession(t *testing.T) {
	h := newHarness(t)
	id := h.api.Seed("Laptop", nil, "1300.99", 3)
	h.login(t, "viewer", "secret2")

	err := h.app.DeleteProduct(context.Background(), id)
	require.True(t, intercept.IsHandled(err))
	require.True(t, h.app.Authenticated())
	require.Equal(t, nav.At(nav.Products), h.app.History.Current())
	require.Equal(t, []notify.Notification{{Message: "Access denied", Severity: notify.Error}}, h.rec.All())
}

func TestApp_CreateWithBlankDescriptionSendsNull(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "secret1")
	h.app.History.Navigate(nav.At(nav.ProductNew))

	in, err := domain.NewProductInput("Laptop", "   ", 1300.99, 3)
	require.NoError(t, err)
	p, err := h.app.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	require.Nil(t, p.Description)
	require.Equal(t, "1300.99", p.Price)

	input := h.api.CallsOf("CreateProduct")[0].Variables["input"].(map[string]any)
	desc, present := input["description"]
	require.True(t, present)
	require.Nil(t, desc)

	require.Equal(t, "Product created successfully", h.rec.All()[0].Message)
	require.Equal(t, nav.At(nav.Products), h.app.History.Current())
}

func TestApp_UpdateAndDeleteRoundTrip(t *testing.T) {
	h := newHarness(t)
	id := h.api.Seed("Laptop", nil, "10.00", 1)
	h.login(t, "admin", "secret1")

	in, err := domain.NewProductInput("Laptop Pro", "fast", 20, 2)
	require.NoError(t, err)
	p, err := h.app.UpdateProduct(context.Background(), id, in)
	require.NoError(t, err)
	require.Equal(t, "Laptop Pro", p.Name)
	require.Equal(t, "fast", p.DescriptionOrEmpty())

	got, err := h.app.Product(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 2, got.Quantity)

	require.NoError(t, h.app.DeleteProduct(context.Background(), id))
	require.Empty(t, h.api.Products())

	_, err = h.app.Product(context.Background(), id)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	require.Equal(t, "Product not found", h.rec.All()[len(h.rec.All())-1].Message)
}

func TestApp_UnknownServerErrorFallsBackToOperationMessage(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "secret1")
	h.api.FailNext("CreateProduct", "database is locked")

	in, _ := domain.NewProductInput("Laptop", "", 1, 1)
	_, err := h.app.CreateProduct(context.Background(), in)
	require.Error(t, err)
	require.False(t, intercept.IsHandled(err))
	require.Equal(t, []notify.Notification{{Message: "Create product failed", Severity: notify.Error}}, h.rec.All())
}

func TestApp_ConcurrentUnauthorizedEndsAtLogin(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "secret1")
	h.app.History.Navigate(nav.At(nav.ProductNew))
	h.api.FailNext("Products", "Unauthorized")
	h.api.FailNext("Products", "Unauthorized")

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.app.Products(context.Background())
		}()
	}
	wg.Wait()

	require.False(t, h.app.Authenticated())
	require.Equal(t, nav.At(nav.Login), h.app.History.Current())
	require.Equal(t, 2, h.app.History.Len())
	require.Empty(t, h.rec.All())
}

func TestApp_LogoutIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin", "secret1")

	require.NoError(t, h.app.Logout())
	require.NoError(t, h.app.Logout())
	require.False(t, h.app.Authenticated())
	require.Equal(t, nav.At(nav.Login), h.app.History.Current())
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, session.NewFileStore(path, nil).Set("jwt-123"))

	a := app.New(app.Options{Endpoint: "http://127.0.0.1:1/graphql", Store: session.NewFileStore(path, nil)})
	require.True(t, a.Authenticated())
	require.Equal(t, nav.At(nav.Products), a.History.Current())
}
