package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/waabox/catalogdeck/internal/app"
	"github.com/waabox/catalogdeck/internal/catalog"
	"github.com/waabox/catalogdeck/internal/domain"
	"github.com/waabox/catalogdeck/internal/i18n"
	"github.com/waabox/catalogdeck/internal/nav"
	"github.com/waabox/catalogdeck/internal/notify"
)

// Result messages carry the screen epoch they were started in. A result whose
// epoch no longer matches the model's is from a screen the user already left
// and is dropped. They are exported so that tests can inject them directly
// into AppModel.Update.

// LoginResultMsg is sent when a sign-in attempt completes.
type LoginResultMsg struct {
	Epoch int
	Err   error
}

// ProductsLoadedMsg is sent when the product list has been fetched.
type ProductsLoadedMsg struct {
	Epoch    int
	Products []domain.Product
	Err      error
}

// ProductLoadedMsg is sent when the product being edited has been fetched.
type ProductLoadedMsg struct {
	Epoch   int
	Product domain.Product
	Err     error
}

// SaveResultMsg is sent when a create or update completes.
type SaveResultMsg struct {
	Epoch int
	Err   error
}

// DeleteResultMsg is sent when a delete completes.
type DeleteResultMsg struct {
	Epoch int
	ID    string
	Err   error
}

const (
	loginUsername = iota
	loginPassword
)

const (
	formName = iota
	formDescription
	formPrice
	formQuantity
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	dialogStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const separator = "────────────────────────────────────────────────────────────\n"

// AppModel is the root Bubbletea model for catalogdeck. The screen shown
// always follows the app's navigation history.
type AppModel struct {
	app    *app.App
	screen nav.Location
	epoch  int
	// Session label, read once per screen.
	signedIn bool
	username string
	// Login
	login      FormModel
	submitting bool
	// Product list
	list    ProductListModel
	loading bool
	// Delete confirmation
	confirming  bool
	confirmID   string
	confirmName string
	deleting    bool
	// Product form
	form     FormModel
	notFound bool
	saving   bool
	// Toast
	toast    *notify.Notification
	toastSeq uint64
	width    int
	height   int
}

// NewAppModel creates the root model on the app's current location.
func NewAppModel(a *app.App) AppModel {
	m := AppModel{app: a}
	m, _ = m.enter(a.Open(a.History.Current(), nav.Replace()))
	return m
}

// Epoch returns the current screen epoch.
func (m AppModel) Epoch() int {
	return m.epoch
}

// Screen returns the location being shown.
func (m AppModel) Screen() nav.Location {
	return m.screen
}

// List returns the product table model.
func (m AppModel) List() ProductListModel {
	return m.list
}

// Confirming reports whether the delete dialog is open.
func (m AppModel) Confirming() bool {
	return m.confirming
}

// Form returns the product form model.
func (m AppModel) Form() FormModel {
	return m.form
}

// Init triggers the load for the first screen.
func (m AppModel) Init() tea.Cmd {
	return m.loadFor(m.screen)
}

// enter switches to loc and resets that screen's state.
func (m AppModel) enter(loc nav.Location) (AppModel, tea.Cmd) {
	m.screen = loc
	m.epoch++
	m.signedIn, m.username = m.app.Authenticated(), m.app.Username()
	m.confirming = false
	m.deleting = false
	m.submitting = false
	m.saving = false
	m.notFound = false
	m.loading = false

	switch loc.Route {
	case nav.Login:
		m.login = NewFormModel(
			Field{Label: i18n.AuthUsername},
			Field{Label: i18n.AuthPassword, Secret: true},
		)
	case nav.Products:
		m.loading = true
	case nav.ProductNew, nav.ProductEdit:
		m.form = NewFormModel(
			Field{Label: i18n.ProductName},
			Field{Label: i18n.ProductDescription},
			Field{Label: i18n.ProductPrice},
			Field{Label: i18n.ProductQuantity},
		)
		m.loading = loc.Route == nav.ProductEdit
	}
	return m, m.loadFor(loc)
}

func (m AppModel) loadFor(loc nav.Location) tea.Cmd {
	switch loc.Route {
	case nav.Products:
		return m.loadProducts()
	case nav.ProductEdit:
		return m.loadProduct(loc.ID)
	}
	return nil
}

// sync follows the navigation history: the interceptor or an app call may
// have moved it since the last message.
func (m AppModel) sync(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	cur := m.app.History.Current()
	if target, redirected := m.app.Guard.Resolve(cur); redirected {
		m.app.History.Navigate(target, nav.Replace())
		cur = target
	}
	if cur == m.screen {
		return m, cmd
	}
	next, load := m.enter(cur)
	return next, tea.Batch(cmd, load)
}

func (m AppModel) loadProducts() tea.Cmd {
	epoch := m.epoch
	return func() tea.Msg {
		products, err := m.app.Products(context.Background())
		return ProductsLoadedMsg{Epoch: epoch, Products: products, Err: err}
	}
}

func (m AppModel) loadProduct(id string) tea.Cmd {
	epoch := m.epoch
	return func() tea.Msg {
		p, err := m.app.Product(context.Background(), id)
		return ProductLoadedMsg{Epoch: epoch, Product: p, Err: err}
	}
}

func (m AppModel) submitLogin(creds domain.Credentials) tea.Cmd {
	epoch := m.epoch
	return func() tea.Msg {
		_, err := m.app.Login(context.Background(), creds)
		return LoginResultMsg{Epoch: epoch, Err: err}
	}
}

func (m AppModel) saveProduct(id string, in domain.ProductInput) tea.Cmd {
	epoch := m.epoch
	return func() tea.Msg {
		var err error
		if id == "" {
			_, err = m.app.CreateProduct(context.Background(), in)
		} else {
			_, err = m.app.UpdateProduct(context.Background(), id, in)
		}
		return SaveResultMsg{Epoch: epoch, Err: err}
	}
}

func (m AppModel) deleteProduct(id string) tea.Cmd {
	epoch := m.epoch
	return func() tea.Msg {
		return DeleteResultMsg{Epoch: epoch, ID: id, Err: m.app.DeleteProduct(context.Background(), id)}
	}
}

// Update handles all incoming messages and key events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ToastMsg:
		if msg.Seq < m.toastSeq {
			return m, nil
		}
		n := msg.Notification
		m.toast = &n
		m.toastSeq = msg.Seq
		return m, expireToast(msg.Seq)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case LoginResultMsg:
		if msg.Epoch == m.epoch {
			m.submitting = false
		}

	case ProductsLoadedMsg:
		if msg.Epoch == m.epoch {
			m.loading = false
			m.list = m.list.Replace(msg.Products)
		}

	case ProductLoadedMsg:
		if msg.Epoch == m.epoch {
			m.loading = false
			switch {
			case errors.Is(msg.Err, domain.ErrProductNotFound):
				m.notFound = true
			case msg.Err == nil:
				m.form = m.form.
					WithValue(formName, msg.Product.Name).
					WithValue(formDescription, msg.Product.DescriptionOrEmpty()).
					WithValue(formPrice, msg.Product.Price).
					WithValue(formQuantity, strconv.Itoa(msg.Product.Quantity))
			}
		}

	case SaveResultMsg:
		if msg.Epoch == m.epoch {
			m.saving = false
		}

	case DeleteResultMsg:
		if msg.Epoch == m.epoch {
			m.deleting = false
			if msg.Err == nil {
				m.confirming = false
				m.loading = true
				return m.sync(m.loadProducts())
			}
			// The dialog stays open on failure; a forbidden delete is
			// explained by the interceptor's notification.
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		next, cmd := m.handleKey(msg)
		return next.sync(cmd)
	}
	return m.sync(nil)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	switch m.screen.Route {
	case nav.Login:
		return m.updateLogin(msg)
	case nav.Products:
		if m.confirming {
			return m.updateConfirm(msg)
		}
		return m.updateProducts(msg)
	case nav.ProductNew, nav.ProductEdit:
		return m.updateForm(msg)
	}
	return m, nil
}

func (m AppModel) credentials() domain.Credentials {
	return domain.Credentials{
		Username: m.login.Value(loginUsername),
		Password: m.login.Value(loginPassword),
	}
}

func (m AppModel) updateLogin(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyEnter:
		creds := m.credentials()
		if creds.Validate() != nil {
			return m, nil
		}
		m.submitting = true
		return m, m.submitLogin(creds)
	case tea.KeyEsc:
		return m, tea.Quit
	}
	m.login = m.login.Update(msg)
	return m, nil
}

func (m AppModel) updateProducts(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "down", "j":
		m.list = m.list.MoveDown()
	case "up", "k":
		m.list = m.list.MoveUp()
	case "ctrl+r":
		m.loading = true
		return m, m.loadProducts()
	case "n":
		m.app.Open(nav.At(nav.ProductNew))
	case "e", "enter":
		if p, ok := m.list.SelectedProduct(); ok {
			m.app.Open(nav.EditProduct(p.ID))
		}
	case "d":
		if p, ok := m.list.SelectedProduct(); ok {
			m.confirming = true
			m.confirmID = p.ID
			m.confirmName = p.Name
		}
	case "t":
		m.app.Text.Toggle()
	case "L":
		if err := m.app.Logout(); err != nil {
			m.app.Bus.Show(err.Error(), notify.Error)
		}
	case "esc":
		m.toast = nil
	}
	return m, nil
}

func (m AppModel) updateConfirm(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	if m.deleting {
		return m, nil
	}
	switch msg.String() {
	case "y":
		m.deleting = true
		return m, m.deleteProduct(m.confirmID)
	case "n", "esc":
		m.confirming = false
	}
	return m, nil
}

// productInput parses the form. Text that is not a number reads as a
// validation failure on that field.
func (m AppModel) productInput() (domain.ProductInput, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(m.form.Value(formPrice)), 64)
	if err != nil {
		return domain.ProductInput{}, &domain.ValidationError{Field: "price", Reason: "must be a number"}
	}
	qty, err := strconv.Atoi(strings.TrimSpace(m.form.Value(formQuantity)))
	if err != nil {
		return domain.ProductInput{}, &domain.ValidationError{Field: "quantity", Reason: "must be a whole number"}
	}
	return domain.NewProductInput(m.form.Value(formName), m.form.Value(formDescription), price, qty)
}

func (m AppModel) updateForm(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if !m.app.History.Back() {
			m.app.Open(nav.At(nav.Products), nav.Replace())
		}
		return m, nil
	}
	if m.saving || m.loading || m.notFound {
		return m, nil
	}
	if msg.Type == tea.KeyEnter {
		in, err := m.productInput()
		if err != nil {
			return m, nil
		}
		m.saving = true
		return m, m.saveProduct(m.screen.ID, in)
	}
	m.form = m.form.Update(msg)
	return m, nil
}

func (m AppModel) t(k i18n.Key) string {
	return m.app.Text.T(k)
}

// View renders the full TUI.
func (m AppModel) View() string {
	header := titleStyle.Render(" "+m.t(i18n.AppTitle)) + " | " + m.sessionLabel() + "\n"

	var body, footer string
	switch m.screen.Route {
	case nav.Login:
		body, footer = m.renderLogin(), m.t(i18n.HelpLogin)
	case nav.Products:
		body, footer = m.renderProducts(), m.t(i18n.HelpProducts)
		if m.confirming {
			footer = m.t(i18n.HelpConfirm)
		}
	case nav.ProductNew, nav.ProductEdit:
		body, footer = m.renderForm(), m.t(i18n.HelpForm)
	}

	toast := "\n"
	if m.toast != nil {
		toast = renderToast(*m.toast)
	}
	return header + separator + body + "\n" + separator + toast + " " + footer + "\n"
}

func (m AppModel) sessionLabel() string {
	if !m.signedIn {
		return m.t(i18n.AuthAnonymous)
	}
	return fmt.Sprintf(m.t(i18n.AuthSignedIn), m.username)
}

func (m AppModel) renderLogin() string {
	body := " " + m.t(i18n.AuthLogin) + "\n\n" + m.login.View(m.t)
	if hint := m.inlineError(m.credentials().Validate()); hint != "" && m.login.Value(loginUsername) != "" {
		body += "\n " + hint + "\n"
	}
	if m.submitting {
		body += "\n " + m.t(i18n.AuthSubmit) + "...\n"
	}
	return body
}

func (m AppModel) renderProducts() string {
	title := " " + m.t(i18n.ProductsTitle) + "\n"
	if m.loading && len(m.list.Products()) == 0 {
		return title + "  " + m.t(i18n.ProductsLoading) + "\n"
	}
	header := fmt.Sprintf("%-24s %10s %6s  %s", m.t(i18n.ProductName), m.t(i18n.ProductPrice),
		truncate(m.t(i18n.ProductQuantity), 6), m.t(i18n.ProductUpdated))
	body := title + m.list.View(header, m.t(i18n.ProductsEmpty))
	if m.confirming {
		dialog := titleStyle.Render(m.t(i18n.ConfirmDeleteTitle)) + "\n" +
			fmt.Sprintf(m.t(i18n.ConfirmDeleteBody), m.confirmName)
		body += "\n" + dialogStyle.Render(dialog) + "\n"
	}
	return body
}

func (m AppModel) renderForm() string {
	title := m.t(i18n.ProductNewTitle)
	if m.screen.Route == nav.ProductEdit {
		title = m.t(i18n.ProductEditTitle)
	}
	body := " " + title + "\n\n"
	switch {
	case m.notFound:
		return body + "  " + m.t(i18n.ProductNotFound) + "\n"
	case m.loading:
		return body + "  ...\n"
	}
	body += m.form.View(m.t)
	if _, err := m.productInput(); err != nil && m.form.Value(formName) != "" {
		body += "\n " + m.inlineError(err) + "\n"
	}
	return body
}

func (m AppModel) inlineError(err error) string {
	key, ok := catalog.ValidationMessage(err)
	if !ok {
		return ""
	}
	return invalidStyle.Render(m.t(key))
}

// Run starts the Bubbletea program. The notification bus is bound to the
// program for its lifetime.
func Run(a *app.App) error {
	p := tea.NewProgram(NewAppModel(a), tea.WithAltScreen())
	release := a.Bus.Bind(func(n notify.Notification) {
		msg := NewToastMsg(n)
		// Show may be called while the program is handling a message.
		go p.Send(msg)
	})
	defer release()
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

