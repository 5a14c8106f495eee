package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/waabox/catalogdeck/internal/domain"
)

// ProductListModel is an immutable Bubbletea-compatible model for the product table.
type ProductListModel struct {
	products []domain.Product
	cursor   int
}

// NewProductListModel creates a product list model with the given products.
func NewProductListModel(products []domain.Product) ProductListModel {
	return ProductListModel{products: products, cursor: 0}
}

// MoveDown returns a new model with the cursor moved down by one.
func (m ProductListModel) MoveDown() ProductListModel {
	if m.cursor < len(m.products)-1 {
		m.cursor++
	}
	return m
}

// MoveUp returns a new model with the cursor moved up by one.
func (m ProductListModel) MoveUp() ProductListModel {
	if m.cursor > 0 {
		m.cursor--
	}
	return m
}

// SelectedIndex returns the current cursor position.
func (m ProductListModel) SelectedIndex() int {
	return m.cursor
}

// Products returns the listed products.
func (m ProductListModel) Products() []domain.Product {
	return m.products
}

// SelectedProduct returns the highlighted product and false when the list is empty.
func (m ProductListModel) SelectedProduct() (domain.Product, bool) {
	if len(m.products) == 0 {
		return domain.Product{}, false
	}
	return m.products[m.cursor], true
}

// Replace swaps in a fresh product list, keeping the cursor on the same
// product when it is still present.
func (m ProductListModel) Replace(products []domain.Product) ProductListModel {
	selected, ok := m.SelectedProduct()
	next := NewProductListModel(products)
	if !ok {
		return next
	}
	for i, p := range products {
		if p.ID == selected.ID {
			next.cursor = i
			return next
		}
	}
	if m.cursor < len(products) {
		next.cursor = m.cursor
	} else if len(products) > 0 {
		next.cursor = len(products) - 1
	}
	return next
}

// View renders the table. empty is shown when there are no rows.
func (m ProductListModel) View(header, empty string) string {
	if len(m.products) == 0 {
		return "  " + empty + "\n"
	}
	var sb strings.Builder
	sb.WriteString("  " + header + "\n")
	for i, p := range m.products {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		sb.WriteString(fmt.Sprintf("%s%-24s %10s %6d  %s\n",
			prefix,
			truncate(p.Name, 24),
			p.Price,
			p.Quantity,
			formatAge(p.UpdatedAt),
		))
	}
	return sb.String()
}

func formatAge(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Local().Format("2006-01-02")
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
