package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/waabox/catalogdeck/internal/domain"
)

// decimal accepts the price either as a JSON string ("1300.99") or a number.
type decimal string

func (d *decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("price: %w", err)
	}
	*d = decimal(n.String())
	return nil
}

// timestampLayouts are tried in order. The API emits ISO 8601, with or
// without an offset depending on the column type.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07:00",
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type productDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       decimal `json:"price"`
	Quantity    int     `json:"quantity"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func (p productDTO) toDomain() domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       string(p.Price),
		Quantity:    p.Quantity,
		CreatedAt:   parseTimestamp(p.CreatedAt),
		UpdatedAt:   parseTimestamp(p.UpdatedAt),
	}
}

type userDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u userDTO) toDomain() domain.User {
	return domain.User{ID: u.ID, Username: u.Username, Role: u.Role}
}

// inputVars renders a ProductInput. A nil description is sent as JSON null.
func inputVars(in domain.ProductInput) map[string]any {
	var desc any
	if in.Description != nil {
		desc = *in.Description
	}
	return map[string]any{
		"name":        in.Name,
		"description": desc,
		"price":       in.Price,
		"quantity":    in.Quantity,
	}
}
