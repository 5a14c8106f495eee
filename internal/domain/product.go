package domain

import (
	"math"
	"strings"
	"time"
)

// Product is a catalog record as returned by the API.
// Price is kept as the decimal string the server emits so no precision is lost.
type Product struct {
	ID          string
	Name        string
	Description *string
	Price       string
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductInput is the payload for createProduct and updateProduct.
type ProductInput struct {
	Name        string
	Description *string
	Price       float64
	Quantity    int
}

const (
	minProductNameLen = 2
	minPasswordLen    = 6
)

// NewProductInput trims form values and validates them locally.
// A description that is empty after trimming becomes nil, not "".
func NewProductInput(name, description string, price float64, quantity int) (ProductInput, error) {
	in := ProductInput{
		Name:        strings.TrimSpace(name),
		Description: OptionalText(description),
		Price:       price,
		Quantity:    quantity,
	}
	if err := in.Validate(); err != nil {
		return ProductInput{}, err
	}
	return in, nil
}

// Validate checks the same constraints the server enforces.
func (in ProductInput) Validate() error {
	if len([]rune(strings.TrimSpace(in.Name))) < minProductNameLen {
		return &ValidationError{Field: "name", Reason: "must be at least 2 characters"}
	}
	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return &ValidationError{Field: "price", Reason: "must be a finite number"}
	}
	if in.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if in.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	return nil
}

// OptionalText returns nil for blank input and a pointer to the trimmed text otherwise.
func OptionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// DescriptionOrEmpty returns the product description, or "" when absent.
func (p Product) DescriptionOrEmpty() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}
