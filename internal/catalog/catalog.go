// Package catalog implements domain.Catalog on top of the GraphQL pipeline.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/waabox/catalogdeck/internal/domain"
	"github.com/waabox/catalogdeck/internal/graphql"
)

// ErrMissingToken is returned when a login reply carries no token.
var ErrMissingToken = errors.New("login response carried no token")

// CredentialStore receives the token of a successful login.
type CredentialStore interface {
	Set(token string) error
}

// Client talks to the product API through a pipeline-backed graphql.Client.
type Client struct {
	gql   *graphql.Client
	store CredentialStore
}

// Ensure Client implements domain.Catalog.
var _ domain.Catalog = (*Client)(nil)

// NewClient creates a catalog client. store receives the login token.
func NewClient(gql *graphql.Client, store CredentialStore) *Client {
	return &Client{gql: gql, store: store}
}

// Ping checks that the API answers.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Ping string `json:"ping"`
	}
	return c.gql.Run(ctx, graphql.NewRequest(OpPing, pingQuery, nil), &out)
}

// Login validates creds locally, authenticates and stores the returned token.
// Nothing is stored unless the server returns a non-empty token.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.LoginResult, error) {
	if err := creds.Validate(); err != nil {
		return domain.LoginResult{}, err
	}
	var out struct {
		Login *struct {
			Token string  `json:"token"`
			User  userDTO `json:"user"`
		} `json:"login"`
	}
	req := graphql.NewRequest(OpLogin, loginMutation, map[string]any{
		"username": strings.TrimSpace(creds.Username),
		"password": creds.Password,
	})
	if err := c.gql.Run(ctx, req, &out); err != nil {
		return domain.LoginResult{}, err
	}
	if out.Login == nil || strings.TrimSpace(out.Login.Token) == "" {
		return domain.LoginResult{}, ErrMissingToken
	}
	if err := c.store.Set(out.Login.Token); err != nil {
		return domain.LoginResult{}, fmt.Errorf("storing session: %w", err)
	}
	return domain.LoginResult{Token: out.Login.Token, User: out.Login.User.toDomain()}, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	if err := (domain.Credentials{Username: username, Password: password}).Validate(); err != nil {
		return domain.User{}, err
	}
	if !strings.Contains(email, "@") {
		return domain.User{}, &domain.ValidationError{Field: "email", Reason: "must be a valid address"}
	}
	var out struct {
		Register userDTO `json:"register"`
	}
	req := graphql.NewRequest(OpRegister, registerMutation, map[string]any{
		"username": strings.TrimSpace(username),
		"email":    strings.TrimSpace(email),
		"password": password,
	})
	if err := c.gql.Run(ctx, req, &out); err != nil {
		return domain.User{}, err
	}
	return out.Register.toDomain(), nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var out struct {
		Me userDTO `json:"me"`
	}
	if err := c.gql.Run(ctx, graphql.NewRequest(OpMe, meQuery, nil), &out); err != nil {
		return domain.User{}, err
	}
	return out.Me.toDomain(), nil
}

// ListProducts returns every product, newest first as ordered by the server.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out struct {
		Products []productDTO `json:"products"`
	}
	if err := c.gql.Run(ctx, graphql.NewRequest(OpProducts, productsQuery, nil), &out); err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(out.Products))
	for _, p := range out.Products {
		products = append(products, p.toDomain())
	}
	return products, nil
}

// GetProduct returns one product, or domain.ErrProductNotFound when the
// server answers null.
func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var out struct {
		ProductByID *productDTO `json:"productById"`
	}
	req := graphql.NewRequest(OpProductByID, productByIDQuery, map[string]any{"id": id})
	if err := c.gql.Run(ctx, req, &out); err != nil {
		return domain.Product{}, err
	}
	if out.ProductByID == nil {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrProductNotFound)
	}
	return out.ProductByID.toDomain(), nil
}

// CreateProduct validates in locally and creates the product.
func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	if err := in.Validate(); err != nil {
		return domain.Product{}, err
	}
	var out struct {
		CreateProduct productDTO `json:"createProduct"`
	}
	req := graphql.NewRequest(OpCreateProduct, createProductMutation, map[string]any{"input": inputVars(in)})
	if err := c.gql.Run(ctx, req, &out); err != nil {
		return domain.Product{}, err
	}
	return out.CreateProduct.toDomain(), nil
}

// UpdateProduct validates in locally and replaces the product fields.
func (c *Client) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (domain.Product, error) {
	if err := in.Validate(); err != nil {
		return domain.Product{}, err
	}
	var out struct {
		UpdateProduct *productDTO `json:"updateProduct"`
	}
	req := graphql.NewRequest(OpUpdateProduct, updateProductMutation, map[string]any{"id": id, "input": inputVars(in)})
	if err := c.gql.Run(ctx, req, &out); err != nil {
		return domain.Product{}, err
	}
	if out.UpdateProduct == nil {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrProductNotFound)
	}
	return out.UpdateProduct.toDomain(), nil
}

// DeleteProduct removes the product and reports whether the server deleted it.
func (c *Client) DeleteProduct(ctx context.Context, id string) (bool, error) {
	var out struct {
		DeleteProduct bool `json:"deleteProduct"`
	}
	req := graphql.NewRequest(OpDeleteProduct, deleteProductMutation, map[string]any{"id": id})
	if err := c.gql.Run(ctx, req, &out); err != nil {
		return false, err
	}
	return out.DeleteProduct, nil
}
