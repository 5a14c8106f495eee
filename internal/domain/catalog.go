package domain

import "context"

// Catalog is the port interface the views use to talk to the product API.
// The domain does not know about GraphQL, HTTP or the interception pipeline.
type Catalog interface {
	Ping(ctx context.Context) error
	Login(ctx context.Context, creds Credentials) (LoginResult, error)
	Register(ctx context.Context, username, email, password string) (User, error)
	Me(ctx context.Context) (User, error)
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (Product, error)
	UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
}
