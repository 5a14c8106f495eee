package graphql

import (
	"context"
	"encoding/json"
	"fmt"
)

// Handler executes a single GraphQL request.
type Handler interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// Do calls f.
func (f HandlerFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Middleware wraps a Handler with behavior before and/or after next runs.
type Middleware func(next Handler) Handler

// Chain wraps terminal with mws. mws[0] is the outermost link.
func Chain(terminal Handler, mws ...Middleware) Handler {
	h := terminal
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}

// Client runs requests through a Handler and decodes the data payload.
type Client struct {
	handler Handler
}

// NewClient creates a Client on top of h.
func NewClient(h Handler) *Client {
	return &Client{handler: h}
}

// Run executes req and, on success, decodes the "data" object into out.
// out may be nil when the caller only cares about success.
func (c *Client) Run(ctx context.Context, req *Request, out any) error {
	resp, err := c.handler.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || resp == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decoding %s data: %w", req.OperationName, err)
	}
	return nil
}
