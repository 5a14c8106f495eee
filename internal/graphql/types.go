package graphql

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Request is one named GraphQL operation.
type Request struct {
	OperationName string
	Query         string
	Variables     map[string]any
	Header        http.Header
}

// NewRequest creates a Request with an empty header set.
func NewRequest(operationName, query string, variables map[string]any) *Request {
	return &Request{
		OperationName: operationName,
		Query:         query,
		Variables:     variables,
		Header:        http.Header{},
	}
}

// Clone returns a copy whose Header can be modified without affecting r.
func (r *Request) Clone() *Request {
	c := *r
	if r.Header != nil {
		c.Header = r.Header.Clone()
	} else {
		c.Header = http.Header{}
	}
	return &c
}

// ServerError is one entry of the response "errors" array.
type ServerError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// Response is a decoded GraphQL reply.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ServerError   `json:"errors,omitempty"`
}

// Error is a failed operation.
type Error struct {
	Operation string
	// Transport is set when the request never completed or the reply could not
	// be read as GraphQL. Server messages are not trusted in that case.
	Transport error
	Messages  []string
	Data      json.RawMessage
}

func (e *Error) Error() string {
	if e == nil {
		return "graphql: <nil>"
	}
	if e.Transport != nil {
		return fmt.Sprintf("graphql %s: %v", e.Operation, e.Transport)
	}
	if len(e.Messages) == 0 {
		return fmt.Sprintf("graphql %s: request failed", e.Operation)
	}
	return fmt.Sprintf("graphql %s: %s", e.Operation, strings.Join(e.Messages, "; "))
}

// Unwrap exposes the transport cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Transport
}

// TransportCause returns the network-level cause, or nil.
func (e *Error) TransportCause() error {
	if e == nil {
		return nil
	}
	return e.Transport
}

// ServerMessages returns the server-reported error messages.
func (e *Error) ServerMessages() []string {
	if e == nil {
		return nil
	}
	return e.Messages
}

// StatusError is a non-2xx HTTP reply that carried no GraphQL errors.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status: %s", e.Status)
}

func messagesOf(errs []ServerError) []string {
	out := make([]string, 0, len(errs))
	for _, ge := range errs {
		out = append(out, ge.Message)
	}
	return out
}
