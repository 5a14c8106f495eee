package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBytes bounds how much of a reply is read.
const maxResponseBytes = 8 << 20

// HTTPTransport is the terminal Handler: it POSTs the request to a single
// GraphQL endpoint. It makes exactly one attempt per call.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
}

// Ensure HTTPTransport implements Handler.
var _ Handler = (*HTTPTransport)(nil)

// NewHTTPTransport creates a transport for endpoint with the given client timeout.
func NewHTTPTransport(endpoint string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the configured endpoint URL.
func (t *HTTPTransport) Endpoint() string {
	return t.endpoint
}

type wireRequest struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Do sends req and decodes the reply.
func (t *HTTPTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(wireRequest{
		OperationName: req.OperationName,
		Query:         req.Query,
		Variables:     req.Variables,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", req.OperationName, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Operation: req.OperationName, Transport: fmt.Errorf("executing request: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Operation: req.OperationName, Transport: fmt.Errorf("reading response: %w", err)}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	var out Response
	if decodeErr := json.Unmarshal(raw, &out); decodeErr != nil {
		if !ok {
			return nil, &Error{Operation: req.OperationName, Transport: &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}}
		}
		return nil, &Error{Operation: req.OperationName, Transport: fmt.Errorf("decoding response: %w", decodeErr)}
	}

	if len(out.Errors) > 0 {
		return &out, &Error{Operation: req.OperationName, Messages: messagesOf(out.Errors), Data: out.Data}
	}
	if !ok {
		return nil, &Error{Operation: req.OperationName, Transport: &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}}
	}
	return &out, nil
}
