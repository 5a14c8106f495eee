package graphql_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/waabox/catalogdeck/internal/graphql"
)

func TestHTTPTransport_SendsNamedOperation(t *testing.T) {
	var got map[string]any
	var header http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"ping":"pong"}}`))
	}))
	defer srv.Close()

	tr := graphql.NewHTTPTransport(srv.URL, time.Second)
	req := graphql.NewRequest("Ping", "query Ping { ping }", map[string]any{"x": 1})
	req.Header.Set("X-Trace", "abc")

	resp, err := tr.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Data) != `{"ping":"pong"}` {
		t.Errorf("unexpected data: %s", resp.Data)
	}
	if got["operationName"] != "Ping" {
		t.Errorf("expected operationName Ping, got %v", got["operationName"])
	}
	if header.Get("X-Trace") != "abc" {
		t.Errorf("expected request header to be forwarded")
	}
	if header.Get("Content-Type") != "application/json" {
		t.Errorf("expected JSON content type, got %q", header.Get("Content-Type"))
	}
}

func TestHTTPTransport_ServerErrorsKeepPartialData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"products":null},"errors":[{"message":"Forbidden"},{"message":"other"}]}`))
	}))
	defer srv.Close()

	resp, err := graphql.NewHTTPTransport(srv.URL, time.Second).Do(context.Background(), graphql.NewRequest("Products", "q", nil))
	var gerr *graphql.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *graphql.Error, got %T: %v", err, err)
	}
	if gerr.Transport != nil {
		t.Errorf("expected no transport cause, got %v", gerr.Transport)
	}
	if len(gerr.Messages) != 2 || gerr.Messages[0] != "Forbidden" {
		t.Errorf("unexpected messages: %v", gerr.Messages)
	}
	if resp == nil || string(resp.Data) != `{"products":null}` {
		t.Errorf("expected partial data to be returned")
	}
}

func TestHTTPTransport_NonGraphQLStatusIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := graphql.NewHTTPTransport(srv.URL, time.Second).Do(context.Background(), graphql.NewRequest("Me", "q", nil))
	var status *graphql.StatusError
	if !errors.As(err, &status) {
		t.Fatalf("expected *graphql.StatusError, got %v", err)
	}
	if status.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", status.StatusCode)
	}
}

func TestHTTPTransport_ErrorStatusWithGraphQLBodyKeepsMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"message":"Unauthorized"}]}`))
	}))
	defer srv.Close()

	_, err := graphql.NewHTTPTransport(srv.URL, time.Second).Do(context.Background(), graphql.NewRequest("Me", "q", nil))
	var gerr *graphql.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *graphql.Error, got %v", err)
	}
	if gerr.TransportCause() != nil || len(gerr.ServerMessages()) != 1 {
		t.Errorf("expected server message only, got %+v", gerr)
	}
}

func TestHTTPTransport_ConnectionRefusedIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := graphql.NewHTTPTransport(url, time.Second).Do(context.Background(), graphql.NewRequest("Ping", "q", nil))
	var gerr *graphql.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *graphql.Error, got %v", err)
	}
	if gerr.TransportCause() == nil {
		t.Error("expected a transport cause")
	}
}

func TestHTTPTransport_InvalidJSONIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := graphql.NewHTTPTransport(srv.URL, time.Second).Do(context.Background(), graphql.NewRequest("Ping", "q", nil))
	var gerr *graphql.Error
	if !errors.As(err, &gerr) || gerr.Transport == nil {
		t.Fatalf("expected transport failure, got %v", err)
	}
}
