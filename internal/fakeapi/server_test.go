package fakeapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waabox/catalogdeck/internal/fakeapi"
)

type reply struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func post(t *testing.T, url, token, op string, vars map[string]any) reply {
	t.Helper()
	body, err := json.Marshal(map[string]any{"operationName": op, "query": "q", "variables": vars})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url+fakeapi.Path, bytes.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out reply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestServer_LoginThenListProducts(t *testing.T) {
	api := fakeapi.New()
	api.AddUser("admin", "secret1", fakeapi.RoleAdmin)
	api.Seed("Laptop", nil, "1300.99", 3)
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	login := post(t, srv.URL, "", "Login", map[string]any{"username": "admin", "password": "secret1"})
	require.Empty(t, login.Errors)
	var lr struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(login.Data["login"], &lr))
	require.NotEmpty(t, lr.Token)

	list := post(t, srv.URL, lr.Token, "Products", nil)
	require.Empty(t, list.Errors)
	require.Contains(t, string(list.Data["products"]), "Laptop")
}

func TestServer_ProtectedOperationWithoutTokenIsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New().Router())
	defer srv.Close()

	out := post(t, srv.URL, "", "Products", nil)
	require.Len(t, out.Errors, 1)
	require.Equal(t, "Unauthorized", out.Errors[0].Message)
}

func TestServer_BadPasswordIsInvalidCredentials(t *testing.T) {
	api := fakeapi.New()
	api.AddUser("admin", "secret1", fakeapi.RoleAdmin)
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	out := post(t, srv.URL, "", "Login", map[string]any{"username": "admin", "password": "wrong-pw"})
	require.Equal(t, "Invalid credentials", out.Errors[0].Message)
}

func TestServer_FailNextIsConsumedOnce(t *testing.T) {
	api := fakeapi.New()
	api.FailNext("Ping", "boom")
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	require.Equal(t, "boom", post(t, srv.URL, "", "Ping", nil).Errors[0].Message)
	require.Empty(t, post(t, srv.URL, "", "Ping", nil).Errors)
	require.Len(t, api.CallsOf("Ping"), 2)
}

func TestServer_Health(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New().Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
