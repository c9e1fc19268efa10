package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksync/feature/supplier"
)

func definition(baseURL string) supplier.Definition {
	return supplier.Definition{
		Name: "order_nordic",
		Type: "api",
		Config: map[string]string{
			"base_url": baseURL,
			"username": "dealer",
			"password": "secret",
		},
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(supplier.Definition{Name: "x", Config: map[string]string{"username": "u", "password": "p"}})
	assert.Error(t, err)

	_, err = New(supplier.Definition{Name: "x", Config: map[string]string{"base_url": "http://a"}})
	assert.Error(t, err)
}

func TestAuthenticateAndFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token":
			require.Equal(t, http.MethodPost, r.Method)

			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			if creds["username"] != "dealer" || creds["password"] != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
		case "/inventory":
			if r.Header.Get("Authorization") != "Bearer tok-123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"products": [
				{"ean": "5901234567890", "sku": "ABC-1", "status": "på lager"},
				{"ean": "5909876543210", "sku": "ABC-2", "status": "12"}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := New(definition(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "order_nordic", c.Name())

	require.NoError(t, c.Authenticate(context.Background()))

	records, err := c.FetchInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "5901234567890", records[0].EAN)
	assert.Equal(t, "på lager", records[0].Status)

	require.NoError(t, c.Close())
	_, err = c.FetchInventory(context.Background())
	assert.Error(t, err)
}

func TestAuthenticate_AccessTokenField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-abc"})
	}))
	defer srv.Close()

	c, err := New(definition(srv.URL))
	require.NoError(t, err)
	require.NoError(t, c.Authenticate(context.Background()))
	assert.Equal(t, "tok-abc", c.token)
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New(definition(srv.URL))
	require.NoError(t, err)
	assert.Error(t, c.Authenticate(context.Background()))
}

func TestAuthenticate_EmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := New(definition(srv.URL))
	require.NoError(t, err)
	assert.Error(t, c.Authenticate(context.Background()))
}

func TestFetchInventory_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token" {
			json.NewEncoder(w).Encode(map[string]string{"token": "t"})
			return
		}
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := New(definition(srv.URL))
	require.NoError(t, err)
	require.NoError(t, c.Authenticate(context.Background()))

	_, err = c.FetchInventory(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCustomPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "t"})
		case "/v2/stock":
			w.Write([]byte(`{"products": []}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	def := definition(srv.URL)
	def.Config["auth_path"] = "/v2/login"
	def.Config["inventory_path"] = "/v2/stock"

	c, err := New(def)
	require.NoError(t, err)
	require.NoError(t, c.Authenticate(context.Background()))

	records, err := c.FetchInventory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
