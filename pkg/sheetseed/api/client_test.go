package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authCookie = "lb_auth"

// newTestServer serves a minimal API that requires the login cookie on
// every route but login.
func newTestServer(t *testing.T) (*httptest.Server, *[]CashMovement) {
	t.Helper()
	var movements []CashMovement
	sessionOpen := false

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["username"] != "admin" || body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: authCookie, Value: "token", Path: "/"})
		writeJSON(w, map[string]interface{}{"id": 1, "username": "admin"})
	})

	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(authCookie); err != nil || c.Value != "token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			h(w, r)
		}
	}

	mux.HandleFunc("/api/products", authed(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if r.URL.Query().Get("q") == "cable usb" {
				writeJSON(w, []Product{{ID: 7, Name: "CABLE USB"}, {ID: 8, Name: "CABLE USB-C"}})
				return
			}
			writeJSON(w, []Product{})
		case http.MethodPost:
			var p ProductUpsert
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			if p.Name == "" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"name required"}`))
				return
			}
			writeJSON(w, Product{ID: 99, Name: p.Name, Category: p.Category, CostPrice: p.CostPrice})
		}
	}))
	mux.HandleFunc("/api/stock/entries", authed(func(w http.ResponseWriter, r *http.Request) {
		var e StockEntry
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&e))
		writeJSON(w, map[string]interface{}{"id": 3, "items": len(e.Items)})
	}))
	mux.HandleFunc("/api/cash/current", authed(func(w http.ResponseWriter, r *http.Request) {
		if !sessionOpen {
			writeJSON(w, nil)
			return
		}
		writeJSON(w, CashSession{ID: 5, IsOpen: true})
	}))
	mux.HandleFunc("/api/cash/open", authed(func(w http.ResponseWriter, r *http.Request) {
		sessionOpen = true
		writeJSON(w, CashSession{ID: 5, IsOpen: true})
	}))
	mux.HandleFunc("/api/cash/movement", authed(func(w http.ResponseWriter, r *http.Request) {
		var m CashMovement
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		movements = append(movements, m)
		writeJSON(w, map[string]int{"id": len(movements)})
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &movements
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestClientSessionFlow(t *testing.T) {
	srv, movements := newTestServer(t)
	ctx := context.Background()

	c, err := NewClient(srv.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, srv.URL, c.BaseURL())

	require.NoError(t, c.Login(ctx, "admin", "secret"))

	products, err := c.SearchProducts(ctx, "cable usb")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 7, products[0].ID)

	cost := 0.55
	created, err := c.CreateProduct(ctx, ProductUpsert{Name: "FUNDA", Category: "FUNDAS", CostPrice: &cost, Active: true})
	require.NoError(t, err)
	assert.Equal(t, 99, created.ID)
	assert.Equal(t, &cost, created.CostPrice)

	id := created.ID
	raw, err := c.CreateStockEntry(ctx, StockEntry{Date: time.Now(), Items: []StockEntryItem{{ProductID: &id, Qty: 2}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"items":1}`, string(raw))

	current, err := c.CurrentCashSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, current, "null session decodes to nil")

	opened, err := c.OpenCashSession(ctx, 0)
	require.NoError(t, err)
	assert.True(t, opened.IsOpen)

	current, err = c.CurrentCashSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, 5, current.ID)

	category := "GASTO FIJO"
	require.NoError(t, c.CreateCashMovement(ctx, CashMovement{Type: CashMovementExpense, Amount: 100, Reason: "LUZ", Category: &category}))
	require.Len(t, *movements, 1)
	assert.Equal(t, CashMovementExpense, (*movements)[0].Type)
}

func TestClientAPIError(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	err = c.Login(ctx, "admin", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "/api/auth/login", apiErr.Path)

	_, err = c.SearchProducts(ctx, "x")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode, "no session cookie without login")

	require.NoError(t, c.Login(ctx, "admin", "secret"))
	_, err = c.CreateProduct(ctx, ProductUpsert{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "name required")
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)
	assert.Error(t, c.Login(context.Background(), "a", "b"))
}

func TestClientRateLimitHonoursContext(t *testing.T) {
	srv, _ := newTestServer(t)
	c, err := NewClient(srv.URL, WithRateLimit(0.001))
	require.NoError(t, err)

	require.NoError(t, c.Login(context.Background(), "admin", "secret"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.SearchProducts(ctx, "x")
	assert.Error(t, err, "second request must wait for the limiter")
}

func TestNewClientRejectsInvalidURL(t *testing.T) {
	_, err := NewClient("not a url")
	assert.Error(t, err)
}
