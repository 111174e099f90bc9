package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fekuna/omnipos-pos-client/internal/logger"
)

type memTokens struct {
	mu      sync.Mutex
	access  string
	refresh string
	expired bool
}

func (m *memTokens) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

func (m *memTokens) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *memTokens) SetAccessToken(a string) {
	m.mu.Lock()
	m.access = a
	m.mu.Unlock()
}

func (m *memTokens) Expire() {
	m.mu.Lock()
	m.access, m.refresh, m.expired = "", "", true
	m.mu.Unlock()
}

func newTestClient(t *testing.T, h http.Handler) (*Client, *memTokens) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(&Config{BaseURL: srv.URL + "/api/"}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ts := &memTokens{access: "old", refresh: "r1"}
	c.SetTokenSource(ts)
	return c, ts
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClientRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "localhost:8000", "://x"} {
		if _, err := NewClient(&Config{BaseURL: u}, logger.NewNop()); err == nil {
			t.Errorf("NewClient(%q) succeeded", u)
		}
	}
}

func TestRefreshOnceAndReplay(t *testing.T) {
	var refreshes, calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshes, 1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["refresh"] != "r1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "bad refresh"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": "new"})
	})
	mux.HandleFunc("/api/core/profile/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Header.Get("Authorization") != "Bearer new" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "username": "mia", "role": "sales"})
	})
	c, ts := newTestClient(t, mux)

	u, err := c.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if u.Username != "mia" {
		t.Errorf("username = %q", u.Username)
	}
	if refreshes != 1 || calls != 2 {
		t.Errorf("refreshes = %d calls = %d, want 1 and 2", refreshes, calls)
	}
	if ts.AccessToken() != "new" {
		t.Errorf("access token = %q", ts.AccessToken())
	}
}

func TestRejectedRefreshExpiresSession(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
	})
	mux.HandleFunc("/api/sales/pending/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "expired"})
	})
	c, ts := newTestClient(t, mux)

	_, err := c.PendingSales(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if !ts.expired {
		t.Error("session not expired")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want no replay", calls)
	}
}

func TestLoginDoesNotRefresh(t *testing.T) {
	var refreshes int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshes, 1)
	})
	mux.HandleFunc("/api/core/login/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("login carried a bearer token")
		}
		writeJSON(w, http.StatusUnauthorized, map[string]any{"non_field_errors": []string{"Invalid credentials"}})
	})
	c, _ := newTestClient(t, mux)

	_, err := c.Login(context.Background(), "mia", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Message != "Invalid credentials" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if refreshes != 0 {
		t.Errorf("refreshes = %d", refreshes)
	}
}

func TestListAllFollowsNext(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/categories/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeJSON(w, http.StatusOK, map[string]any{"count": 3, "next": nil, "results": []map[string]any{{"id": 3, "name": "Juice"}}})
			return
		}
		next := srvURL + "/api/products/categories/?page=2"
		writeJSON(w, http.StatusOK, map[string]any{"count": 3, "next": next, "results": []map[string]any{{"id": 1, "name": "Beer"}, {"id": 2, "name": "Soda"}}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL
	c, err := NewClient(&Config{BaseURL: srv.URL + "/api"}, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	cats, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 3 || cats[2].Name != "Juice" {
		t.Errorf("categories = %+v", cats)
	}
}

func TestListAllAcceptsBareArray(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/base-units/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Piece", "symbol": "pc", "is_base_unit": true}})
	})
	c, _ := newTestClient(t, mux)

	units, err := c.BaseUnits(context.Background())
	if err != nil {
		t.Fatalf("BaseUnits: %v", err)
	}
	if len(units) != 1 || !units[0].IsBaseUnit {
		t.Errorf("units = %+v", units)
	}
}

func TestBulkStockAvailabilityKeys(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/bulk-stock-availability/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"10": map[string]any{
				"product_name": "Water",
				"base_unit":    map[string]any{"id": 1, "name": "Piece", "symbol": "pc"},
				"available_units": []map[string]any{
					{"id": 1, "name": "Piece", "is_base_unit": true, "conversion_factor": "1", "available_quantity": "48", "is_available": true},
				},
			},
		})
	})
	c, _ := newTestClient(t, mux)

	got, err := c.BulkStockAvailability(context.Background(), []int64{10, 11})
	if err != nil {
		t.Fatalf("BulkStockAvailability: %v", err)
	}
	sa, ok := got[10]
	if !ok || sa.ProductID != 10 {
		t.Fatalf("entry for 10 = %+v", sa)
	}
	if _, ok := got[11]; ok {
		t.Error("unexpected entry for 11")
	}
	base, ok := sa.BaseStock()
	if !ok || base.String() != "48" {
		t.Errorf("base stock = %s", base)
	}
}

func TestPingTreatsHTTPErrorsAsReachable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/core/health/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c, _ := newTestClient(t, mux)
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestPingRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c, err := NewClient(&Config{BaseURL: "http://" + addr + "/api"}, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	err = c.Ping(context.Background())
	if err == nil || !IsNetworkError(err) {
		t.Errorf("Ping err = %v, want network error", err)
	}
}
