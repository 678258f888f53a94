package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/growshop/admin-console/internal/core/domain"
	"github.com/growshop/admin-console/internal/core/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestLoginReturnsIdentityAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode login body: %v", err)
		}
		if req.Email != "admin@growshop.io" {
			t.Errorf("email = %q", req.Email)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-123",
			"user": map[string]string{
				"id": "a1", "email": "admin@growshop.io", "name": "Admin", "role": "admin",
			},
		})
	})

	identity, token, err := c.Login(context.Background(), "admin@growshop.io", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("token = %q", token)
	}
	if identity.Role != domain.RoleAdmin || identity.ID != "a1" {
		t.Fatalf("identity = %+v", identity)
	}
}

func TestLoginMapsUnauthorizedToInvalidCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "wrong password"})
	})

	_, _, err := c.Login(context.Background(), "admin@growshop.io", "nope")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUpstreamFaultIsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "database down"})
	})

	_, _, err := c.Login(context.Background(), "admin@growshop.io", "secret")
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "database down" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

// ---------------------------------------------------------------------------
// Collections
// ---------------------------------------------------------------------------

func TestListProductsDecodesCollection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "1000" || r.URL.Query().Get("sort") != "-createdAt" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[
			{"id":"p1","title":"Grow lamp","price":89000,"stock":3,"createdAt":"2026-03-01T10:00:00Z"},
			{"id":"p2","title":"Potting soil","price":6000,"stock":20,"createdAt":"2026-02-01T10:00:00Z"}
		]`))
	})

	products, err := c.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 2 || products[0].ID != "p1" || products[0].Price != 89000 {
		t.Fatalf("products = %+v", products)
	}
	if products[0].CreatedAt.IsZero() {
		t.Fatal("createdAt was not decoded")
	}
}

func TestListProductsConnectionRefusedIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // now nothing listens on that address
	c := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})

	_, err := c.ListProducts(context.Background())
	var terr *domain.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestListUsersSendsBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("authorization = %q", got)
		}
		_, _ = w.Write([]byte(`[{"id":"u1","name":"Lena","email":"lena@mail.test","role":"user","active":true}]`))
	})

	users, err := c.ListUsers(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 || users[0].Email != "lena@mail.test" {
		t.Fatalf("users = %+v", users)
	}
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func TestCreateProductPostsPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/products" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var p productPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if p.Title != "Grow tent" || p.Price != 250000 {
			t.Errorf("payload = %+v", p)
		}
		w.WriteHeader(http.StatusCreated)
	})

	err := c.CreateProduct(context.Background(), "tok", ports.ProductInput{Title: "Grow tent", Price: 250000, Stock: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestDeleteProductMapsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
	})

	err := c.DeleteProduct(context.Background(), "tok", "ghost")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestPromoteUserHitsModerationRoute(t *testing.T) {
	var gotPath, gotMethod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.WriteHeader(http.StatusOK)
	})

	if err := c.PromoteUser(context.Background(), "tok", "u7"); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/users/u7/promote" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
}

func TestPingSucceedsOnAnyResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusMethodNotAllowed) // upstream is alive, that is enough
	})

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestPingReportsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})

	err := c.Ping(context.Background())
	var terr *domain.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestBanUserMapsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := c.BanUser(context.Background(), "tok", "ghost")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
