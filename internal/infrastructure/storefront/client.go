// Package storefront is the HTTP adapter for the shop API the console
// administers. The console holds no data of its own; every collection and
// every mutation goes through this client.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/growshop/admin-console/internal/core/domain"
	"github.com/growshop/admin-console/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second

	// listLimit matches the full-collection loads the panel works from; the
	// table pipeline paginates locally.
	listLimit = 1000
)

// Client talks to the storefront REST API. It implements ports.AuthService
// and ports.DataService.
type Client struct {
	baseURL string
	http    *http.Client
}

// Config captures the settings for reaching the storefront API.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient builds a storefront client. A default timeout is applied when
// none is provided.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	} `json:"user"`
}

type productPayload struct {
	Title               string   `json:"title"`
	Category            string   `json:"category,omitempty"`
	Price               int64    `json:"price"`
	OldPrice            int64    `json:"oldPrice,omitempty"`
	Stock               int      `json:"stock"`
	Badge               string   `json:"badge,omitempty"`
	Description         string   `json:"description,omitempty"`
	DetailedDescription string   `json:"detailedDescription,omitempty"`
	Images              []string `json:"images,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// ---------------------------------------------------------------------------
// AuthService
// ---------------------------------------------------------------------------

// Login exchanges credentials for an identity and a bearer token. The
// storefront answers 401 for bad credentials; anything else non-2xx is an
// upstream fault.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Identity, string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/users/login", "", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusBadRequest) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	identity := &domain.Identity{
		ID:    resp.User.ID,
		Email: resp.User.Email,
		Name:  resp.User.Name,
		Role:  resp.User.Role,
	}
	return identity, resp.Token, nil
}

// ---------------------------------------------------------------------------
// DataService
// ---------------------------------------------------------------------------

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	path := fmt.Sprintf("/products?limit=%d&sort=-createdAt", listLimit)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, http.MethodGet, "/users", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateProduct(ctx context.Context, token string, input ports.ProductInput) error {
	return c.do(ctx, http.MethodPost, "/products", token, toPayload(input), nil)
}

func (c *Client) UpdateProduct(ctx context.Context, token, id string, input ports.ProductInput) error {
	err := c.do(ctx, http.MethodPatch, "/products/"+id, token, toPayload(input), nil)
	return mapNotFound(err, domain.ErrProductNotFound)
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	err := c.do(ctx, http.MethodDelete, "/products/"+id, token, nil, nil)
	return mapNotFound(err, domain.ErrProductNotFound)
}

func (c *Client) PromoteUser(ctx context.Context, token, id string) error {
	err := c.do(ctx, http.MethodPatch, "/users/"+id+"/promote", token, nil, nil)
	return mapNotFound(err, domain.ErrUserNotFound)
}

func (c *Client) BanUser(ctx context.Context, token, id string) error {
	err := c.do(ctx, http.MethodPatch, "/users/"+id+"/ban", token, nil, nil)
	return mapNotFound(err, domain.ErrUserNotFound)
}

// Ping checks storefront reachability for the readiness probe. A non-2xx
// answer still proves the upstream is there, so only transport failures count.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/products", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransportError{Err: err}
	}
	return resp.Body.Close()
}

func toPayload(in ports.ProductInput) productPayload {
	return productPayload{
		Title:               in.Title,
		Category:            in.Category,
		Price:               in.Price,
		OldPrice:            in.OldPrice,
		Stock:               in.Stock,
		Badge:               in.Badge,
		Description:         in.Description,
		DetailedDescription: in.DetailedDescription,
		Images:              in.Images,
	}
}

// ---------------------------------------------------------------------------
// Transport plumbing
// ---------------------------------------------------------------------------

// do performs one request cycle: encode, send, classify errors, decode.
// Network failures become *domain.TransportError, non-2xx responses become
// *domain.APIError carrying the upstream message.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &domain.TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var upstream errorResponse
		_ = json.Unmarshal(raw, &upstream)
		return &domain.APIError{StatusCode: resp.StatusCode, Message: upstream.Message}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// mapNotFound rewrites an upstream 404 into the matching domain sentinel so
// the surface can answer without leaking storefront response bodies.
func mapNotFound(err error, sentinel error) error {
	if err == nil {
		return nil
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return sentinel
	}
	return err
}
