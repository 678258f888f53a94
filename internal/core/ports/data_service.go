package ports

import (
	"context"

	"github.com/growshop/admin-console/internal/core/domain"
)

// ProductInput carries the product form fields submitted to the storefront.
type ProductInput struct {
	Title               string
	Category            string
	Price               int64
	OldPrice            int64
	Stock               int
	Badge               string
	Description         string
	DetailedDescription string
	Images              []string
}

// DataService is the storefront REST API as consumed by the console. Listing
// products is public; everything else requires the storefront token obtained
// at login. All mutations are fire-and-reload: on success the caller refetches
// the whole collection rather than patching local state.
type DataService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListUsers(ctx context.Context, token string) ([]domain.User, error)

	CreateProduct(ctx context.Context, token string, input ProductInput) error
	UpdateProduct(ctx context.Context, token, id string, input ProductInput) error
	DeleteProduct(ctx context.Context, token, id string) error

	PromoteUser(ctx context.Context, token, id string) error
	BanUser(ctx context.Context, token, id string) error
}
