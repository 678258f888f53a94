package ports

import (
	"context"

	"github.com/growshop/admin-console/internal/core/domain"
)

// AuthService is the storefront's authentication endpoint. The storefront
// verifies credentials and issues the bearer token the console uses for
// privileged calls; the console never sees password hashes.
type AuthService interface {
	// Login exchanges credentials for an identity and a storefront token.
	// Fails with domain.ErrInvalidCredentials, *domain.APIError, or
	// *domain.TransportError.
	Login(ctx context.Context, email, password string) (*domain.Identity, string, error)
}
