package ports

import (
	"context"
	"time"

	"github.com/growshop/admin-console/internal/core/domain"
)

// SessionData is the server-side session record: the identity snapshot plus
// the storefront token backing it.
type SessionData struct {
	Identity        domain.Identity `json:"identity"`
	StorefrontToken string          `json:"storefront_token"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SessionStore persists admin sessions across console restarts. Load fails
// with domain.ErrSessionExpired when the session is unknown or past its TTL.
type SessionStore interface {
	Save(ctx context.Context, sid string, data SessionData, ttl time.Duration) error
	Load(ctx context.Context, sid string) (*SessionData, error)
	Delete(ctx context.Context, sid string) error
}

// SnapshotStore caches the last successfully loaded product collection so the
// panel can keep rendering (marked stale) while the storefront is unreachable.
type SnapshotStore interface {
	SaveProducts(ctx context.Context, products []domain.Product) error
	LoadProducts(ctx context.Context) ([]domain.Product, time.Time, error)
}
