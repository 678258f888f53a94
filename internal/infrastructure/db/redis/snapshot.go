package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/growshop/admin-console/internal/core/domain"
)

const snapshotKey = "snapshot:products"

// productSnapshot is the cached product collection plus its capture time, so
// the panel can show how old a stale view is.
type productSnapshot struct {
	Products []domain.Product `json:"products"`
	SavedAt  time.Time        `json:"saved_at"`
}

// SnapshotStore caches the last good product load. It has no TTL: a stale
// snapshot beats an empty panel while the storefront is down.
type SnapshotStore struct {
	client *redis.Client
}

// NewSnapshotStore creates a SnapshotStore wrapping the given Redis client.
func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

func (s *SnapshotStore) SaveProducts(ctx context.Context, products []domain.Product) error {
	raw, err := json.Marshal(productSnapshot{Products: products, SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("snapshot encode: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("snapshot save: %w", err)
	}
	return nil
}

func (s *SnapshotStore) LoadProducts(ctx context.Context) ([]domain.Product, time.Time, error) {
	raw, err := s.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, time.Time{}, fmt.Errorf("no product snapshot available")
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("snapshot load: %w", err)
	}

	var snap productSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, time.Time{}, fmt.Errorf("snapshot decode: %w", err)
	}
	return snap.Products, snap.SavedAt, nil
}
