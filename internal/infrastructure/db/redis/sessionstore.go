package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/growshop/admin-console/internal/core/domain"
	"github.com/growshop/admin-console/internal/core/ports"
)

// SessionStore persists admin sessions as JSON values with a TTL, so sessions
// survive console restarts and expire without a cleanup job.
// Key format: session:<sid>
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, sid string, data ports.SessionData, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sid), raw, ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Load returns the stored session, or domain.ErrSessionExpired when the key is
// missing or no longer decodes. A corrupt record is removed on the way out.
func (s *SessionStore) Load(ctx context.Context, sid string) (*ports.SessionData, error) {
	raw, err := s.client.Get(ctx, sessionKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}

	var data ports.SessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		_ = s.client.Del(ctx, sessionKey(sid)).Err()
		return nil, domain.ErrSessionExpired
	}
	return &data, nil
}

func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, sessionKey(sid)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func sessionKey(sid string) string {
	return "session:" + sid
}
