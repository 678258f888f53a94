package session

import (
	"sync"

	"github.com/growshop/admin-console/internal/core/domain"
)

const subscriberBuffer = 8

// IdentityStore is the process-wide holder for the current identity: exactly
// one writer (the authentication flow) and any number of readers. Readers are
// notified of changes through subscription channels and must re-read the value
// rather than cache a stale copy across a notification.
type IdentityStore struct {
	mu      sync.RWMutex
	current *domain.Identity
	subs    []chan *domain.Identity
}

func NewIdentityStore() *IdentityStore {
	return &IdentityStore{}
}

// Current returns the identity snapshot, or nil when unauthenticated.
func (s *IdentityStore) Current() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the identity and notifies every subscriber. A nil identity
// means logout. Notifications are dropped for subscribers whose buffer is
// full; they will observe the latest value on their next read of Current.
func (s *IdentityStore) Set(identity *domain.Identity) {
	s.mu.Lock()
	s.current = identity
	subs := make([]chan *domain.Identity, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- identity:
		default:
		}
	}
}

// Subscribe registers a new listener for identity-change notifications.
func (s *IdentityStore) Subscribe() <-chan *domain.Identity {
	ch := make(chan *domain.Identity, subscriberBuffer)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}
