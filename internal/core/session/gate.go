// Package session owns the authenticated-identity state: who is logged in,
// whether the admin panel is visible, and the one-time panel setup that runs
// when admin access is first granted.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/growshop/admin-console/internal/core/domain"
)

// State enumerates the gate's positions.
type State int

const (
	Unauthenticated State = iota
	AuthenticatedNonAdmin
	AdminUninitialized
	AdminActive
)

func (s State) String() string {
	switch s {
	case AuthenticatedNonAdmin:
		return "authenticated_non_admin"
	case AdminUninitialized:
		return "admin_uninitialized"
	case AdminActive:
		return "admin_active"
	default:
		return "unauthenticated"
	}
}

// Decision tells the UI layer what to show for the current identity.
// ErrorMessage is non-empty only for an authenticated non-admin.
type Decision struct {
	ShowLogin    bool   `json:"showLogin"`
	ShowPanel    bool   `json:"showPanel"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// SetupFunc is the one-time action run when admin access is first granted:
// the initial data load plus the notification channel connect.
type SetupFunc func(ctx context.Context) error

// Gate decides panel visibility from the current identity. Evaluate is
// idempotent apart from the one-time setup trigger: calling it repeatedly
// with the same identity yields the same decision and never re-runs setup,
// which would otherwise duplicate data fetches and channel connections.
//
// Gate is safe for concurrent use. The mutex is held across setup so that
// two simultaneous evaluations cannot both observe an uninitialized gate;
// the second one waits and then skips setup.
type Gate struct {
	allowlist []string
	setup     SetupFunc
	log       zerolog.Logger

	mu          sync.Mutex
	state       State
	initialized bool
}

// NewGate returns a Gate in the Unauthenticated state. allowlist is the set
// of operator emails granted admin access regardless of role.
func NewGate(allowlist []string, setup SetupFunc, log zerolog.Logger) *Gate {
	return &Gate{allowlist: allowlist, setup: setup, log: log}
}

// Evaluate recomputes the gate state from an identity value and returns the
// visibility decision. A malformed identity (missing email or role) is never
// partially trusted: it is treated as no identity at all.
func (g *Gate) Evaluate(ctx context.Context, identity *domain.Identity) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case !identity.Valid():
		if identity != nil {
			g.log.Warn().Msg("discarding malformed identity")
		}
		g.state = Unauthenticated
		g.initialized = false
		return Decision{ShowLogin: true}

	case !identity.IsAdmin(g.allowlist):
		g.state = AuthenticatedNonAdmin
		g.initialized = false
		return Decision{ShowLogin: true, ErrorMessage: domain.ErrForbidden.Error()}

	case !g.initialized:
		g.state = AdminUninitialized
		if g.setup != nil {
			if err := g.setup(ctx); err != nil {
				// Setup failures are surfaced by the setup action itself;
				// the panel still opens so the operator can retry a reload.
				g.log.Error().Err(err).Msg("panel setup failed")
			}
		}
		g.initialized = true
		g.state = AdminActive
		g.log.Info().Str("email", identity.Email).Msg("admin panel initialized")
		return Decision{ShowPanel: true}

	default:
		g.state = AdminActive
		return Decision{ShowPanel: true}
	}
}

// Logout clears the gate back to Unauthenticated and re-arms the one-time
// setup for the next admin session.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = Unauthenticated
	g.initialized = false
}

// State exposes the current position for logging and tests.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
