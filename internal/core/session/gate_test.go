package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/growshop/admin-console/internal/core/domain"
)

func adminIdentity() *domain.Identity {
	return &domain.Identity{ID: "u1", Email: "ops@example.com", Name: "Ops", Role: domain.RoleAdmin}
}

func TestGate_NilIdentityShowsLogin(t *testing.T) {
	g := NewGate(nil, nil, zerolog.Nop())

	d := g.Evaluate(context.Background(), nil)
	if !d.ShowLogin || d.ShowPanel {
		t.Errorf("nil identity: expected login only, got %+v", d)
	}
	if d.ErrorMessage != "" {
		t.Errorf("nil identity must not set an error message, got %q", d.ErrorMessage)
	}
	if g.State() != Unauthenticated {
		t.Errorf("expected Unauthenticated, got %s", g.State())
	}
}

func TestGate_NonAdminDenied(t *testing.T) {
	g := NewGate(nil, nil, zerolog.Nop())

	d := g.Evaluate(context.Background(), &domain.Identity{ID: "u2", Email: "shopper@example.com", Role: domain.RoleUser})
	if !d.ShowLogin || d.ShowPanel {
		t.Errorf("non-admin: expected login only, got %+v", d)
	}
	if d.ErrorMessage == "" {
		t.Error("non-admin must be told access was denied")
	}
	if g.State() != AuthenticatedNonAdmin {
		t.Errorf("expected AuthenticatedNonAdmin, got %s", g.State())
	}
}

func TestGate_AdminOpensPanelAndRunsSetupOnce(t *testing.T) {
	setupCalls := 0
	g := NewGate(nil, func(context.Context) error {
		setupCalls++
		return nil
	}, zerolog.Nop())

	for i := 0; i < 3; i++ {
		d := g.Evaluate(context.Background(), adminIdentity())
		if d.ShowLogin || !d.ShowPanel {
			t.Fatalf("admin evaluate %d: expected panel, got %+v", i, d)
		}
		if d.ErrorMessage != "" {
			t.Fatalf("admin must not see an error message, got %q", d.ErrorMessage)
		}
	}

	if setupCalls != 1 {
		t.Errorf("setup must run exactly once, ran %d times", setupCalls)
	}
	if g.State() != AdminActive {
		t.Errorf("expected AdminActive, got %s", g.State())
	}
}

func TestGate_AllowlistedEmailCountsAsAdmin(t *testing.T) {
	g := NewGate([]string{"Owner@Example.com"}, nil, zerolog.Nop())

	d := g.Evaluate(context.Background(), &domain.Identity{ID: "u3", Email: "owner@example.com", Role: domain.RoleUser})
	if !d.ShowPanel {
		t.Errorf("allowlisted email must open the panel, got %+v", d)
	}
}

func TestGate_MalformedIdentityNeverTrusted(t *testing.T) {
	g := NewGate(nil, nil, zerolog.Nop())

	for _, identity := range []*domain.Identity{
		{ID: "u4", Role: domain.RoleAdmin},       // missing email
		{ID: "u5", Email: "x@example.com"},       // missing role
		{},                                       // empty
	} {
		d := g.Evaluate(context.Background(), identity)
		if d.ShowPanel {
			t.Errorf("malformed identity %+v must not open the panel", identity)
		}
		if d.ErrorMessage != "" {
			t.Errorf("malformed identity is treated as unauthenticated, not denied: %+v", identity)
		}
	}
}

func TestGate_ConcurrentEvaluateRunsSetupOnce(t *testing.T) {
	var setupCalls int32
	g := NewGate(nil, func(context.Context) error {
		atomic.AddInt32(&setupCalls, 1)
		return nil
	}, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d := g.Evaluate(context.Background(), adminIdentity()); !d.ShowPanel {
				t.Error("admin evaluate must open the panel")
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&setupCalls); n != 1 {
		t.Errorf("setup must run exactly once under concurrent evaluation, ran %d times", n)
	}
	if g.State() != AdminActive {
		t.Errorf("expected AdminActive, got %s", g.State())
	}
}

func TestGate_LogoutReArmsSetup(t *testing.T) {
	setupCalls := 0
	g := NewGate(nil, func(context.Context) error {
		setupCalls++
		return nil
	}, zerolog.Nop())

	g.Evaluate(context.Background(), adminIdentity())
	g.Logout()
	if g.State() != Unauthenticated {
		t.Fatalf("expected Unauthenticated after logout, got %s", g.State())
	}

	g.Evaluate(context.Background(), adminIdentity())
	if setupCalls != 2 {
		t.Errorf("setup must run again after logout, ran %d times", setupCalls)
	}
}

func TestGate_SetupFailureStillOpensPanel(t *testing.T) {
	g := NewGate(nil, func(context.Context) error {
		return domain.ErrBusy
	}, zerolog.Nop())

	d := g.Evaluate(context.Background(), adminIdentity())
	if !d.ShowPanel {
		t.Error("a failed setup must not lock the operator out of the panel")
	}
}

func TestIdentityStore_SingleWriterNotifiesSubscribers(t *testing.T) {
	store := NewIdentityStore()
	sub := store.Subscribe()

	identity := adminIdentity()
	store.Set(identity)

	select {
	case got := <-sub:
		if got == nil || got.Email != identity.Email {
			t.Errorf("subscriber received %+v, want %+v", got, identity)
		}
	default:
		t.Fatal("subscriber was not notified")
	}

	if store.Current() != identity {
		t.Error("Current must return the value just written")
	}

	store.Set(nil)
	if store.Current() != nil {
		t.Error("Set(nil) must clear the identity")
	}
	select {
	case got := <-sub:
		if got != nil {
			t.Errorf("logout notification must carry nil, got %+v", got)
		}
	default:
		t.Fatal("subscriber was not notified of logout")
	}
}
