package identity_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/eduprima/eduprima-api/internal/identity"
	_ "github.com/eduprima/eduprima-api/testing"
)

func newStore(t *testing.T) (*identity.SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return identity.NewSessionStore(client, "secret", time.Hour), mr
}

func TestSessionStoreIssueAndLookup(t *testing.T) {
	store, _ := newStore(t)
	principal := identity.Principal{ID: "u1", Email: "u1@eduprima.id", Role: identity.RoleSuperAdmin}

	token, id, err := store.Issue(context.Background(), principal, identity.SessionReady)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" || id == "" {
		t.Fatalf("expected token and session id")
	}

	status, got, err := store.Lookup(context.Background(), token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if status != identity.SessionReady {
		t.Fatalf("expected ready status, got %q", status)
	}
	if got.ID != principal.ID || got.Role != principal.Role {
		t.Fatalf("unexpected principal %+v", got)
	}
}

func TestSessionStoreInvalidToken(t *testing.T) {
	store, _ := newStore(t)

	if _, _, err := store.Lookup(context.Background(), "not-a-jwt"); !errors.Is(err, identity.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionStoreWrongSecret(t *testing.T) {
	store, mr := newStore(t)
	principal := identity.Principal{ID: "u1", Role: identity.RoleSuperAdmin}
	token, _, err := store.Issue(context.Background(), principal, identity.SessionReady)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := identity.NewSessionStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "other-secret", time.Hour)
	if _, _, err := other.Lookup(context.Background(), token); !errors.Is(err, identity.ErrNoSession) {
		t.Fatalf("expected ErrNoSession for forged token, got %v", err)
	}
}

func TestSessionStoreRevoke(t *testing.T) {
	store, _ := newStore(t)
	principal := identity.Principal{ID: "u1", Role: identity.RoleSuperAdmin}
	token, id, err := store.Issue(context.Background(), principal, identity.SessionReady)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	revoked, err := store.Revoke(context.Background(), token)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked != id {
		t.Fatalf("expected revoked id %q, got %q", id, revoked)
	}
	if _, _, err := store.Lookup(context.Background(), token); !errors.Is(err, identity.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after revoke, got %v", err)
	}
}

func TestSessionStoreMarkReady(t *testing.T) {
	store, _ := newStore(t)
	principal := identity.Principal{ID: "u2", Role: identity.RoleDatabaseTutorManager}
	token, id, err := store.Issue(context.Background(), principal, identity.SessionPending)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	status, _, err := store.Lookup(context.Background(), token)
	if err != nil {
		t.Fatalf("lookup pending: %v", err)
	}
	if status != identity.SessionPending {
		t.Fatalf("expected pending, got %q", status)
	}

	if err := store.MarkReady(context.Background(), id); err != nil {
		t.Fatalf("mark ready: %v", err)
	}
	status, _, err = store.Lookup(context.Background(), token)
	if err != nil {
		t.Fatalf("lookup ready: %v", err)
	}
	if status != identity.SessionReady {
		t.Fatalf("expected ready after mark, got %q", status)
	}
}

func TestManagedSourceStates(t *testing.T) {
	store, mr := newStore(t)
	src := identity.NewManagedSource(store, nil)

	// No token at all.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if res := src.Resolve(req); res.State != identity.StateAnonymous {
		t.Fatalf("expected anonymous without token, got %v", res.State)
	}

	// Pending session yields unknown.
	pendingToken, _, err := store.Issue(context.Background(), identity.Principal{ID: "u3"}, identity.SessionPending)
	if err != nil {
		t.Fatalf("issue pending: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pendingToken)
	if res := src.Resolve(req); res.State != identity.StateUnknown {
		t.Fatalf("expected unknown for pending session, got %v", res.State)
	}

	// Ready session authenticates.
	readyToken, _, err := store.Issue(context.Background(), identity.Principal{ID: "u4", Role: identity.RoleSuperAdmin}, identity.SessionReady)
	if err != nil {
		t.Fatalf("issue ready: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+readyToken)
	res := src.Resolve(req)
	if res.State != identity.StateAuthenticated || res.Principal == nil || res.Principal.ID != "u4" {
		t.Fatalf("expected authenticated u4, got %+v", res)
	}

	// Store outage yields unknown, not a legacy fallback.
	mr.Close()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+readyToken)
	if res := src.Resolve(req); res.State != identity.StateUnknown {
		t.Fatalf("expected unknown on store outage, got %v", res.State)
	}
}
