package identity

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

const (
	// SessionCookie carries the managed bearer token for browser clients.
	SessionCookie = "eduprima_session"
	// LegacyHeader carries the serialized user record persisted by the old dashboard.
	LegacyHeader = "X-Eduprima-User"
	// LegacyCookie is the cookie fallback for the legacy record.
	LegacyCookie = "eduprima_user"
)

// Source yields a resolution from one kind of session evidence.
type Source interface {
	Resolve(r *http.Request) Resolution
}

// Resolver composes session sources by precedence. The managed source is
// consulted first; the legacy record is only considered once the managed
// session has settled as unauthenticated.
type Resolver struct {
	logger  *slog.Logger
	sources []Source
}

// NewResolver builds a resolver over the given sources in precedence order.
func NewResolver(logger *slog.Logger, sources ...Source) *Resolver {
	return &Resolver{logger: logger, sources: sources}
}

// Resolve walks the sources. An Unknown outcome is returned immediately so
// that a settling managed session is never shadowed by stale legacy data.
// Resolution never fails the caller.
func (r *Resolver) Resolve(req *http.Request) Resolution {
	for _, src := range r.sources {
		res := src.Resolve(req)
		if res.State == StateUnknown || res.State == StateAuthenticated {
			return res
		}
	}
	return Resolution{State: StateAnonymous}
}

// ManagedSource resolves principals from the managed bearer token.
type ManagedSource struct {
	store  *SessionStore
	logger *slog.Logger
}

// NewManagedSource constructs a ManagedSource.
func NewManagedSource(store *SessionStore, logger *slog.Logger) *ManagedSource {
	return &ManagedSource{store: store, logger: logger}
}

// Resolve looks up the bearer token in the session store. A pending session
// yields Unknown; a store failure also yields Unknown rather than letting the
// caller fall back to weaker evidence.
func (m *ManagedSource) Resolve(r *http.Request) Resolution {
	token := BearerToken(r)
	if token == "" {
		return Resolution{State: StateAnonymous}
	}
	status, principal, err := m.store.Lookup(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return Resolution{State: StateAnonymous}
		}
		if m.logger != nil {
			m.logger.Warn("managed session lookup failed", slog.Any("error", err))
		}
		return Resolution{State: StateUnknown}
	}
	if status == SessionPending {
		return Resolution{State: StateUnknown}
	}
	return Resolution{State: StateAuthenticated, Principal: principal}
}

// LegacySource parses the locally persisted principal record carried by
// clients that predate the managed session provider.
type LegacySource struct {
	logger *slog.Logger
}

// NewLegacySource constructs a LegacySource.
func NewLegacySource(logger *slog.Logger) *LegacySource {
	return &LegacySource{logger: logger}
}

// Resolve decodes the base64 JSON principal blob. Malformed data is logged
// and treated as absent, never surfaced as an error.
func (l *LegacySource) Resolve(r *http.Request) Resolution {
	raw := strings.TrimSpace(r.Header.Get(LegacyHeader))
	if raw == "" {
		if cookie, err := r.Cookie(LegacyCookie); err == nil {
			raw = strings.TrimSpace(cookie.Value)
		}
	}
	if raw == "" {
		return Resolution{State: StateAnonymous}
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		l.warn("legacy record not base64", err)
		return Resolution{State: StateAnonymous}
	}
	var principal Principal
	if err := json.Unmarshal(decoded, &principal); err != nil {
		l.warn("legacy record not valid json", err)
		return Resolution{State: StateAnonymous}
	}
	if principal.ID == "" {
		l.warn("legacy record missing id", nil)
		return Resolution{State: StateAnonymous}
	}
	return Resolution{State: StateAuthenticated, Principal: &principal}
}

func (l *LegacySource) warn(msg string, err error) {
	if l.logger == nil {
		return
	}
	if err != nil {
		l.logger.Warn(msg, slog.Any("error", err))
		return
	}
	l.logger.Warn(msg)
}

// BearerToken extracts the managed session token from the Authorization
// header or the session cookie.
func BearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth != "" {
		fields := strings.Fields(auth)
		if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
			return strings.Trim(fields[1], "\"'")
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
