package authz

import (
	"log/slog"
	"net/http"

	"github.com/eduprima/eduprima-api/internal/identity"
	"github.com/eduprima/eduprima-api/internal/platform/httpx"
)

// Middleware wires authorization helpers for HTTP handlers.
type Middleware struct {
	Logger *slog.Logger
}

// RequireAuthenticated gates the request on an authenticated principal
// without consulting the resource rules. Used for endpoints that back shared
// dashboard widgets rather than a single route subtree.
func (m Middleware) RequireAuthenticated() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := identity.ResolutionFromContext(r.Context())
			if res.State != identity.StateAuthenticated || res.Principal == nil {
				httpx.Fail(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireResource gates the request on the verdict for a fixed dashboard
// resource path, independent of the API route the request arrived on.
func (m Middleware) RequireResource(resource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := identity.ResolutionFromContext(r.Context())
			if res.State != identity.StateAuthenticated || res.Principal == nil {
				httpx.Fail(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if !Authorize(res.Principal, resource) {
				if m.Logger != nil {
					m.Logger.Warn("access denied",
						slog.String("actor", res.Principal.ID),
						slog.String("role", string(res.Principal.Role)),
						slog.String("path", resource))
				}
				httpx.Fail(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
