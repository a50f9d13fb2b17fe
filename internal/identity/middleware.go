package identity

import "net/http"

// Middleware resolves the request principal and stores the outcome in the
// request context. Handlers read it back via ResolutionFromContext; there is
// no process-wide auth state.
func Middleware(resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := resolver.Resolve(r)
			ctx := ContextWithResolution(r.Context(), res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
