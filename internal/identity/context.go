package identity

import "context"

type resolutionContextKey struct{}

// ContextWithResolution stores the resolution in context.
func ContextWithResolution(ctx context.Context, res Resolution) context.Context {
	return context.WithValue(ctx, resolutionContextKey{}, res)
}

// ResolutionFromContext extracts the resolution from context.
func ResolutionFromContext(ctx context.Context) Resolution {
	res, ok := ctx.Value(resolutionContextKey{}).(Resolution)
	if !ok {
		return Resolution{State: StateAnonymous}
	}
	return res
}

// PrincipalFromContext returns the authenticated principal or nil.
func PrincipalFromContext(ctx context.Context) *Principal {
	res := ResolutionFromContext(ctx)
	if res.State != StateAuthenticated {
		return nil
	}
	return res.Principal
}
