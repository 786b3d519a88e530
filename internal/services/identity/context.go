package identity

import "context"

type resolutionContextKey struct{}

// WithResolution returns a context carrying the request's credential
// resolution. Set by the gateway only after validation fully succeeds.
func WithResolution(ctx context.Context, res *Resolution) context.Context {
	return context.WithValue(ctx, resolutionContextKey{}, res)
}

// ResolutionFromContext extracts the credential resolution, or nil for
// an unauthenticated request.
func ResolutionFromContext(ctx context.Context) *Resolution {
	res, ok := ctx.Value(resolutionContextKey{}).(*Resolution)
	if !ok {
		return nil
	}
	return res
}
