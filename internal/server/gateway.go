package server

import (
	"net/http"

	"github.com/ChasLui/dokploy/internal/auth"
	"github.com/ChasLui/dokploy/internal/services/identity"
	"github.com/ChasLui/dokploy/internal/telemetry"
)

// Gateway is the authentication boundary in front of the API surface.
// Every request either reaches the inner handler with a fully resolved
// user on its context, or is answered 401 here and the inner handler is
// never invoked. There is no third path.
type Gateway struct {
	identity *identity.Service
	metrics  *telemetry.Metrics
}

// NewGateway creates the authentication gateway.
func NewGateway(identityService *identity.Service, metrics *telemetry.Metrics) *Gateway {
	return &Gateway{identity: identityService, metrics: metrics}
}

// Middleware resolves credentials and fails closed. Bearer tokens are
// checked before session cookies; a request carrying neither, or
// carrying only credentials that do not resolve, gets the same 401.
func (g *Gateway) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := g.identity.AuthenticateRequest(r.Context(), identity.NewAuthRequest(r))
		if res == nil {
			if g.metrics != nil {
				g.metrics.AuthRejections.Inc()
			}
			writeUnauthorized(w)
			return
		}

		ctx := identity.WithResolution(r.Context(), res)
		ctx = auth.SetUserContext(ctx, res.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
