package server

import (
	"net/http"

	"github.com/ChasLui/dokploy/internal/auth"
	"github.com/ChasLui/dokploy/internal/db/models"
	"github.com/ChasLui/dokploy/internal/services/identity"
	"github.com/ChasLui/dokploy/internal/telemetry"
)

// Guard protects server-rendered dashboard pages. Unlike the API
// gateway it only honors session cookies; bearer tokens are for
// programmatic clients and never grant page access. Failed checks
// redirect to the landing page instead of returning 401.
type Guard struct {
	sessions *identity.SessionAuthenticator
	metrics  *telemetry.Metrics
}

// NewGuard creates the page authorization guard.
func NewGuard(sessions *identity.SessionAuthenticator, metrics *telemetry.Metrics) *Guard {
	return &Guard{sessions: sessions, metrics: metrics}
}

// RequireAdminPage admits only admin sessions. No session, an invalid
// session, or a session belonging to a restricted member all get a
// permanent redirect to the landing page; the page handler never runs.
func (g *Guard) RequireAdminPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := g.sessions.Authenticate(r.Context(), identity.NewAuthRequest(r))
		if err != nil || res == nil {
			g.redirect(w, r)
			return
		}
		if res.User.Role == models.RoleUser {
			g.redirect(w, r)
			return
		}

		ctx := identity.WithResolution(r.Context(), res)
		ctx = auth.SetUserContext(ctx, res.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Guard) redirect(w http.ResponseWriter, r *http.Request) {
	if g.metrics != nil {
		g.metrics.GuardRedirects.Inc()
	}
	http.Redirect(w, r, "/", http.StatusMovedPermanently)
}
