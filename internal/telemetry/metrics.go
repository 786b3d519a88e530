package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the authentication
// gateway. A single instance is created at startup and shared by the
// identity service and the HTTP layer.
type Metrics struct {
	// AuthAttempts counts credential resolution attempts by source
	// (bearer, session) and outcome (resolved, missing, not_found,
	// expired, revoked, malformed, unavailable).
	AuthAttempts *prometheus.CounterVec

	// AuthRejections counts requests rejected with 401 at the gateway.
	AuthRejections prometheus.Counter

	// GuardRedirects counts page requests redirected by the
	// authorization guard.
	GuardRedirects prometheus.Counter

	// ProcedureCalls counts procedure invocations by name and status.
	ProcedureCalls *prometheus.CounterVec
}

// NewMetrics creates and registers the gateway collectors on the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AuthAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dokploy",
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Credential resolution attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		AuthRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dokploy",
			Subsystem: "auth",
			Name:      "rejections_total",
			Help:      "Requests rejected with 401 before reaching the procedure router.",
		}),
		GuardRedirects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dokploy",
			Subsystem: "auth",
			Name:      "guard_redirects_total",
			Help:      "Page requests redirected to the landing page by the authorization guard.",
		}),
		ProcedureCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dokploy",
			Subsystem: "procedure",
			Name:      "calls_total",
			Help:      "Procedure invocations by name and status.",
		}, []string{"procedure", "status"}),
	}
}
