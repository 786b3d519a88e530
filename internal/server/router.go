package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ChasLui/dokploy/internal/procedure"
)

// RouterOptions controls the construction of the HTTP router.
// The zero value is valid; sensible defaults are applied where fields are not set.
type RouterOptions struct {
	Gateway          *Gateway
	Guard            *Guard
	AuthHandlers     *AuthHandlers
	Pages            *Pages
	ProcedureHandler *procedure.Handler
	MetricsRegistry  *prometheus.Registry
	CORSOptions      *cors.Options
	Middleware       []func(http.Handler) http.Handler
	HealthHandler    http.HandlerFunc
	ExtraRoutes      func(chi.Router)
}

// DefaultCORSOptions returns the shared CORS policy for the dashboard
// and programmatic clients.
func DefaultCORSOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// NewRouter assembles a chi.Router with shared middleware, the public
// surfaces, and the authenticated API behind the gateway. The router
// can be tailored via RouterOptions for CLI usage or tests.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsCfg := DefaultCORSOptions(nil)
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	// Apply custom middleware passed from the caller.
	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	healthHandler := opts.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	r.Get("/health", healthHandler)

	if opts.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	// Public pages and the guarded dashboard.
	if opts.Pages != nil {
		r.Get("/", opts.Pages.HandleIndex)
		if opts.Guard != nil {
			r.Group(func(pages chi.Router) {
				pages.Use(opts.Guard.RequireAdminPage)
				pages.Get("/dashboard/settings/cluster", opts.Pages.HandleClusterSettings)
			})
		}
	}

	r.Route("/api", func(api chi.Router) {
		// Login is the one credential-issuing endpoint and sits in
		// front of the gateway.
		if opts.AuthHandlers != nil {
			api.Post("/auth/login", opts.AuthHandlers.HandleLogin)
		}

		if opts.Gateway == nil {
			return
		}
		api.Group(func(private chi.Router) {
			private.Use(opts.Gateway.Middleware)
			if opts.AuthHandlers != nil {
				private.Post("/auth/logout", opts.AuthHandlers.HandleLogout)
				private.Get("/auth/whoami", opts.AuthHandlers.HandleWhoAmI)
			}
			if opts.ProcedureHandler != nil {
				private.HandleFunc("/{procedure}", opts.ProcedureHandler.Dispatch)
			}
		})
	})

	if opts.ExtraRoutes != nil {
		opts.ExtraRoutes(r)
	}

	return r
}
