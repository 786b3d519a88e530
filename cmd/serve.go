package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/ChasLui/dokploy/internal/auth"
	"github.com/ChasLui/dokploy/internal/db/bunx"
	"github.com/ChasLui/dokploy/internal/procedure"
	"github.com/ChasLui/dokploy/internal/repository"
	"github.com/ChasLui/dokploy/internal/server"
	"github.com/ChasLui/dokploy/internal/services/cluster"
	"github.com/ChasLui/dokploy/internal/services/databases"
	"github.com/ChasLui/dokploy/internal/services/identity"
	"github.com/ChasLui/dokploy/internal/services/registries"
	"github.com/ChasLui/dokploy/internal/telemetry"
)

const (
	loginAttemptLimit  = 5
	loginAttemptWindow = 15 * time.Minute

	sessionSweepInterval = time.Hour
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Dokploy server",
	Long:  `Starts the HTTP server with the dashboard pages and the authenticated procedure API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Connect to database
		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		log.Printf("Connected to database")

		// Initialize repositories
		userRepo := repository.NewBunUserRepository(db)
		sessionRepo := repository.NewBunSessionRepository(db)
		tokenRepo := repository.NewBunAPITokenRepository(db)
		registryRepo := repository.NewBunRegistryRepository(db)
		nodeRepo := repository.NewBunNodeRepository(db)
		databaseRepo := repository.NewBunDatabaseRepository(db)

		// Telemetry
		metricsRegistry := prometheus.NewRegistry()
		metricsRegistry.MustRegister(collectors.NewGoCollector())
		metrics := telemetry.NewMetrics(metricsRegistry)

		// Identity chain: bearer tokens first, then session cookies
		sessionAuth := identity.NewSessionAuthenticator(userRepo, sessionRepo)
		identityService := identity.NewService(
			identity.NewTokenAuthenticator(userRepo, tokenRepo),
			sessionAuth,
			metrics,
		)

		serverHost := hostOf(cfg.ServerURL)
		secureCookies := isHTTPS(cfg.ServerURL)

		// Domain services and their procedures
		registryService := registries.NewService(registryRepo)
		clusterService := cluster.NewService(nodeRepo)
		databaseService := databases.NewService(databaseRepo, serverHost)

		procRegistry := procedure.NewRegistry()
		registryService.RegisterProcedures(procRegistry)
		clusterService.RegisterProcedures(procRegistry)
		databaseService.RegisterProcedures(procRegistry)
		log.Printf("Registered %d procedures", len(procRegistry.Names()))

		validator, err := procedure.NewInputValidator(128)
		if err != nil {
			return fmt.Errorf("failed to create input validator: %w", err)
		}

		corsOptions := server.DefaultCORSOptions(cfg.CORSOrigins)
		r := server.NewRouter(server.RouterOptions{
			Gateway: server.NewGateway(identityService, metrics),
			Guard:   server.NewGuard(sessionAuth, metrics),
			AuthHandlers: server.NewAuthHandlers(
				userRepo,
				sessionRepo,
				auth.NewLoginThrottle(loginAttemptLimit, loginAttemptWindow),
				cfg.SessionDuration,
				secureCookies,
			),
			Pages:            server.NewPages(clusterService),
			ProcedureHandler: procedure.NewHandler(procRegistry, validator, metrics),
			MetricsRegistry:  metricsRegistry,
			CORSOptions:      &corsOptions,
		})

		// h2c keeps HTTP/2 available to programmatic clients behind a
		// TLS-terminating proxy.
		h2cHandler := h2c.NewHandler(r, &http2.Server{})

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      h2cHandler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Expired session sweeper
		sweepCtx, cancelSweep := context.WithCancel(cmd.Context())
		defer cancelSweep()
		go func() {
			ticker := time.NewTicker(sessionSweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := sessionRepo.DeleteExpired(sweepCtx); err != nil {
						log.Printf("session sweep failed: %v", err)
					}
				case <-sweepCtx.Done():
					return
				}
			}
		}()

		// Start server in goroutine
		serverErrors := make(chan error, 1)
		go func() {
			log.Printf("Starting server on %s", cfg.ServerAddr)
			log.Printf("Server URL: %s", cfg.ServerURL)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			log.Printf("Received signal %v, shutting down gracefully", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			log.Printf("Server stopped")
			return nil
		}
	},
}

func hostOf(serverURL string) string {
	u, err := url.Parse(serverURL)
	if err != nil || u.Hostname() == "" {
		return "localhost"
	}
	return u.Hostname()
}

func isHTTPS(serverURL string) bool {
	u, err := url.Parse(serverURL)
	return err == nil && u.Scheme == "https"
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
