package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	// Database connection string (DSN)
	DatabaseURL string

	// Server bind address (host:port)
	ServerAddr string

	// Base URL the dashboard is served from (used for cookies and redirects)
	ServerURL string

	// Maximum database connection pool size
	MaxDBConnections int

	// Allowed CORS origins for the dashboard webapp
	CORSOrigins []string

	// Session lifetime for browser logins
	SessionDuration time.Duration

	// Enable debug logging
	Debug bool
}

// Load reads configuration from environment variables with fallback defaults
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      getEnv("DATABASE_URL", "file:dokploy.db"),
		ServerAddr:       getEnv("SERVER_ADDR", "localhost:3000"),
		ServerURL:        getEnv("SERVER_URL", "http://localhost:3000"),
		MaxDBConnections: getEnvInt("MAX_DB_CONNECTIONS", 25),
		CORSOrigins:      getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		SessionDuration:  getEnvDuration("SESSION_DURATION", 24*time.Hour),
		Debug:            getEnvBool("DEBUG", false),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("SERVER_URL is required")
	}

	if cfg.SessionDuration < time.Minute {
		return nil, fmt.Errorf("SESSION_DURATION must be at least 1m, got %s", cfg.SessionDuration)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList retrieves a comma-separated environment variable or returns a default value
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
