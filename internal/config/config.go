package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/netvista/netvista-api/internal/constants"
)

// Config holds the server's environment-derived configuration. Values come
// from the environment; .env loading happens in main before Load runs.
type Config struct {
	Stage string
	Port  string

	// BillingAPIBaseURL is the upstream billing REST API the HTTP provider
	// talks to. Required unless DatabaseURL is set.
	BillingAPIBaseURL string

	// DatabaseURL switches the data provider to postgres when set
	DatabaseURL string

	// RedisURL enables the caching provider decorator when set
	RedisURL string

	// RabbitMQURL enables commission event publishing when set
	RabbitMQURL string

	JWTSecret string

	CORSAllowedOrigins []string

	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment and validates required
// values
func Load() (*Config, error) {
	cfg := &Config{
		Stage:           getEnv("STAGE", constants.TestEnvironment),
		Port:            getEnv("API_PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		ShutdownTimeout: 5 * time.Second,
	}

	cfg.BillingAPIBaseURL = getEnv("BILLING_API_BASE_URL", "")
	if cfg.BillingAPIBaseURL == "" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("either BILLING_API_BASE_URL or DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	origins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if origins == "" {
		cfg.CORSAllowedOrigins = []string{"http://localhost:3000"}
	} else {
		for _, origin := range strings.Split(origins, ",") {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, strings.TrimSpace(origin))
		}
	}

	return cfg, nil
}

// UsePostgres reports whether the postgres data provider should be used
// instead of the HTTP client
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
