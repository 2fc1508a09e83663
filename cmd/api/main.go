package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/netvista/netvista-api/internal/cache"
	"github.com/netvista/netvista-api/internal/client/billing"
	"github.com/netvista/netvista-api/internal/config"
	"github.com/netvista/netvista-api/internal/events"
	"github.com/netvista/netvista-api/internal/interfaces"
	"github.com/netvista/netvista-api/internal/logger"
	"github.com/netvista/netvista-api/internal/server"
	"github.com/netvista/netvista-api/internal/store/postgres"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables from .env file for local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	stage := os.Getenv("STAGE")
	if stage == "" {
		stage = "local"
	}
	logger.InitLogger(stage)
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	provider, cleanup, err := buildProvider(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize data provider", zap.Error(err))
	}
	defer cleanup()

	publisher, closePublisher, err := buildPublisher(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize event publisher", zap.Error(err))
	}
	defer closePublisher()

	router := server.New(cfg, provider, publisher)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("stage", stage))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

// buildProvider selects the postgres or HTTP data provider and, when Redis
// is configured, wraps it with the read-through cache
func buildProvider(ctx context.Context, cfg *config.Config) (interfaces.BillingDataProvider, func(), error) {
	var (
		provider interfaces.BillingDataProvider
		cleanup  = func() {}
	)

	if cfg.UsePostgres() {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		provider = postgres.NewProvider(pool)
		cleanup = pool.Close
		logger.Info("Using postgres data provider")
	} else {
		// Timeout and retry count match the engine's default config
		configs := defaultProviderSettings()
		provider = billing.NewClient(cfg.BillingAPIBaseURL, configs.timeout, configs.maxRetries)
		logger.Info("Using billing API data provider", zap.String("base_url", cfg.BillingAPIBaseURL))
	}

	if cfg.RedisURL != "" {
		client, err := cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		provider = cache.NewProvider(provider, client, defaultProviderSettings().cacheTTL)
		prev := cleanup
		cleanup = func() {
			client.Close()
			prev()
		}
		logger.Info("Billing data cache enabled")
	}

	return provider, cleanup, nil
}

type providerSettings struct {
	timeout    time.Duration
	maxRetries int
	cacheTTL   time.Duration
}

// defaultProviderSettings mirrors the engine's default portal config so the
// transport and cache settings line up with what the engines expect
func defaultProviderSettings() providerSettings {
	return providerSettings{
		timeout:    30 * time.Second,
		maxRetries: 3,
		cacheTTL:   5 * time.Minute,
	}
}

func buildPublisher(cfg *config.Config) (interfaces.CommissionEventPublisher, func(), error) {
	if cfg.RabbitMQURL == "" {
		logger.Warn("RABBITMQ_URL not set, commission events will not be published")
		return events.NoopPublisher{}, func() {}, nil
	}

	publisher, err := events.NewPublisher(cfg.RabbitMQURL)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", zap.Error(err))
		}
	}, nil
}
