package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/olharstudio/booking-assistant/internal/agenda"
	"github.com/olharstudio/booking-assistant/internal/api/router"
	appconfig "github.com/olharstudio/booking-assistant/internal/config"
	"github.com/olharstudio/booking-assistant/internal/engine"
	"github.com/olharstudio/booking-assistant/internal/messagelog"
	"github.com/olharstudio/booking-assistant/internal/observability/metrics"
	"github.com/olharstudio/booking-assistant/internal/session"
	"github.com/olharstudio/booking-assistant/internal/webhook"
	"github.com/olharstudio/booking-assistant/internal/zapi"
	"github.com/olharstudio/booking-assistant/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Catalog
	catalog := engine.DefaultCatalog()
	if cfg.PriceListPath != "" {
		loaded, err := engine.LoadCatalog(cfg.PriceListPath)
		if err != nil {
			logger.Error("failed to load price list", "error", err, "path", cfg.PriceListPath)
			os.Exit(1)
		}
		catalog = loaded
	}

	// Postgres: agenda ledger + message log
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Redis: session store + open-dates cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	ledger := agenda.New(pool, catalog.Duration, logger)
	if err := ledger.EnsureSchema(ctx); err != nil {
		logger.Error("failed to prepare agenda schema", "error", err)
		os.Exit(1)
	}

	msgLog := messagelog.New(pool, logger)
	if err := msgLog.EnsureSchema(ctx); err != nil {
		logger.Error("failed to prepare message log schema", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	assistantMetrics := metrics.NewAssistantMetrics(registry)

	var gateway engine.Gateway = agenda.NewCached(ledger, redisClient, cfg.OpenDatesCacheTTL, logger)
	gateway = metrics.InstrumentGateway(gateway, assistantMetrics)

	eng := engine.New(catalog, gateway, logger,
		engine.WithIdleTimeout(cfg.SessionIdleTimeout))

	sessions := session.New(redisClient, nil, session.WithTTL(cfg.SessionTTL))

	sender, err := zapi.New(zapi.Config{
		BaseURL:     cfg.ZAPIBaseURL,
		InstanceID:  cfg.ZAPIInstanceID,
		Token:       cfg.ZAPIToken,
		ClientToken: cfg.ZAPIClientToken,
		Timeout:     cfg.ZAPISendTimeout,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to configure Z-API client", "error", err)
		os.Exit(1)
	}

	assistant := webhook.New(webhook.Config{
		Engine:   eng,
		Sessions: sessions,
		Sender:   sender,
		Mutes:    ledger,
		Log:      msgLog,
		Metrics:  assistantMetrics,
		Logger:   logger,
	})

	r := router.New(&router.Config{
		Logger:         logger,
		Assistant:      assistant,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
