// Package router assembles the HTTP surface: the Z-API webhook, the direct
// chat and catalog endpoints, health and metrics.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/olharstudio/booking-assistant/internal/webhook"
	"github.com/olharstudio/booking-assistant/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger         *logging.Logger
	Assistant      *webhook.Handler
	MetricsHandler http.Handler
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/webhook", cfg.Assistant.HandleWebhook)
	r.Post("/chat", cfg.Assistant.HandleChat)
	r.Get("/services", cfg.Assistant.HandleServices)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
