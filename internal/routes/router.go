package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"despachos/rndc-gateway/internal/api"
	"despachos/rndc-gateway/internal/auth"
	"despachos/rndc-gateway/internal/config"
	"despachos/rndc-gateway/internal/logging"
	"despachos/rndc-gateway/internal/middleware"
)

// RegisterRoutes builds the HTTP handler. tokens may be nil to run without
// authentication; gatherer backs /metrics.
func RegisterRoutes(deps *api.Dependencies, cfg config.Config, tokens *auth.TokenService, gatherer prometheus.Gatherer, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(middleware.Logging)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Batch-ID", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthCheck", api.HealthCheckHandler(deps.DB, deps.Services.Cache, upSince))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	RegisterAPIRoutes(r, deps, tokens, cfg.Rate)

	if tokens == nil {
		logging.Warn("JWT secret not configured, /api/v1 runs without authentication")
	}
	logging.Info("Router initialized with metrics and logging middleware")
	return r
}
