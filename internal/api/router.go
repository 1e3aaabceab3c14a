package api

import (
	"context"
	"log/slog"
	"net/http"

	"customer-api/internal/api/handler"
	mw "customer-api/internal/api/middleware"
	"customer-api/internal/config"
	"customer-api/internal/domain/customer"

	_ "customer-api/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const apiBasePath = "/api/v1"

// SetupRouter wires middleware and routes. ctx bounds background work owned
// by the router, such as the rate limiter sweeper.
func SetupRouter(ctx context.Context, customerService customer.CustomerService, db handler.Pinger, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupHealthEndpoint(router, db, logger)
	router.Route(apiBasePath, func(r chi.Router) {
		setupCustomerRoutes(r, customerService, logger)
	})
	if cfg.Swagger.Enabled {
		setupSwaggerEndpoint(router, logger)
	}

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         cfg.Server.CORS.MaxAge,
	}))
	router.Use(middleware.Compress(5))
	if cfg.Server.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}
	router.Use(mw.NewRateLimiterMiddleware(ctx, cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupHealthEndpoint(router *chi.Mux, db handler.Pinger, logger *slog.Logger) {
	h := handler.NewHealthHandler(db, logger)
	router.Get("/health", h.Health)
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupCustomerRoutes(r chi.Router, svc customer.CustomerService, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.ListCustomers)
		r.Post("/", h.CreateCustomer)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Put("/", h.UpdateCustomer)
			r.Delete("/", h.DeleteCustomer)
		})
	})
}
