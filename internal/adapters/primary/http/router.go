package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	mw "github.com/lorrc/scan-relay/internal/adapters/primary/http/middleware"
	wsAdapter "github.com/lorrc/scan-relay/internal/adapters/primary/websocket"
	"github.com/lorrc/scan-relay/internal/auth"
	"github.com/lorrc/scan-relay/internal/core/ports"
)

// RouterConfig carries everything the HTTP surface is built from
type RouterConfig struct {
	Logger        *slog.Logger
	ScanService   ports.ScanService
	LookupService ports.LookupService
	Registry      *wsAdapter.Registry

	APIKey       *auth.APIKeyVerifier
	TokenManager *auth.TokenManager // nil disables viewer tokens
	RateLimiter  *mw.RateLimiter    // nil disables rate limiting

	WebSocket   WebSocketConfig
	CORSOrigins []string

	DB      HealthChecker
	Cache   HealthChecker
	Metrics http.Handler

	DashboardFile string
	Version       string
}

// NewRouter wires handlers and middleware into a chi router
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger

	errorHandler := NewErrorHandler(logger)
	scanHandler := NewScanHandler(cfg.ScanService, errorHandler, logger)
	lookupHandler := NewLookupHandler(cfg.LookupService, errorHandler, logger)
	wsHandler := NewWebSocketHandler(cfg.Registry, cfg.WebSocket, logger)
	healthHandler := NewHealthHandler(cfg.DB, cfg.Cache, cfg.Registry, cfg.Version)

	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", mw.APIKeyHeader, mw.RequestIDHeader},
		ExposedHeaders: []string{mw.RequestIDHeader},
		MaxAge:         300,
	}))

	// Probes and metrics stay outside rate limiting
	healthHandler.RegisterRoutes(r)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Get("/", NewDashboardHandler(cfg.DashboardFile).ServeHTTP)

	// Live session channel
	r.With(mw.ViewerToken(cfg.TokenManager)).Get("/ws", wsHandler.ServeHTTP)

	// Scanner-facing routes
	r.Group(func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Middleware)
		}
		r.Use(mw.APIKey(cfg.APIKey))

		// Paths used by deployed scanner firmware
		r.Post("/api/mobile-scan", scanHandler.HandleIngest)
		r.Post("/api/scan", lookupHandler.HandleLookup)

		r.Route("/api/v1", func(r chi.Router) {
			r.Route("/scans", scanHandler.RegisterRoutes)
			r.Route("/lookups", lookupHandler.RegisterRoutes)

			if cfg.TokenManager != nil {
				tokenHandler := NewTokenHandler(cfg.TokenManager, errorHandler, logger)
				r.Route("/viewer-tokens", tokenHandler.RegisterRoutes)
			}
		})
	})

	return r
}
