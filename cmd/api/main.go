package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/lorrc/scan-relay/internal/adapters/primary/http"
	mw "github.com/lorrc/scan-relay/internal/adapters/primary/http/middleware"
	"github.com/lorrc/scan-relay/internal/adapters/primary/websocket"
	"github.com/lorrc/scan-relay/internal/adapters/secondary/postgres"
	redisAdapter "github.com/lorrc/scan-relay/internal/adapters/secondary/redis"
	"github.com/lorrc/scan-relay/internal/auth"
	"github.com/lorrc/scan-relay/internal/config"
	"github.com/lorrc/scan-relay/internal/core/services"
	"github.com/lorrc/scan-relay/internal/infrastructure/logging"
	"github.com/lorrc/scan-relay/internal/infrastructure/metrics"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	ctx := context.Background()

	// 3. Apply migrations when asked to
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			logger.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("database migrations applied", "path", cfg.Database.MigrationsPath)
	}

	// 4. Initialize Database Pool
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// The relay still serves scans without enrichment while the store is down
	if err := pool.Ping(ctx); err != nil {
		logger.Warn("database ping failed, lookups will be skipped until it recovers", "error", err)
	} else {
		logger.Info("database connection established")
	}

	// 5. Optional cache
	redisClient, err := redisAdapter.New(cfg.Redis)
	if err != nil {
		logger.Error("invalid redis configuration", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		// Lookups bypass a cache that is down, and the client reconnects on its own
		if err := redisClient.Health(ctx); err != nil {
			logger.Warn("redis ping failed, cache reads will miss until it recovers", "error", err)
		}
		logger.Info("redis cache enabled", "ttl", cfg.Redis.CacheTTL)
	}

	// 6. Dependency Injection (Wiring the Hexagon)
	m := metrics.New()

	registry := websocket.NewRegistry(m, logger)
	broadcaster := websocket.NewBroadcaster(registry, m, logger)

	lookupOpts := []services.LookupOption{
		services.WithLookupTimeout(cfg.Lookup.Timeout),
		services.WithLookupMetrics(m),
	}
	var cacheCheck httpAdapter.HealthChecker
	if redisClient != nil {
		lookupOpts = append(lookupOpts, services.WithCache(redisAdapter.NewEmployeeCache(redisClient.Client), cfg.Redis.CacheTTL))
		cacheCheck = httpAdapter.HealthCheckFunc(redisClient.Health)
	}

	employeeRepo := postgres.NewEmployeeRepository(pool)
	lookupService := services.NewLookupService(employeeRepo, logger, lookupOpts...)
	scanService := services.NewScanService(lookupService, broadcaster, m, logger)

	// 7. Security
	apiKey := auth.NewAPIKeyVerifier(cfg.Auth.APIKey, cfg.Auth.APIKeyHash)
	if !apiKey.Enabled() {
		logger.Warn("no API key configured, scan endpoints are open")
	}

	var tokenManager *auth.TokenManager
	if cfg.JWT.Secret != "" {
		tokenManager = auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ViewerTokenTTL)
	}

	var rateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})
		defer rateLimiter.Stop()
	}

	// 8. Setup Router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Logger:        logger,
		ScanService:   scanService,
		LookupService: lookupService,
		Registry:      registry,
		APIKey:        apiKey,
		TokenManager:  tokenManager,
		RateLimiter:   rateLimiter,
		WebSocket: httpAdapter.WebSocketConfig{
			AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			IsDevelopment:   cfg.IsDevelopment(),
			Client: websocket.ClientConfig{
				WriteWait:  cfg.WebSocket.WriteWait,
				PongWait:   cfg.WebSocket.PongWait,
				PingPeriod: cfg.WebSocket.PingInterval,
				SendBuffer: cfg.WebSocket.SendBuffer,
			},
		},
		CORSOrigins:   cfg.CORS.AllowedOrigins,
		DB:            pool,
		Cache:         cacheCheck,
		Metrics:       m.Handler(),
		DashboardFile: cfg.Server.DashboardFile,
		Version:       cfg.App.Version,
	})

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Drain broadcasts started by requests that completed before shutdown
	scanService.Shutdown()

	// Hijacked websocket connections are not tracked by Shutdown
	registry.CloseAll()

	logger.Info("server shutdown complete")
}
