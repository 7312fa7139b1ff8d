// Command server runs the record store: the /assets API, the viewer page
// that scanned codes open, and the code generation endpoint.
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

	"asset-qr/internal/config"
	httpHandler "asset-qr/internal/handler/http"
	"asset-qr/internal/ratelimit"
	"asset-qr/internal/repository"
	"asset-qr/internal/repository/memory"
	"asset-qr/internal/repository/postgres"
	"asset-qr/internal/repository/redis"
	"asset-qr/internal/repository/sqlite"
	"asset-qr/internal/service"
	"asset-qr/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// ========================================================================
	// STEP 1: CONFIGURATION AND LOGGING
	// ========================================================================
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.App.LogLevel)
	appLogger.Info("Starting asset QR record store",
		"environment", cfg.App.Environment,
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"viewer_url", cfg.App.ViewerURL(),
	)

	// ========================================================================
	// STEP 2: STORAGE
	// ========================================================================
	ctx := context.Background()
	assetRepo, scanRepo, closeDB, err := openRepositories(ctx, cfg)
	if err != nil {
		appLogger.Error("Failed to open database", "driver", cfg.Database.Driver, "error", err)
		log.Fatalf("Database connection failed: %v", err)
	}
	defer closeDB()
	appLogger.Info("Database connection established", "driver", cfg.Database.Driver)

	// Redis is optional: it backs the record cache and the rate limiter.
	var (
		cache   service.Cache
		limiter httpHandler.RateLimiter
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.InitRedis(cfg.Redis.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Error("Failed to connect to Redis", "error", err)
			log.Fatalf("Redis connection failed: %v", err)
		}
		defer redisClient.Close()

		cache = redis.NewCache(redisClient, cfg.Redis.CacheTTL)
		if cfg.App.RateLimitEnabled {
			limiter = ratelimit.NewLimiter(redisClient, "write", cfg.App.RateLimitPerMinute, time.Minute)
		}
		appLogger.Info("Redis connection established", "rate_limit", limiter != nil)
	} else if cfg.App.RateLimitEnabled {
		appLogger.Warn("Rate limiting needs Redis; REDIS_ENABLED is false, requests are not limited")
	}

	// ========================================================================
	// STEP 3: DEPENDENCY GRAPH
	// ========================================================================
	// Repositories → AssetService (the record store) → Resolver/Generator → Handler
	assetService := service.NewAssetService(assetRepo, scanRepo, cache, appLogger.Logger)
	resolver := service.NewResolver(assetService, appLogger.Logger)
	generator := service.NewGenerator(assetService, cfg.App.ViewerURL(), cfg.App.FallbackInline, appLogger.Logger)
	handler := httpHandler.NewHandler(assetService, resolver, generator, appLogger.Logger, cfg.App.QRSize)

	// ========================================================================
	// STEP 4: ROUTES
	// ========================================================================
	writeLimit := func(h http.HandlerFunc) http.Handler {
		if limiter == nil {
			return h
		}
		return httpHandler.RateLimitMiddleware(limiter)(h)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /assets", writeLimit(handler.CreateAsset))
	mux.HandleFunc("GET /assets/{id}", handler.GetAsset)
	mux.HandleFunc("GET /assets/{id}/stats", handler.AssetStats)
	mux.Handle("POST /api/v1/codes", writeLimit(handler.GenerateCode))
	mux.HandleFunc("GET "+cfg.App.ViewerPath, handler.View)
	mux.HandleFunc("GET /health/live", handler.HealthCheck)
	if cfg.App.EnableMetrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	// Request → Recovery → Logging → RequestID → Metrics → CORS → Handler
	finalHandler := httpHandler.Chain(
		httpHandler.RecoveryMiddleware(appLogger.Logger),
		httpHandler.LoggingMiddleware(appLogger.Logger),
		httpHandler.RequestIDMiddleware,
		httpHandler.MetricsMiddleware,
		httpHandler.CORSMiddleware,
	)(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// ========================================================================
	// STEP 5: SERVE AND SHUT DOWN GRACEFULLY
	// ========================================================================
	go func() {
		appLogger.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", "error", err)
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
		return
	}

	appLogger.Info("Server exited gracefully")
}

// openRepositories connects the configured database and returns its
// repositories together with a close function.
func openRepositories(ctx context.Context, cfg *config.Config) (repository.AssetRepository, repository.ScanRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		return store.Assets(), store.Scans(), func() {}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		closeDB := func() { _ = db.Close() }
		return sqlite.NewAssetRepository(db), sqlite.NewScanRepository(db), closeDB, nil

	case config.DriverPostgres:
		pool, err := postgres.InitDB(
			ctx,
			cfg.Database.DatabaseDSN(),
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLifetime,
		)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return postgres.NewAssetRepository(pool), postgres.NewScanRepository(pool), pool.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
