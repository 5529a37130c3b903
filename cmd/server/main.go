package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sniplink/internal/config"
	"sniplink/internal/handlers"
	"sniplink/internal/repository"
	"sniplink/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Setup Logger
	var handler slog.Handler
	if cfg.AppEnv == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 3. Initialize Database
	db, err := repository.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// 4. Initialize Redis (the resolver runs cache-less without it)
	var cache repository.LinkCache = repository.NewNoopLinkCache()
	rdb, err := repository.InitRedis(cfg.RedisURL, cfg.RedisPassword, 0)
	if err != nil {
		logger.Warn("Failed to connect to Redis, running without resolution cache", "error", err)
	} else {
		cache = repository.NewRedisLinkCache(rdb)
	}

	// 5. Run Migrations
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		logger.Info("Running database migrations...")
		if err := repository.RunMigrations(cfg.DatabaseURL, ""); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	// 6. Initialize Stores & Services
	linkStore := repository.NewGormLinkStore(db)
	clickStore := repository.NewGormClickStore(db)

	geoIPService := services.NewGeoIPService(cfg, logger)
	clickService := services.NewClickService(linkStore, clickStore, geoIPService, logger)
	resolver := services.NewResolver(cache, linkStore, clickService, logger,
		time.Duration(cfg.CacheTTLMinutes)*time.Minute)
	shortenerService := services.NewShortenerService(linkStore, cache, logger)
	statsService := services.NewStatsService(clickStore)
	qrService := services.NewQRService()
	rateLimiter := services.NewIPRateLimiter(50, 100, logger)

	// 7. Initialize Handler
	h := handlers.NewHandler(cfg, logger, resolver, shortenerService, statsService, qrService)

	// 8. Setup Router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := h.SetupRouter(rateLimiter)

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Background context for workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	go clickService.Start(workerCtx)
	go geoIPService.Init()
	go geoIPService.StartUpdater(workerCtx)
	rateLimiter.StartCleanup(10 * time.Minute)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Let the click worker drain briefly before the process exits.
	workerCancel()
	time.Sleep(100 * time.Millisecond)

	logger.Info("Server exiting")
	return nil
}
