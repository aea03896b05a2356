package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sistema/engine/internal/api"
	"github.com/sistema/engine/internal/bootstrap"
	"github.com/sistema/engine/internal/services"
	"github.com/sistema/engine/pkg/config"
	"github.com/sistema/engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting schedule engine",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("store", cfg.StoreBackend),
		zap.String("lock", cfg.LockBackend),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Warn("store close error", zap.Error(err))
		}
	}()

	rdb := bootstrap.Redis(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	locker, err := bootstrap.Locker(cfg, rdb)
	if err != nil {
		log.Fatal("Failed to build project lock", zap.Error(err))
	}
	notifier, closeNotifier := bootstrap.Notifier(cfg)
	defer closeNotifier()

	// JWT Secret from environment
	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		if cfg.AppEnv == "production" {
			log.Fatal("JWT_SECRET must be set in production")
		}
		log.Warn("JWT_SECRET not set, using default (INSECURE for production)")
		jwtSecret = []byte("change-me-in-production-please")
	}

	// Create router with dependencies
	router := api.NewRouter(ctx, api.Dependencies{
		HMACSecret: jwtSecret,
		Projects:   services.NewProjectService(stores.Projects),
		Schedule:   services.NewScheduleService(stores.Tasks, locker, notifier),
		Readiness:  bootstrap.Readiness(stores, rdb),
		RateRPS:    cfg.RateLimitRPS,
		RateBurst:  cfg.RateLimitBurst,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
