package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/sistema/engine/internal/bootstrap"
	"github.com/sistema/engine/internal/queue"
	"github.com/sistema/engine/internal/queue/tasks"
	"github.com/sistema/engine/internal/services"
	"github.com/sistema/engine/pkg/config"
	"github.com/sistema/engine/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	rdb := bootstrap.Redis(cfg)
	if rdb == nil {
		log.Fatal("worker needs REDIS_ADDR")
	}
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}

	srv := asynq.NewServer(
		bootstrap.AsynqRedisOpt(cfg),
		asynq.Config{
			Concurrency: cfg.AsynqConcurrency,
			Logger:      log.Sugar(),
		},
	)

	// Initialize stores for task handlers
	ctx := context.Background()
	stores, err := bootstrap.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open stores", zap.Error(err))
	}
	defer stores.Close()

	// analysis only reads, so it never needs the project lock or notifier
	schedule := services.NewScheduleService(stores.Tasks, nil, queue.NopNotifier{})

	mux := asynq.NewServeMux()
	tasks.NewAnalyzeHandler(schedule).Register(mux)

	errCh := make(chan error, 1)
	go func() {
		log.Info("asynq worker starting", zap.Int("concurrency", cfg.AsynqConcurrency))
		if err := srv.Run(mux); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("worker stopped with error", zap.Error(err))
	}

	// Allow in-flight tasks to finish gracefully
	srv.Shutdown()
}
