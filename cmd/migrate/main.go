package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sistema/engine/internal/repository"
	"github.com/sistema/engine/internal/repository/memory"
	"github.com/sistema/engine/pkg/config"
	"github.com/sistema/engine/pkg/database"
	"github.com/sistema/engine/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for migrations")
	}

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL, cfg.AppEnv, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := repository.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	if cfg.SeedDemo {
		if err := repository.Seed(ctx, db, memory.DemoProjects(), memory.DemoTasks()); err != nil {
			log.Fatal("seed failed", zap.Error(err))
		}
		log.Info("demo data seeded")
	}

	fmt.Fprintln(os.Stdout, "migrations completed")
}
