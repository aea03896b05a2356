// Package bootstrap turns a loaded configuration into the stores, lock and
// notifier shared by the api and worker binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sistema/engine/internal/api/handlers"
	"github.com/sistema/engine/internal/lock"
	"github.com/sistema/engine/internal/queue"
	"github.com/sistema/engine/internal/repository"
	"github.com/sistema/engine/internal/repository/memory"
	"github.com/sistema/engine/pkg/config"
	"github.com/sistema/engine/pkg/database"
)

// Stores groups the repositories selected by STORE_BACKEND.
type Stores struct {
	Tasks    repository.TaskRepository
	Projects repository.ProjectRepository
	DB       *gorm.DB
}

// OpenStores opens the configured backend and applies the demo seed when
// SEED_DEMO is set.
func OpenStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Stores, error) {
	switch cfg.StoreBackend {
	case "memory":
		if cfg.SeedDemo {
			return &Stores{
				Tasks:    memory.NewTaskStore(memory.DemoTasks()...),
				Projects: memory.NewProjectStore(memory.DemoProjects()...),
			}, nil
		}
		return &Stores{Tasks: memory.NewTaskStore(), Projects: memory.NewProjectStore()}, nil

	case "postgres":
		db, err := database.OpenPostgres(ctx, cfg.DatabaseURL, cfg.AppEnv, log)
		if err != nil {
			return nil, err
		}
		if cfg.SeedDemo {
			if err := repository.Seed(ctx, db, memory.DemoProjects(), memory.DemoTasks()); err != nil {
				return nil, err
			}
			log.Info("demo data seeded")
		}
		return &Stores{
			Tasks:    repository.NewTaskRepository(db),
			Projects: repository.NewProjectRepository(db),
			DB:       db,
		}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// Close releases the database pool, if any.
func (s *Stores) Close() error {
	if s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Redis returns a client for REDIS_ADDR, or nil when it is unset.
func Redis(cfg *config.Config) redis.UniversalClient {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
}

// AsynqRedisOpt mirrors Redis for asynq clients and servers.
func AsynqRedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	}
}

// Locker returns the lock selected by LOCK_BACKEND.
func Locker(cfg *config.Config, rdb redis.UniversalClient) (lock.Locker, error) {
	switch cfg.LockBackend {
	case "local":
		return lock.NewLocal(), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis lock backend needs REDIS_ADDR")
		}
		return lock.NewRedis(rdb, cfg.LockTTL), nil
	}
	return nil, fmt.Errorf("unknown lock backend %q", cfg.LockBackend)
}

// Notifier returns the asynq notifier when NOTIFY_ENABLED is set. The
// returned close func must be called on shutdown.
func Notifier(cfg *config.Config) (queue.Notifier, func() error) {
	if !cfg.NotifyEnabled {
		return queue.NopNotifier{}, func() error { return nil }
	}
	client := asynq.NewClient(AsynqRedisOpt(cfg))
	return queue.NewAsynqNotifier(client), client.Close
}

// Readiness builds the /readyz checks for the opened dependencies.
func Readiness(stores *Stores, rdb redis.UniversalClient) []handlers.ReadinessCheck {
	var checks []handlers.ReadinessCheck
	if stores != nil && stores.DB != nil {
		db := stores.DB
		checks = append(checks, handlers.ReadinessCheck{Name: "postgres", Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}})
	}
	if rdb != nil {
		checks = append(checks, handlers.ReadinessCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	return checks
}
