package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sistema/engine/internal/models"
	appErr "github.com/sistema/engine/pkg/errors"
)

// registerModels returns all models that need migration
func registerModels() []any {
	return []any{
		&models.Project{},
		&models.ScheduleTask{},
	}
}

// Migrate brings the schema up to date.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(registerModels()...); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "auto migrate failed")
	}

	// schema changes AutoMigrate can't express
	migrations := []func(*gorm.DB) error{
		addPredecessorIndex,
	}
	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "custom migration failed")
		}
	}
	return nil
}

// addPredecessorIndex speeds up dependent lookups on removal.
func addPredecessorIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_schedule_tasks_predecessors
		ON schedule_tasks USING GIN (predecessor_ids)
	`).Error
}

// Seed inserts rows that are not present yet. Existing rows are left alone.
func Seed(ctx context.Context, db *gorm.DB, projects []models.Project, tasks []models.ScheduleTask) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(projects) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&projects).Error; err != nil {
				return appErr.Wrap(err, appErr.CodeInternal, "seed projects failed")
			}
		}
		if len(tasks) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tasks).Error; err != nil {
				return appErr.Wrap(err, appErr.CodeInternal, "seed tasks failed")
			}
		}
		return nil
	})
}
