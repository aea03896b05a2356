package repository

import (
	"context"
	"errors"
	"fmt"

	appErr "github.com/sistema/engine/pkg/errors"
	"gorm.io/gorm"
)

// BaseRepository holds the lookups shared by read-mostly registries.
type BaseRepository[T any] interface {
	GetByID(ctx context.Context, id any, dest *T) error
	FindWhere(ctx context.Context, order string, query string, args ...any) ([]T, error)
}

type baseRepository[T any] struct {
	db     *gorm.DB
	entity string
}

// NewBaseRepository returns a BaseRepository over db. entity names the
// record kind in error messages.
func NewBaseRepository[T any](db *gorm.DB, entity string) BaseRepository[T] {
	return &baseRepository[T]{db: db, entity: entity}
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id any, dest *T) error {
	if err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, fmt.Sprintf("%s %v not found", r.entity, id)).
				WithMeta(r.entity+"_id", fmt.Sprint(id))
		}
		return appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("get %s failed", r.entity))
	}
	return nil
}

func (r *baseRepository[T]) FindWhere(ctx context.Context, order string, query string, args ...any) ([]T, error) {
	out := []T{}
	tx := r.db.WithContext(ctx).Where(query, args...)
	if order != "" {
		tx = tx.Order(order)
	}
	if err := tx.Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("list %s failed", r.entity))
	}
	return out, nil
}
