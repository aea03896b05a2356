package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sistema/engine/internal/models"
	appErr "github.com/sistema/engine/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskRepository is the storage contract the schedule coordinator relies on.
// Every call may fail; implementations return *errors.AppError.
type TaskRepository interface {
	// List returns the project's tasks ordered by start date ascending.
	List(ctx context.Context, projectID string) ([]models.ScheduleTask, error)
	Create(ctx context.Context, task models.ScheduleTask) (models.ScheduleTask, error)
	// Update replaces a stored task; it fails with not_found if absent.
	Update(ctx context.Context, task models.ScheduleTask) (models.ScheduleTask, error)
	// Remove deletes a task. Removing an absent task is not an error.
	Remove(ctx context.Context, projectID, taskID string) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository returns the Postgres-backed TaskRepository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

var _ TaskRepository = (*taskRepository)(nil)

func (r *taskRepository) List(ctx context.Context, projectID string) ([]models.ScheduleTask, error) {
	var out []models.ScheduleTask
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("start_date ASC").Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list schedule tasks failed")
	}
	for i := range out {
		if out[i].PredecessorIDs == nil {
			out[i].PredecessorIDs = datatypes.JSONSlice[string]{}
		}
	}
	return out, nil
}

func (r *taskRepository) Create(ctx context.Context, task models.ScheduleTask) (models.ScheduleTask, error) {
	row := task.Clone()
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ScheduleTask{}, appErr.Wrap(err, appErr.CodeConflict, fmt.Sprintf("task %s already exists", task.ID)).WithMeta("task_id", task.ID)
		}
		return models.ScheduleTask{}, appErr.Wrap(err, appErr.CodeInternal, "create schedule task failed").WithMeta("task_id", task.ID)
	}
	return row, nil
}

func (r *taskRepository) Update(ctx context.Context, task models.ScheduleTask) (models.ScheduleTask, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.ScheduleTask{}).
		Where("id = ? AND project_id = ?", task.ID, task.ProjectID).
		Updates(map[string]any{
			"name":            task.Name,
			"start_date":      task.StartDate,
			"duration_days":   task.DurationDays,
			"progress":        task.Progress,
			"predecessor_ids": datatypes.JSONSlice[string](task.Clone().PredecessorIDs),
			"updated_at":      now,
		})
	if res.Error != nil {
		return models.ScheduleTask{}, appErr.Wrap(res.Error, appErr.CodeInternal, "update schedule task failed").WithMeta("task_id", task.ID)
	}
	if res.RowsAffected == 0 {
		return models.ScheduleTask{}, appErr.New(appErr.CodeNotFound, fmt.Sprintf("task %s not found", task.ID)).WithMeta("task_id", task.ID)
	}

	var stored models.ScheduleTask
	if err := r.db.WithContext(ctx).First(&stored, "id = ? AND project_id = ?", task.ID, task.ProjectID).Error; err != nil {
		return models.ScheduleTask{}, appErr.Wrap(err, appErr.CodeInternal, "reload schedule task failed").WithMeta("task_id", task.ID)
	}
	return stored, nil
}

func (r *taskRepository) Remove(ctx context.Context, projectID, taskID string) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", taskID, projectID).Delete(&models.ScheduleTask{}).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "delete schedule task failed").WithMeta("task_id", taskID)
	}
	return nil
}
