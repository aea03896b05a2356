// Package memory provides in-process implementations of the repository
// contracts. Each store is an owned value; nothing is shared between
// instances, so tests get a fresh store per fixture.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sistema/engine/internal/models"
	"github.com/sistema/engine/internal/repository"
	appErr "github.com/sistema/engine/pkg/errors"
)

// TaskStore keeps schedule tasks per project in insertion order.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string][]models.ScheduleTask
	now   func() time.Time
}

// NewTaskStore returns a store pre-populated with seed.
func NewTaskStore(seed ...models.ScheduleTask) *TaskStore {
	s := &TaskStore{
		tasks: make(map[string][]models.ScheduleTask),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, t := range seed {
		s.tasks[t.ProjectID] = append(s.tasks[t.ProjectID], t.Clone())
	}
	return s
}

var _ repository.TaskRepository = (*TaskStore)(nil)

func (s *TaskStore) List(ctx context.Context, projectID string) ([]models.ScheduleTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.tasks[projectID]
	out := make([]models.ScheduleTask, 0, len(stored))
	for _, t := range stored {
		out = append(out, t.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return startOf(out[i]).Before(startOf(out[j]))
	})
	return out, nil
}

func (s *TaskStore) Create(ctx context.Context, task models.ScheduleTask) (models.ScheduleTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks[task.ProjectID] {
		if t.ID == task.ID {
			return models.ScheduleTask{}, appErr.New(appErr.CodeConflict, fmt.Sprintf("task %s already exists", task.ID)).WithMeta("task_id", task.ID)
		}
	}

	row := task.Clone()
	now := s.now()
	row.CreatedAt = &now
	row.UpdatedAt = &now
	s.tasks[task.ProjectID] = append(s.tasks[task.ProjectID], row)
	return row.Clone(), nil
}

func (s *TaskStore) Update(ctx context.Context, task models.ScheduleTask) (models.ScheduleTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.tasks[task.ProjectID]
	for i, t := range tasks {
		if t.ID != task.ID {
			continue
		}
		row := task.Clone()
		row.CreatedAt = t.CreatedAt
		now := s.now()
		row.UpdatedAt = &now
		tasks[i] = row
		return row.Clone(), nil
	}
	return models.ScheduleTask{}, appErr.New(appErr.CodeNotFound, fmt.Sprintf("task %s not found", task.ID)).WithMeta("task_id", task.ID)
}

func (s *TaskStore) Remove(ctx context.Context, projectID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.tasks[projectID]
	for i, t := range tasks {
		if t.ID == taskID {
			s.tasks[projectID] = append(tasks[:i:i], tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

// startOf parses the informational start date. Unparseable dates sort first.
func startOf(t models.ScheduleTask) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if ts, err := time.Parse(layout, t.StartDate); err == nil {
			return ts
		}
	}
	return time.Time{}
}
