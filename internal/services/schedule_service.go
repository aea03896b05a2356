package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sistema/engine/internal/cpm"
	"github.com/sistema/engine/internal/lock"
	"github.com/sistema/engine/internal/models"
	"github.com/sistema/engine/internal/queue"
	"github.com/sistema/engine/internal/repository"
	appErr "github.com/sistema/engine/pkg/errors"
	"github.com/sistema/engine/pkg/logger"
)

// ScheduleService owns the task graph of every project. Each mutation is
// either committed with freshly computed metrics or rolled back to the
// exact prior state before its error is returned.
type ScheduleService interface {
	List(ctx context.Context, projectID string) (*ScheduleResponse, error)
	Create(ctx context.Context, projectID string, input *CreateTaskInput) (*ScheduleResponse, error)
	Update(ctx context.Context, projectID, taskID string, input *UpdateTaskInput) (*ScheduleResponse, error)
	Remove(ctx context.Context, projectID, taskID string) (*ScheduleResponse, error)
	CriticalPath(ctx context.Context, projectID string) (*cpm.Result, error)
}

// ScheduleResponse is returned by every mutation and by List.
type ScheduleResponse struct {
	Tasks   []models.ScheduleTask `json:"tasks"`
	Metrics *cpm.Result           `json:"metrics"`
}

type scheduleService struct {
	tasks    repository.TaskRepository
	locker   lock.Locker
	notifier queue.Notifier
	newID    func() string
}

// NewScheduleService wires the coordinator. A nil locker falls back to an
// in-process lock; a nil notifier drops change events.
func NewScheduleService(tasks repository.TaskRepository, locker lock.Locker, notifier queue.Notifier) ScheduleService {
	if locker == nil {
		locker = lock.NewLocal()
	}
	if notifier == nil {
		notifier = queue.NopNotifier{}
	}
	return &scheduleService{tasks: tasks, locker: locker, notifier: notifier, newID: uuid.NewString}
}

var _ ScheduleService = (*scheduleService)(nil)

func (s *scheduleService) List(ctx context.Context, projectID string) (*ScheduleResponse, error) {
	logger.L().Info("list schedule", zap.String("project_id", projectID))
	return s.read(ctx, projectID)
}

func (s *scheduleService) CriticalPath(ctx context.Context, projectID string) (*cpm.Result, error) {
	logger.L().Info("critical path", zap.String("project_id", projectID))
	resp, err := s.read(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return resp.Metrics, nil
}

// read takes a committed snapshot. It holds the project lock so an
// in-flight mutation is never observed before it commits or rolls back.
func (s *scheduleService) read(ctx context.Context, projectID string) (*ScheduleResponse, error) {
	unlock, err := s.locker.Lock(ctx, projectID)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "acquire project lock failed")
	}
	defer unlock()
	return s.snapshot(ctx, projectID)
}

func (s *scheduleService) Create(ctx context.Context, projectID string, input *CreateTaskInput) (*ScheduleResponse, error) {
	logger.L().Info("create task called", zap.String("project_id", projectID))
	if err := validate.Struct(input); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, "invalid task payload")
	}

	unlock, err := s.locker.Lock(ctx, projectID)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "acquire project lock failed")
	}
	defer unlock()

	existing, err := s.tasks.List(ctx, projectID)
	if err != nil {
		return nil, err
	}
	predecessors := append([]string{}, input.PredecessorIDs...)
	if err := checkPredecessors(existing, predecessors, ""); err != nil {
		return nil, scheduleError(err)
	}

	progress := 0
	if input.Progress != nil {
		progress = *input.Progress
	}
	task := models.ScheduleTask{
		ID:             s.newID(),
		ProjectID:      projectID,
		Name:           input.Name,
		StartDate:      input.StartDate,
		DurationDays:   input.DurationDays,
		Progress:       progress,
		PredecessorIDs: predecessors,
	}
	if _, err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	resp, err := s.snapshot(ctx, projectID)
	if err != nil {
		logger.L().Warn("create rejected, rolling back", zap.String("project_id", projectID), zap.String("task_id", task.ID), zap.Error(err))
		return nil, s.rollback(ctx, err, func(ctx context.Context) error {
			return s.tasks.Remove(ctx, projectID, task.ID)
		})
	}

	logger.L().Info("task created", zap.String("project_id", projectID), zap.String("task_id", task.ID))
	s.notify(ctx, projectID)
	return resp, nil
}

func (s *scheduleService) Update(ctx context.Context, projectID, taskID string, input *UpdateTaskInput) (*ScheduleResponse, error) {
	logger.L().Info("update task called", zap.String("project_id", projectID), zap.String("task_id", taskID))
	if err := validate.Struct(input); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, "invalid task payload").WithMeta("task_id", taskID)
	}

	unlock, err := s.locker.Lock(ctx, projectID)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "acquire project lock failed")
	}
	defer unlock()

	existing, err := s.tasks.List(ctx, projectID)
	if err != nil {
		return nil, err
	}
	current, ok := find(existing, taskID)
	if !ok {
		return nil, taskNotFound(taskID)
	}

	merged := current.Clone()
	if input.Name != nil {
		merged.Name = *input.Name
	}
	if input.StartDate != nil {
		merged.StartDate = *input.StartDate
	}
	if input.DurationDays != nil {
		merged.DurationDays = *input.DurationDays
	}
	if input.Progress != nil {
		merged.Progress = *input.Progress
	}
	if input.PredecessorIDs != nil {
		merged.PredecessorIDs = append([]string{}, (*input.PredecessorIDs)...)
	}

	if err := checkPredecessors(existing, merged.PredecessorIDs, taskID); err != nil {
		return nil, scheduleError(err)
	}

	if _, err := s.tasks.Update(ctx, merged); err != nil {
		return nil, err
	}

	resp, err := s.snapshot(ctx, projectID)
	if err != nil {
		logger.L().Warn("update rejected, rolling back", zap.String("project_id", projectID), zap.String("task_id", taskID), zap.Error(err))
		return nil, s.rollback(ctx, err, func(ctx context.Context) error {
			_, rbErr := s.tasks.Update(ctx, current)
			return rbErr
		})
	}

	logger.L().Info("task updated", zap.String("project_id", projectID), zap.String("task_id", taskID))
	s.notify(ctx, projectID)
	return resp, nil
}

// Remove drops every edge pointing at the task, deletes it and recomputes.
// Any failure along the way restores the removed task and the rewritten
// dependents.
func (s *scheduleService) Remove(ctx context.Context, projectID, taskID string) (*ScheduleResponse, error) {
	logger.L().Info("remove task called", zap.String("project_id", projectID), zap.String("task_id", taskID))

	unlock, err := s.locker.Lock(ctx, projectID)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "acquire project lock failed")
	}
	defer unlock()

	existing, err := s.tasks.List(ctx, projectID)
	if err != nil {
		return nil, err
	}
	current, ok := find(existing, taskID)
	if !ok {
		return nil, taskNotFound(taskID)
	}

	var rewritten []models.ScheduleTask
	restoreDependents := func(ctx context.Context) error {
		var errs []error
		for i := len(rewritten) - 1; i >= 0; i-- {
			if _, err := s.tasks.Update(ctx, rewritten[i]); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	for _, dep := range existing {
		if dep.ID == taskID || !dep.HasPredecessor(taskID) {
			continue
		}
		updated := dep.Clone()
		updated.PredecessorIDs = without(dep.PredecessorIDs, taskID)
		if _, err := s.tasks.Update(ctx, updated); err != nil {
			logger.L().Warn("remove cascade failed, rolling back", zap.String("project_id", projectID), zap.String("task_id", taskID), zap.String("dependent_id", dep.ID), zap.Error(err))
			return nil, s.rollback(ctx, err, restoreDependents)
		}
		rewritten = append(rewritten, dep)
	}

	if err := s.tasks.Remove(ctx, projectID, taskID); err != nil {
		logger.L().Warn("remove failed, rolling back", zap.String("project_id", projectID), zap.String("task_id", taskID), zap.Error(err))
		return nil, s.rollback(ctx, err, restoreDependents)
	}

	resp, err := s.snapshot(ctx, projectID)
	if err != nil {
		logger.L().Warn("remove rejected, rolling back", zap.String("project_id", projectID), zap.String("task_id", taskID), zap.Error(err))
		return nil, s.rollback(ctx, err, func(ctx context.Context) error {
			if _, err := s.tasks.Create(ctx, current); err != nil {
				return err
			}
			return restoreDependents(ctx)
		})
	}

	logger.L().Info("task removed", zap.String("project_id", projectID), zap.String("task_id", taskID), zap.Int("dependents", len(rewritten)))
	s.notify(ctx, projectID)
	return resp, nil
}

// snapshot reads the stored tasks and computes their metrics. Callers hold
// the project lock.
func (s *scheduleService) snapshot(ctx context.Context, projectID string) (*ScheduleResponse, error) {
	tasks, err := s.tasks.List(ctx, projectID)
	if err != nil {
		return nil, err
	}
	metrics, err := computeMetrics(tasks)
	if err != nil {
		return nil, err
	}
	return &ScheduleResponse{Tasks: tasks, Metrics: metrics}, nil
}

// rollback runs undo and returns cause. If undo fails too, the state may be
// partial and the caller gets an internal error carrying both.
func (s *scheduleService) rollback(ctx context.Context, cause error, undo func(context.Context) error) error {
	// The caller's context may be what failed; undo must still run.
	undoCtx := context.WithoutCancel(ctx)
	if err := undo(undoCtx); err != nil {
		logger.L().Error("rollback failed", zap.Error(err), zap.NamedError("cause", cause))
		return appErr.Wrap(errors.Join(cause, err), appErr.CodeInternal, "rollback failed")
	}
	return cause
}

func (s *scheduleService) notify(ctx context.Context, projectID string) {
	if err := s.notifier.ScheduleChanged(ctx, projectID); err != nil {
		logger.L().Warn("schedule change notification failed", zap.String("project_id", projectID), zap.Error(err))
	}
}

func computeMetrics(tasks []models.ScheduleTask) (*cpm.Result, error) {
	nodes := make([]cpm.Node, 0, len(tasks))
	for _, t := range tasks {
		nodes = append(nodes, cpm.Node{ID: t.ID, Duration: t.DurationDays, Predecessors: t.PredecessorIDs})
	}
	result, err := cpm.Compute(nodes)
	if err != nil {
		return nil, scheduleError(err)
	}
	return result, nil
}

// checkPredecessors verifies every id names a task in existing. self, when
// set, is not an eligible predecessor.
func checkPredecessors(existing []models.ScheduleTask, predecessorIDs []string, self string) error {
	ids := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		ids[t.ID] = struct{}{}
	}
	if self != "" {
		delete(ids, self)
	}

	for _, id := range predecessorIDs {
		if self != "" && id == self {
			return &cpm.Error{Kind: cpm.KindPredecessorSelfReference, TaskID: self, PredecessorID: id}
		}
		if _, ok := ids[id]; !ok {
			return &cpm.Error{Kind: cpm.KindUnknownPredecessor, TaskID: self, PredecessorID: id}
		}
	}
	return nil
}

func find(tasks []models.ScheduleTask, id string) (models.ScheduleTask, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.ScheduleTask{}, false
}

func without(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
