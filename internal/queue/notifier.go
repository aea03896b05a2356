// Package queue publishes schedule change events for background analysis.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TypeScheduleAnalyze is the asynq task type handled by the worker.
const TypeScheduleAnalyze = "schedule:analyze"

// AnalyzePayload identifies the project whose schedule changed.
type AnalyzePayload struct {
	ProjectID string `json:"project_id"`
}

// Notifier is told about every committed schedule mutation.
type Notifier interface {
	ScheduleChanged(ctx context.Context, projectID string) error
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) ScheduleChanged(context.Context, string) error { return nil }

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqNotifier enqueues one analysis task per change. Bursts of edits on
// the same project collapse into one task per debounce window.
type AsynqNotifier struct {
	client   enqueuer
	debounce time.Duration
}

func NewAsynqNotifier(client *asynq.Client) *AsynqNotifier {
	return &AsynqNotifier{client: client, debounce: 2 * time.Second}
}

// NewAnalyzeTask builds the task for projectID.
func NewAnalyzeTask(projectID string) (*asynq.Task, error) {
	b, err := json.Marshal(AnalyzePayload{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeScheduleAnalyze, b), nil
}

func (n *AsynqNotifier) ScheduleChanged(ctx context.Context, projectID string) error {
	task, err := NewAnalyzeTask(projectID)
	if err != nil {
		return err
	}
	window := time.Now().Truncate(n.debounce).UnixNano()
	_, err = n.client.EnqueueContext(ctx, task,
		asynq.TaskID(fmt.Sprintf("analyze:%s:%d", projectID, window)),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("enqueue %s: %w", TypeScheduleAnalyze, err)
	}
	return nil
}
