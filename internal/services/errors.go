package services

import (
	"errors"
	"fmt"

	"github.com/sistema/engine/internal/cpm"
	appErr "github.com/sistema/engine/pkg/errors"
)

// ErrTaskNotFound is matched by errors.Is when a mutation targets a missing task.
var ErrTaskNotFound = errors.New("task not found")

func taskNotFound(taskID string) error {
	return appErr.Wrap(ErrTaskNotFound, appErr.CodeNotFound, fmt.Sprintf("task %s not found", taskID)).
		WithMeta("task_id", taskID)
}

// scheduleError lifts a graph rejection into an invalid AppError that still
// unwraps to the *cpm.Error.
func scheduleError(err error) error {
	var ce *cpm.Error
	if !errors.As(err, &ce) {
		return err
	}
	ae := appErr.Wrap(ce, appErr.CodeInvalid, ce.Error()).
		WithMeta("kind", string(ce.Kind)).
		WithMeta("task_id", ce.TaskID).
		WithMeta("predecessor_id", ce.PredecessorID)
	if len(ce.Unresolved) > 0 {
		ae.WithMeta("unresolved", ce.Unresolved)
	}
	return ae
}
