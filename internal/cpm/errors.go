package cpm

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected graph.
type Kind string

const (
	KindInvalidDuration          Kind = "invalid_duration"
	KindDuplicateTaskID          Kind = "duplicate_task_id"
	KindUnknownPredecessor       Kind = "unknown_predecessor"
	KindPredecessorSelfReference Kind = "predecessor_self_reference"
	KindCycleDetected            Kind = "cycle_detected"
)

// Sentinels for errors.Is.
var (
	ErrInvalidDuration          = &Error{Kind: KindInvalidDuration}
	ErrDuplicateTaskID          = &Error{Kind: KindDuplicateTaskID}
	ErrUnknownPredecessor       = &Error{Kind: KindUnknownPredecessor}
	ErrPredecessorSelfReference = &Error{Kind: KindPredecessorSelfReference}
	ErrCycleDetected            = &Error{Kind: KindCycleDetected}
)

// Error is returned for every graph the engine refuses to schedule.
type Error struct {
	Kind          Kind
	TaskID        string
	PredecessorID string
	Unresolved    []string // cycle members and their descendants
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidDuration:
		return fmt.Sprintf("task %s must have a duration greater than zero", e.TaskID)
	case KindDuplicateTaskID:
		return fmt.Sprintf("duplicate task id detected: %s", e.TaskID)
	case KindUnknownPredecessor:
		if e.TaskID == "" {
			return fmt.Sprintf("predecessor %s does not exist", e.PredecessorID)
		}
		return fmt.Sprintf("task %s references unknown predecessor %s", e.TaskID, e.PredecessorID)
	case KindPredecessorSelfReference:
		return fmt.Sprintf("task %s cannot be its own predecessor", e.TaskID)
	case KindCycleDetected:
		return fmt.Sprintf("cycle detected in schedule tasks (%d unresolved)", len(e.Unresolved))
	}
	return string(e.Kind)
}

// Is matches on Kind only. A self reference is also an unknown predecessor,
// since a task's own id is never an eligible predecessor.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return e.Kind == KindPredecessorSelfReference && t.Kind == KindUnknownPredecessor
}

// KindOf returns the Kind of err, or "" when err is not a graph error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
