package models

import (
	"time"

	"gorm.io/datatypes"
)

// ScheduleTask is a persisted task of a project's schedule.
type ScheduleTask struct {
	ID             string                      `gorm:"type:varchar(64);primaryKey" json:"id"`
	ProjectID      string                      `gorm:"type:varchar(64);primaryKey;index:idx_schedule_tasks_project_start,priority:1" json:"projectId"`
	Name           string                      `gorm:"not null" json:"name"`
	StartDate      string                      `gorm:"type:varchar(32);not null;index:idx_schedule_tasks_project_start,priority:2" json:"startDate"`
	DurationDays   int                         `gorm:"not null" json:"durationDays"`
	Progress       int                         `gorm:"not null;default:0" json:"progress"`
	PredecessorIDs datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"predecessorIds"`
	CreatedAt      *time.Time                  `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time                  `json:"updatedAt,omitempty"`
}

// TableName pins the table shared with other services.
func (ScheduleTask) TableName() string { return "schedule_tasks" }

// Clone returns a deep copy.
func (t ScheduleTask) Clone() ScheduleTask {
	out := t
	out.PredecessorIDs = make(datatypes.JSONSlice[string], len(t.PredecessorIDs))
	copy(out.PredecessorIDs, t.PredecessorIDs)
	if t.CreatedAt != nil {
		c := *t.CreatedAt
		out.CreatedAt = &c
	}
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		out.UpdatedAt = &u
	}
	return out
}

// HasPredecessor reports whether id is among the task's predecessors.
func (t ScheduleTask) HasPredecessor(id string) bool {
	for _, p := range t.PredecessorIDs {
		if p == id {
			return true
		}
	}
	return false
}
