package services

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// CreateTaskInput is the payload of a task creation.
type CreateTaskInput struct {
	Name           string   `json:"name" validate:"required"`
	StartDate      string   `json:"startDate" validate:"required,isodate"`
	DurationDays   int      `json:"durationDays" validate:"gte=1"`
	Progress       *int     `json:"progress" validate:"omitempty,gte=0,lte=100"`
	PredecessorIDs []string `json:"predecessorIds" validate:"omitempty,unique,dive,required"`
}

// UpdateTaskInput carries the fields to change; nil fields keep their value.
type UpdateTaskInput struct {
	Name           *string   `json:"name" validate:"omitempty,min=1"`
	StartDate      *string   `json:"startDate" validate:"omitempty,isodate"`
	DurationDays   *int      `json:"durationDays" validate:"omitempty,gte=1"`
	Progress       *int      `json:"progress" validate:"omitempty,gte=0,lte=100"`
	PredecessorIDs *[]string `json:"predecessorIds" validate:"omitempty,unique,dive,required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return isISODate(fl.Field().String())
	})
	return v
}

// isISODate accepts calendar dates and RFC 3339 timestamps.
func isISODate(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339Nano} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
