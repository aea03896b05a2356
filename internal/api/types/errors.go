package types

import (
	"errors"
	"net/http"

	appErr "github.com/sistema/engine/pkg/errors"
)

// FromAppError renders err for the response envelope. Errors outside the
// AppError family are reported as internal without leaking their text.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	var e *appErr.AppError
	if errors.As(err, &e) {
		return &APIError{Code: string(e.Code), Message: e.Message, Details: e.Meta}
	}
	return &APIError{Code: string(appErr.CodeInternal), Message: http.StatusText(http.StatusInternalServerError)}
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(err error) int {
	switch appErr.CodeOf(err) {
	case appErr.CodeInvalid:
		return http.StatusBadRequest
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeForbidden:
		return http.StatusForbidden
	case appErr.CodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.CodeConflict:
		return http.StatusConflict
	case appErr.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
