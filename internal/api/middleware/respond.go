package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/sistema/engine/internal/api/types"
	appErr "github.com/sistema/engine/pkg/errors"
)

func respond(w http.ResponseWriter, r *http.Request, status int, e *types.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.APIResponse{
		Success: false,
		Error:   e,
		Meta:    &types.Meta{RequestID: GetRequestID(r.Context())},
	})
}

func deny(w http.ResponseWriter, r *http.Request, err error) {
	respond(w, r, types.StatusFor(err), types.FromAppError(err))
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	deny(w, r, appErr.New(appErr.CodeUnauthorized, msg))
}

func forbidden(w http.ResponseWriter, r *http.Request, msg string) {
	deny(w, r, appErr.New(appErr.CodeForbidden, msg))
}
