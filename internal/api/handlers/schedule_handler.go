package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sistema/engine/internal/services"
)

// ScheduleHandler serves the task routes of a project. Routing guarantees
// the project exists and belongs to the caller's organization.
type ScheduleHandler struct {
	svc services.ScheduleService
}

func NewScheduleHandler(svc services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.List(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, resp)
}

func (h *ScheduleHandler) CriticalPath(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.CriticalPath(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, res)
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateTaskInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.svc.Create(r.Context(), chi.URLParam(r, "projectID"), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, resp)
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateTaskInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.svc.Update(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "taskID"), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, resp)
}

func (h *ScheduleHandler) Remove(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Remove(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, resp)
}
