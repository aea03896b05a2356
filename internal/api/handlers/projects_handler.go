package handlers

import (
	"net/http"
	"strconv"

	"github.com/sistema/engine/internal/api/middleware"
	"github.com/sistema/engine/internal/api/types"
	"github.com/sistema/engine/internal/auth"
	"github.com/sistema/engine/internal/services"
	appErr "github.com/sistema/engine/pkg/errors"
)

type ProjectsHandler struct {
	svc services.ProjectService
}

func NewProjectsHandler(svc services.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{svc: svc}
}

// List pages through the projects of the caller's organization.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, r, appErr.New(appErr.CodeUnauthorized, "auth context missing"))
		return
	}
	items, err := h.svc.ListByOrg(r.Context(), p.OrgID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    items[start:end],
		Meta: &types.Meta{
			RequestID: middleware.GetRequestID(r.Context()),
			Page:      page,
			PageSize:  size,
			Total:     int64(len(items)),
		},
	})
}

// Get returns the project resolved by the org scope middleware.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	project := middleware.GetProject(r.Context())
	if project == nil {
		writeError(w, r, appErr.New(appErr.CodeNotFound, "project not found"))
		return
	}
	writeData(w, r, http.StatusOK, project)
}
