package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sistema/engine/internal/auth"
	"github.com/sistema/engine/internal/models"
	"github.com/sistema/engine/internal/services"
	"github.com/sistema/engine/pkg/logger"
)

// OrgHeader names the organization a request acts on.
const OrgHeader = "X-Org-ID"

type projectKey struct{}

// OrgScope requires OrgHeader to match the caller's organization and, on
// routes with a {projectID} parameter, the project to belong to it. The
// resolved project is available through GetProject.
func OrgScope(projects services.ProjectService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.FromContext(r.Context())
			if !ok {
				forbidden(w, r, "auth context missing")
				return
			}
			if requested := r.Header.Get(OrgHeader); requested == "" || requested != p.OrgID {
				forbidden(w, r, "organization mismatch")
				return
			}

			projectID := chi.URLParam(r, "projectID")
			if projectID == "" {
				next.ServeHTTP(w, r)
				return
			}
			project, err := projects.Get(r.Context(), projectID, p.OrgID)
			if err != nil {
				logger.L().Info("project scope rejected",
					zap.String("id", GetRequestID(r.Context())),
					zap.String("project_id", projectID),
					zap.String("org_id", p.OrgID),
					zap.Error(err),
				)
				deny(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), projectKey{}, project)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetProject returns the project resolved by OrgScope.
func GetProject(ctx context.Context) *models.Project {
	p, _ := ctx.Value(projectKey{}).(*models.Project)
	return p
}

// RequireRole rejects callers whose role does not satisfy allowed.
func RequireRole(allowed ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.FromContext(r.Context())
			if !ok {
				forbidden(w, r, "auth context missing")
				return
			}
			if !auth.HasRequiredRole(p.Role, allowed) {
				forbidden(w, r, "insufficient role to access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
