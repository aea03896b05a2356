package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/sistema/engine/internal/api/handlers"
	mw "github.com/sistema/engine/internal/api/middleware"
	"github.com/sistema/engine/internal/auth"
	"github.com/sistema/engine/internal/services"
)

type Dependencies struct {
	HMACSecret []byte
	Projects   services.ProjectService
	Schedule   services.ScheduleService
	Readiness  []handlers.ReadinessCheck

	// Per-IP limit; zero values fall back to 10 rps with a burst of 20.
	RateRPS   float64
	RateBurst int
}

// NewRouter builds the HTTP surface. ctx bounds background work started by
// middleware.
func NewRouter(ctx context.Context, dep Dependencies) http.Handler {
	if dep.RateRPS <= 0 {
		dep.RateRPS = 10
	}
	if dep.RateBurst <= 0 {
		dep.RateBurst = 20
	}

	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(ctx, dep.RateRPS, dep.RateBurst))
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := handlers.NewHealthHandler(dep.Readiness...)
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	ph := handlers.NewProjectsHandler(dep.Projects)
	sh := handlers.NewScheduleHandler(dep.Schedule)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(mw.Auth(dep.HMACSecret))
		api.Use(mw.Audit)

		api.Route("/projects", func(pr chi.Router) {
			pr.With(mw.OrgScope(dep.Projects), mw.RequireRole(auth.ReadRoles...)).Get("/", ph.List)

			pr.Route("/{projectID}", func(one chi.Router) {
				one.Use(mw.OrgScope(dep.Projects))
				one.With(mw.RequireRole(auth.ReadRoles...)).Get("/", ph.Get)

				one.Route("/tasks", func(tr chi.Router) {
					tr.With(mw.RequireRole(auth.ReadRoles...)).Get("/", sh.List)
					tr.With(mw.RequireRole(auth.ReadRoles...)).Get("/critical-path", sh.CriticalPath)
					tr.With(mw.RequireRole(auth.CreateRoles...)).Post("/", sh.Create)
					tr.With(mw.RequireRole(auth.UpdateRoles...)).Patch("/{taskID}", sh.Update)
					tr.With(mw.RequireRole(auth.RemoveRoles...)).Delete("/{taskID}", sh.Remove)
				})
			})
		})
	})

	return r
}
