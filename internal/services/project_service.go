package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/sistema/engine/internal/models"
	"github.com/sistema/engine/internal/repository"
	appErr "github.com/sistema/engine/pkg/errors"
	"github.com/sistema/engine/pkg/logger"
)

// ProjectService resolves projects on behalf of an organization.
type ProjectService interface {
	Get(ctx context.Context, projectID, orgID string) (*models.Project, error)
	ListByOrg(ctx context.Context, orgID string) ([]models.Project, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
}

func NewProjectService(projectRepo repository.ProjectRepository) ProjectService {
	return &projectService{projectRepo: projectRepo}
}

var _ ProjectService = (*projectService)(nil)

// Get returns the project when it belongs to orgID.
func (s *projectService) Get(ctx context.Context, projectID, orgID string) (*models.Project, error) {
	logger.L().Debug("get project", zap.String("project_id", projectID), zap.String("org_id", orgID))
	var p models.Project
	if err := s.projectRepo.GetByID(ctx, projectID, &p); err != nil {
		return nil, err
	}
	if p.OrgID != orgID {
		return nil, appErr.New(appErr.CodeForbidden, "project belongs to another organization").
			WithMeta("project_id", projectID)
	}
	return &p, nil
}

func (s *projectService) ListByOrg(ctx context.Context, orgID string) ([]models.Project, error) {
	logger.L().Debug("list projects", zap.String("org_id", orgID))
	return s.projectRepo.ListByOrg(ctx, orgID)
}
