package repository

import (
	"context"

	"github.com/sistema/engine/internal/models"
	"gorm.io/gorm"
)

// ProjectRepository resolves projects for organization scoping.
type ProjectRepository interface {
	GetByID(ctx context.Context, id any, dest *models.Project) error
	ListByOrg(ctx context.Context, orgID string) ([]models.Project, error)
}

type projectRepository struct {
	BaseRepository[models.Project]
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{BaseRepository: NewBaseRepository[models.Project](db, "project")}
}

func (r *projectRepository) ListByOrg(ctx context.Context, orgID string) ([]models.Project, error) {
	return r.FindWhere(ctx, "name ASC", "org_id = ?", orgID)
}
