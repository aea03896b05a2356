package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sistema/engine/internal/models"
	"github.com/sistema/engine/internal/repository"
	appErr "github.com/sistema/engine/pkg/errors"
)

// ProjectStore is a read-mostly project registry.
type ProjectStore struct {
	mu       sync.RWMutex
	projects map[string]models.Project
}

func NewProjectStore(seed ...models.Project) *ProjectStore {
	s := &ProjectStore{projects: make(map[string]models.Project, len(seed))}
	for _, p := range seed {
		s.projects[p.ID] = p
	}
	return s
}

var _ repository.ProjectRepository = (*ProjectStore)(nil)

func (s *ProjectStore) GetByID(ctx context.Context, id any, dest *models.Project) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[fmt.Sprint(id)]
	if !ok {
		return appErr.New(appErr.CodeNotFound, fmt.Sprintf("project %v not found", id))
	}
	*dest = p
	return nil
}

func (s *ProjectStore) ListByOrg(ctx context.Context, orgID string) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Project
	for _, p := range s.projects {
		if p.OrgID == orgID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
