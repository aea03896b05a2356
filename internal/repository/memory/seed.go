package memory

import "github.com/sistema/engine/internal/models"

// DemoProjects is the registry used by demo and local deployments.
func DemoProjects() []models.Project {
	return []models.Project{
		{ID: "project-1", Name: "Hospital Regional", OrgID: "org-123"},
		{ID: "project-2", Name: "Escuela Técnica", OrgID: "org-456"},
	}
}

// DemoTasks is a four step construction chain in project-1.
func DemoTasks() []models.ScheduleTask {
	return []models.ScheduleTask{
		{ID: "task-foundations", ProjectID: "project-1", Name: "Cimentacion", StartDate: "2025-09-01T00:00:00.000Z", DurationDays: 5, Progress: 40, PredecessorIDs: []string{}},
		{ID: "task-structure", ProjectID: "project-1", Name: "Estructura", StartDate: "2025-09-07T00:00:00.000Z", DurationDays: 10, Progress: 20, PredecessorIDs: []string{"task-foundations"}},
		{ID: "task-installations", ProjectID: "project-1", Name: "Instalaciones", StartDate: "2025-09-18T00:00:00.000Z", DurationDays: 7, Progress: 10, PredecessorIDs: []string{"task-structure"}},
		{ID: "task-finishes", ProjectID: "project-1", Name: "Terminaciones", StartDate: "2025-09-26T00:00:00.000Z", DurationDays: 6, Progress: 0, PredecessorIDs: []string{"task-installations"}},
	}
}
