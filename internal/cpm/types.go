package cpm

// Node is a single task as seen by the scheduling engine.
type Node struct {
	ID           string
	Duration     int // days, strictly positive
	Predecessors []string
}

// Entry holds the computed schedule of one node.
type Entry struct {
	ID             string `json:"id"`
	Duration       int    `json:"duration"`
	EarliestStart  int    `json:"earliestStart"`
	EarliestFinish int    `json:"earliestFinish"`
	LatestStart    int    `json:"latestStart"`
	LatestFinish   int    `json:"latestFinish"`
	Slack          int    `json:"slack"`
	IsCritical     bool   `json:"isCritical"`
}

// Result is the complete critical path analysis of one project.
type Result struct {
	Entries         []Entry  `json:"entries"` // topological order
	CriticalPath    []string `json:"criticalPath"`
	ProjectDuration int      `json:"projectDuration"`
}

// Entry returns the entry for id.
func (r *Result) Entry(id string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}
