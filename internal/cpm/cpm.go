// Package cpm computes the Critical Path Method over a task dependency graph.
//
// Compute is a pure function of its input: it performs no I/O, keeps no
// state between calls and is safe for concurrent use.
package cpm

// Compute validates nodes and returns their schedule. An empty input yields
// an empty result with zero project duration.
func Compute(nodes []Node) (*Result, error) {
	if len(nodes) == 0 {
		return &Result{Entries: []Entry{}, CriticalPath: []string{}}, nil
	}

	g, err := Build(nodes)
	if err != nil {
		return nil, err
	}
	order, err := TopoSort(g)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Entry, len(order))
	for _, id := range order {
		byID[id] = &Entry{ID: id, Duration: g.Nodes[id].Duration}
	}

	projectDuration := forwardPass(g, order, byID)
	backwardPass(g, order, byID, projectDuration)

	entries := make([]Entry, 0, len(order))
	for _, id := range order {
		entries = append(entries, *byID[id])
	}

	return &Result{
		Entries:         entries,
		CriticalPath:    criticalPath(entries),
		ProjectDuration: projectDuration,
	}, nil
}
