package cpm

import "sort"

// criticalPath returns zero-slack ids ordered by earliest start. Ties keep
// topological order. Consecutive ids are not guaranteed to share an edge:
// parallel zero-slack branches are interleaved by start time.
func criticalPath(entries []Entry) []string {
	var critical []Entry
	for _, e := range entries {
		if e.IsCritical {
			critical = append(critical, e)
		}
	}
	sort.SliceStable(critical, func(i, j int) bool {
		return critical[i].EarliestStart < critical[j].EarliestStart
	})

	path := make([]string, 0, len(critical))
	for _, e := range critical {
		path = append(path, e.ID)
	}
	return path
}
