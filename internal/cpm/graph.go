package cpm

// Graph is the validated adjacency structure of a node set.
type Graph struct {
	Nodes      map[string]Node
	Order      []string            // input order
	Successors map[string][]string // predecessor -> dependents, in declaration order
	Indegree   map[string]int
}

// Build validates nodes and derives successors and indegrees.
// Cycles are not detected here; see TopoSort.
func Build(nodes []Node) (*Graph, error) {
	g := &Graph{
		Nodes:      make(map[string]Node, len(nodes)),
		Order:      make([]string, 0, len(nodes)),
		Successors: make(map[string][]string, len(nodes)),
		Indegree:   make(map[string]int, len(nodes)),
	}

	for _, n := range nodes {
		if n.Duration <= 0 {
			return nil, &Error{Kind: KindInvalidDuration, TaskID: n.ID}
		}
		if _, exists := g.Nodes[n.ID]; exists {
			return nil, &Error{Kind: KindDuplicateTaskID, TaskID: n.ID}
		}
		g.Nodes[n.ID] = n
		g.Order = append(g.Order, n.ID)
		g.Successors[n.ID] = nil
		g.Indegree[n.ID] = 0
	}

	for _, n := range nodes {
		for _, pred := range n.Predecessors {
			if _, ok := g.Nodes[pred]; !ok {
				return nil, &Error{Kind: KindUnknownPredecessor, TaskID: n.ID, PredecessorID: pred}
			}
			g.Successors[pred] = append(g.Successors[pred], n.ID)
			g.Indegree[n.ID]++
		}
	}

	return g, nil
}
