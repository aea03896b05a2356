package cpm

// TopoSort orders the graph with Kahn's algorithm. Ready nodes are
// processed strictly first-in first-out, seeded in input order; no other
// priority is applied.
func TopoSort(g *Graph) ([]string, error) {
	indeg := make(map[string]int, len(g.Indegree))
	for id, d := range g.Indegree {
		indeg[id] = d
	}

	queue := make([]string, 0, len(g.Order))
	for _, id := range g.Order {
		if indeg[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(g.Order))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, succ := range g.Successors[node] {
			indeg[succ]--
			if indeg[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) < len(g.Order) {
		var unresolved []string
		for _, id := range g.Order {
			if indeg[id] > 0 {
				unresolved = append(unresolved, id)
			}
		}
		return nil, &Error{Kind: KindCycleDetected, Unresolved: unresolved}
	}
	return order, nil
}
