package cpm

import "fmt"

// forwardPass fills EarliestStart/EarliestFinish and returns the project duration.
func forwardPass(g *Graph, order []string, entries map[string]*Entry) int {
	projectDuration := 0
	for _, id := range order {
		n := g.Nodes[id]
		es := 0
		for _, pred := range n.Predecessors {
			if ef := entries[pred].EarliestFinish; ef > es {
				es = ef
			}
		}
		e := entries[id]
		e.EarliestStart = es
		e.EarliestFinish = es + n.Duration
		if e.EarliestFinish > projectDuration {
			projectDuration = e.EarliestFinish
		}
	}
	return projectDuration
}

// backwardPass fills LatestStart/LatestFinish, Slack and IsCritical.
// It panics if a successor has not been visited yet: that can only happen
// with a corrupt topological order.
func backwardPass(g *Graph, order []string, entries map[string]*Entry, projectDuration int) {
	visited := make(map[string]bool, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		e := entries[id]

		succs := g.Successors[id]
		if len(succs) == 0 {
			e.LatestFinish = projectDuration
		} else {
			lf := 0
			for j, succ := range succs {
				if !visited[succ] {
					panic(fmt.Sprintf("cpm: missing latest start for successor %s while processing %s", succ, id))
				}
				if ls := entries[succ].LatestStart; j == 0 || ls < lf {
					lf = ls
				}
			}
			e.LatestFinish = lf
		}

		e.LatestStart = e.LatestFinish - e.Duration
		e.Slack = e.LatestStart - e.EarliestStart
		e.IsCritical = e.Slack == 0
		visited[id] = true
	}
}
