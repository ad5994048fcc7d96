package topology

import (
	"time"

	"github.com/matzehuels/nodecanvas/pkg/observability"
)

// DetectCycles returns the cycles found by a depth-first search started
// from every unvisited node.
//
// # Algorithm
//
// Nodes are colored white (unvisited), gray (on the current DFS path) or
// black (fully explored). An edge into a gray node closes a cycle: the
// reported cycle is the slice of the current path from that node to the
// top, inclusive. Each such back edge yields one cycle, so every disjoint
// cycle is reported and overlapping cycles that share nodes may each be
// reported. Nodes that are only reachable from a cycle, or only lead into
// one, are never part of a reported cycle.
//
// Time complexity is O(V + E) plus the size of the reported cycles.
func DetectCycles(g Graph) []Cycle {
	start := time.Now()

	const (
		white = iota
		gray
		black
	)

	nodes := g.NodeIDs()
	color := make(map[string]int, len(nodes))
	onPath := make(map[string]int) // gray node -> index in path
	var (
		path   []string
		cycles []Cycle
	)

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		onPath[node] = len(path)
		path = append(path, node)

		for _, child := range uniq(g.Children(node)) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				cycles = append(cycles, Cycle(append([]string(nil), path[onPath[child]:]...)))
			}
		}

		path = path[:len(path)-1]
		delete(onPath, node)
		color[node] = black
	}

	for _, n := range nodes {
		if color[n] == white {
			dfs(n)
		}
	}

	observability.Topology().OnAnalysis("cycles", len(nodes), len(cycles), time.Since(start))
	return cycles
}

// HasCycles reports whether DetectCycles would return at least one cycle.
func HasCycles(g Graph) bool {
	return len(DetectCycles(g)) > 0
}

// uniq drops repeated IDs while keeping first-seen order. Parallel edges
// collapse this way.
func uniq(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
