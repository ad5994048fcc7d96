package topology

import (
	"time"

	"github.com/matzehuels/nodecanvas/pkg/observability"
)

// OrphanNodes returns the nodes with no incident edge in either direction,
// in NodeIDs order. A node with only a self-loop is not an orphan.
func OrphanNodes(g Graph) []string {
	start := time.Now()
	nodes := g.NodeIDs()
	var out []string
	for _, n := range nodes {
		if len(g.Children(n)) == 0 && len(g.Parents(n)) == 0 {
			out = append(out, n)
		}
	}
	observability.Topology().OnAnalysis("orphans", len(nodes), len(out), time.Since(start))
	return out
}

// Components returns the connected components of g with edge direction
// ignored. Components are ordered by their first node in NodeIDs order and
// members follow NodeIDs order. An edgeless node is its own component.
func Components(g Graph) [][]string {
	start := time.Now()
	nodes := g.NodeIDs()
	comp := make(map[string]int, len(nodes))
	var count int

	for _, n := range nodes {
		if _, seen := comp[n]; seen {
			continue
		}
		queue := []string{n}
		comp[n] = count
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, adj := range [][]string{g.Children(cur), g.Parents(cur)} {
				for _, next := range adj {
					if _, seen := comp[next]; !seen {
						comp[next] = count
						queue = append(queue, next)
					}
				}
			}
		}
		count++
	}

	out := make([][]string, count)
	for _, n := range nodes {
		out[comp[n]] = append(out[comp[n]], n)
	}
	observability.Topology().OnAnalysis("components", len(nodes), count, time.Since(start))
	return out
}

// IsConnected reports whether g has exactly one connected component.
// The empty graph is not connected.
func IsConnected(g Graph) bool {
	return len(Components(g)) == 1
}

// Sources returns the nodes with no incoming edges (entry points), in
// NodeIDs order. Orphans are included.
func Sources(g Graph) []string {
	var out []string
	for _, n := range g.NodeIDs() {
		if len(g.Parents(n)) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Sinks returns the nodes with no outgoing edges (exit points), in NodeIDs
// order. Orphans are included.
func Sinks(g Graph) []string {
	var out []string
	for _, n := range g.NodeIDs() {
		if len(g.Children(n)) == 0 {
			out = append(out, n)
		}
	}
	return out
}
