package topology

import "github.com/matzehuels/nodecanvas/pkg/geom"

// Graph is the read-only view of a directed graph the analysis functions
// need.
type Graph interface {
	// NodeIDs returns every node ID in a stable order.
	NodeIDs() []string
	// Children returns the targets of edges leaving id. Duplicates are
	// allowed and ignored.
	Children(id string) []string
	// Parents returns the sources of edges entering id.
	Parents(id string) []string
}

// BoundedGraph is a Graph whose nodes have world-space bounds.
type BoundedGraph interface {
	Graph
	NodeBounds(id string) (geom.WorldRect, bool)
}

// Cycle is a sequence of node IDs where each node has an edge to the next
// and the last has an edge back to the first. A self-loop is a one-element
// cycle.
type Cycle []string

// Contains reports whether id is part of c.
func (c Cycle) Contains(id string) bool {
	for _, n := range c {
		if n == id {
			return true
		}
	}
	return false
}
