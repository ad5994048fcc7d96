package topology

import "github.com/matzehuels/nodecanvas/pkg/geom"

// Bounds returns the smallest rect containing every node's bounds, or the
// zero rect when g has no nodes. Fit-to-view uses it to frame the diagram.
func Bounds(g BoundedGraph) geom.WorldRect {
	var (
		out   geom.WorldRect
		first = true
	)
	for _, n := range g.NodeIDs() {
		b, ok := g.NodeBounds(n)
		if !ok {
			continue
		}
		if first {
			out, first = b, false
			continue
		}
		out = out.ExpandToInclude(b)
	}
	return out
}
