package spatial

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/nodecanvas/pkg/geom"
)

// ActiveCellInfo summarizes one occupied cell for debug overlays.
// It is derived on request and never cached.
type ActiveCellInfo struct {
	Cell            Cell           `json:"cell"`
	Bounds          geom.WorldRect `json:"bounds"`
	NodeCount       int            `json:"node_count"`
	PortCount       int            `json:"port_count"`
	ConnectionCount int            `json:"connection_count"`
	TotalCount      int            `json:"total_count"`
	IsEmpty         bool           `json:"is_empty"`
	TypeBreakdown   string         `json:"type_breakdown"` // e.g. "n:2 p:3 c:1", zero counts omitted
}

// ActiveCellsInfo returns one summary per occupied cell in row-major order
// (by Y, then X).
func (ix *Index) ActiveCellsInfo() []ActiveCellInfo {
	out := make([]ActiveCellInfo, 0, len(ix.cells))
	for c, members := range ix.cells {
		info := ActiveCellInfo{Cell: c, Bounds: ix.CellBounds(c)}
		for id := range members {
			switch ix.elements[id].elem.Kind {
			case KindNode:
				info.NodeCount++
			case KindPort:
				info.PortCount++
			case KindConnection:
				info.ConnectionCount++
			}
		}
		info.TotalCount = info.NodeCount + info.PortCount + info.ConnectionCount
		info.IsEmpty = info.TotalCount == 0
		info.TypeBreakdown = typeBreakdown(info.NodeCount, info.PortCount, info.ConnectionCount)
		out = append(out, info)
	}
	slices.SortFunc(out, func(a, b ActiveCellInfo) int {
		if c := cmp.Compare(a.Cell.Y, b.Cell.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.Cell.X, b.Cell.X)
	})
	return out
}

func typeBreakdown(nodes, ports, conns int) string {
	parts := make([]string, 0, 3)
	if nodes > 0 {
		parts = append(parts, fmt.Sprintf("n:%d", nodes))
	}
	if ports > 0 {
		parts = append(parts, fmt.Sprintf("p:%d", ports))
	}
	if conns > 0 {
		parts = append(parts, fmt.Sprintf("c:%d", conns))
	}
	return strings.Join(parts, " ")
}
