package spatial

import (
	"math"

	"github.com/matzehuels/nodecanvas/pkg/geom"
)

// maxCellCoord bounds cell coordinates so float → int conversion is exact.
const maxCellCoord = 1 << 40

// Cell addresses one grid square.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// cellRange is an inclusive block of cells.
type cellRange struct {
	minX, minY, maxX, maxY int
}

func (r cellRange) contains(c Cell) bool {
	return c.X >= r.minX && c.X <= r.maxX && c.Y >= r.minY && c.Y <= r.maxY
}

func (r cellRange) count() int {
	return (r.maxX - r.minX + 1) * (r.maxY - r.minY + 1)
}

// each calls fn for every cell in r in row-major order.
func (r cellRange) each(fn func(Cell)) {
	for y := r.minY; y <= r.maxY; y++ {
		for x := r.minX; x <= r.maxX; x++ {
			fn(Cell{X: x, Y: y})
		}
	}
}

// span is a cell range still in float form, so ranges that would overflow
// an int can be detected before conversion.
type span struct {
	x0, y0, x1, y1 float64
}

func spanOf(r geom.WorldRect, gridSize float64) span {
	return span{
		x0: math.Floor(r.Left() / gridSize),
		y0: math.Floor(r.Top() / gridSize),
		x1: math.Floor(r.Right() / gridSize),
		y1: math.Floor(r.Bottom() / gridSize),
	}
}

func (s span) bounded() bool {
	return math.Abs(s.x0) <= maxCellCoord && math.Abs(s.x1) <= maxCellCoord &&
		math.Abs(s.y0) <= maxCellCoord && math.Abs(s.y1) <= maxCellCoord
}

func (s span) cells() float64 { return (s.x1 - s.x0 + 1) * (s.y1 - s.y0 + 1) }

func (s span) containsCell(c Cell) bool {
	x, y := float64(c.X), float64(c.Y)
	return x >= s.x0 && x <= s.x1 && y >= s.y0 && y <= s.y1
}

func (s span) toRange() cellRange {
	return cellRange{minX: int(s.x0), minY: int(s.y0), maxX: int(s.x1), maxY: int(s.y1)}
}

// CellBounds returns the world-space square covered by c.
func (ix *Index) CellBounds(c Cell) geom.WorldRect {
	g := ix.gridSize
	return geom.RectFromLTWH[geom.World](float64(c.X)*g, float64(c.Y)*g, g, g)
}

// CellAt returns the cell containing p under the half-open convention.
// p must be finite and within the index's addressable range.
func (ix *Index) CellAt(p geom.WorldPosition) Cell {
	return Cell{X: int(math.Floor(p.X / ix.gridSize)), Y: int(math.Floor(p.Y / ix.gridSize))}
}
