package spatial

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/observability"
)

// QueryRect returns every element whose stored bounds intersect r, sorted by
// ID. Bounds that merely touch r along an edge are included, so
// zero-thickness connection segments can be hit. Empty, negative-area and
// non-finite query rects return nil.
func (ix *Index) QueryRect(r geom.WorldRect) []Element {
	if r.IsEmpty() || !r.IsFinite() {
		ix.hooks.OnQuery(observability.QueryRect, 0, 0)
		return nil
	}
	out, scanned := ix.collect(r, func(e Element) bool { return e.Bounds.Intersects(r) })
	ix.hooks.OnQuery(observability.QueryRect, scanned, len(out))
	return out
}

// QueryPoint returns the elements within tolerance of p, sorted by ID.
//
// With a positive tolerance this is QueryRect of the square of side
// 2*tolerance centered on p. A zero tolerance returns the elements whose
// bounds contain p, boundary included. A negative tolerance describes a
// negative-area square and returns nil.
func (ix *Index) QueryPoint(p geom.WorldPosition, tolerance float64) []Element {
	if !p.IsFinite() || !(tolerance >= 0) || math.IsInf(tolerance, 0) {
		ix.hooks.OnQuery(observability.QueryPoint, 0, 0)
		return nil
	}
	var (
		out     []Element
		scanned int
	)
	if tolerance > 0 {
		r := geom.RectFromCenter(p, 2*tolerance, 2*tolerance)
		out, scanned = ix.collect(r, func(e Element) bool { return e.Bounds.Intersects(r) })
	} else {
		out, scanned = ix.collect(geom.RectFromLTWH[geom.World](p.X, p.Y, 0, 0), func(e Element) bool {
			return e.Bounds.Contains(p)
		})
	}
	ix.hooks.OnQuery(observability.QueryPoint, scanned, len(out))
	return out
}

// QueryNearest returns the element closest to p within maxDistance, where
// distance is measured from p to the element's bounds (zero inside them).
// Ties go to the element with the smaller area, so a port wins over the node
// it sits on, then to the smaller ID.
func (ix *Index) QueryNearest(p geom.WorldPosition, maxDistance float64) (Element, bool) {
	if !p.IsFinite() || math.IsNaN(maxDistance) || math.IsInf(maxDistance, 0) {
		ix.hooks.OnQuery(observability.QueryNearest, 0, 0)
		return Element{}, false
	}
	maxDistance = math.Max(maxDistance, 0)
	maxSq := maxDistance * maxDistance
	r := geom.RectFromCenter(p, 2*maxDistance, 2*maxDistance)
	cands, scanned := ix.collect(r, func(e Element) bool { return distanceSquared(e.Bounds, p) <= maxSq })

	var (
		best  Element
		bestD float64
		found bool
	)
	for _, e := range cands {
		d := distanceSquared(e.Bounds, p)
		if !found || d < bestD || (d == bestD && e.Bounds.Area() < best.Bounds.Area()) {
			best, bestD, found = e, d, true
		}
	}
	n := 0
	if found {
		n = 1
	}
	ix.hooks.OnQuery(observability.QueryNearest, scanned, n)
	return best, found
}

// collect gathers the distinct members of the cells spanned by r that pass
// keep, sorted by ID. It also reports how many cells were examined.
func (ix *Index) collect(r geom.WorldRect, keep func(Element) bool) ([]Element, int) {
	s := spanOf(r, ix.gridSize)
	seen := make(map[string]struct{})
	var out []Element
	visit := func(members map[string]struct{}) {
		for id := range members {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if e := ix.elements[id].elem; keep(e) {
				out = append(out, e)
			}
		}
	}

	scanned := 0
	if !s.bounded() || s.cells() > float64(len(ix.cells)) {
		// The query covers more cells than are occupied: walk the occupied
		// ones instead of the whole range.
		for c, members := range ix.cells {
			scanned++
			if s.containsCell(c) {
				visit(members)
			}
		}
	} else {
		s.toRange().each(func(c Cell) {
			scanned++
			if members, ok := ix.cells[c]; ok {
				visit(members)
			}
		})
	}

	slices.SortFunc(out, func(a, b Element) int { return cmp.Compare(a.ID, b.ID) })
	return out, scanned
}

// distanceSquared returns the squared distance from p to the closed rect r.
func distanceSquared(r geom.WorldRect, p geom.WorldPosition) float64 {
	dx := math.Max(0, math.Max(r.Left()-p.X, p.X-r.Right()))
	dy := math.Max(0, math.Max(r.Top()-p.Y, p.Y-r.Bottom()))
	return dx*dx + dy*dy
}
