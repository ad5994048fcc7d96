package spatial

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/geom"
)

func rect(l, t, w, h float64) geom.WorldRect { return geom.RectFromLTWH[geom.World](l, t, w, h) }

func mustNew(t *testing.T, gridSize float64, opts ...Option) *Index {
	t.Helper()
	ix, err := New(gridSize, opts...)
	if err != nil {
		t.Fatalf("New(%v): %v", gridSize, err)
	}
	return ix
}

func mustUpdate(t *testing.T, ix *Index, e Element) {
	t.Helper()
	if err := ix.Update(e); err != nil {
		t.Fatalf("Update(%s): %v", e.ID, err)
	}
}

func ids(es []Element) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}

func TestNewRejectsBadGridSize(t *testing.T) {
	for _, size := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		ix, err := New(size)
		if err == nil {
			t.Errorf("New(%v) succeeded, want error", size)
			continue
		}
		if ix != nil {
			t.Errorf("New(%v) returned non-nil index with error", size)
		}
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("New(%v) code = %v, want %v", size, errors.GetCode(err), errors.ErrCodeInvalidConfig)
		}
	}
}

func TestCellBounds(t *testing.T) {
	ix := mustNew(t, DefaultGridSize)
	tests := []struct {
		c    Cell
		want geom.WorldRect
	}{
		{Cell{0, 0}, rect(0, 0, 500, 500)},
		{Cell{2, -1}, rect(1000, -500, 500, 500)},
		{Cell{-3, 4}, rect(-1500, 2000, 500, 500)},
	}
	for _, tt := range tests {
		if got := ix.CellBounds(tt.c); got != tt.want {
			t.Errorf("CellBounds(%v) = %v, want %v", tt.c, got, tt.want)
		}
		if got := ix.CellAt(tt.want.TopLeft()); got != tt.c {
			t.Errorf("CellAt(%v) = %v, want %v", tt.want.TopLeft(), got, tt.c)
		}
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	ix := mustNew(t, 100)
	rects := []geom.WorldRect{
		rect(10, 10, 20, 20),
		rect(-250, -30, 400, 90),
		rect(99, 99, 2, 2),
		rect(100, 100, 100, 100),
		rect(-0.5, 1e4, 0.25, 0.25),
	}
	for i, r := range rects {
		id := string(rune('a' + i))
		mustUpdate(t, ix, Element{ID: id, Kind: KindNode, Bounds: r})
		if got := ids(ix.QueryRect(r)); !slices.Contains(got, id) {
			t.Errorf("QueryRect(%v) = %v, missing %s", r, got, id)
		}
		entry := ix.elements[id]
		entry.cells.each(func(c Cell) {
			if !ix.CellBounds(c).Intersects(r) {
				t.Errorf("%s registered in cell %v which does not touch %v", id, c, r)
			}
		})
	}
}

func TestUpdateMovesBetweenCells(t *testing.T) {
	ix := mustNew(t, 100)
	mustUpdate(t, ix, Element{ID: "n", Kind: KindNode, Bounds: rect(10, 10, 50, 50)})

	if got := ix.CellCount(); got != 1 {
		t.Fatalf("CellCount() = %d, want 1", got)
	}

	// Move far away: old cell must be released.
	mustUpdate(t, ix, Element{ID: "n", Kind: KindNode, Bounds: rect(1010, 1010, 50, 50)})
	if got := ix.QueryRect(rect(0, 0, 100, 100)); len(got) != 0 {
		t.Errorf("old region still returns %v", ids(got))
	}
	if got := ids(ix.QueryRect(rect(1000, 1000, 100, 100))); !slices.Equal(got, []string{"n"}) {
		t.Errorf("new region = %v, want [n]", got)
	}
	if got := ix.CellCount(); got != 1 {
		t.Errorf("CellCount() after move = %d, want 1", got)
	}

	// Resize to straddle four cells, then shrink back to one.
	mustUpdate(t, ix, Element{ID: "n", Kind: KindNode, Bounds: rect(1050, 1050, 100, 100)})
	if got := ix.CellCount(); got != 4 {
		t.Errorf("CellCount() after grow = %d, want 4", got)
	}
	mustUpdate(t, ix, Element{ID: "n", Kind: KindNode, Bounds: rect(1110, 1110, 10, 10)})
	if got := ix.CellCount(); got != 1 {
		t.Errorf("CellCount() after shrink = %d, want 1", got)
	}
	if got := ix.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestUpdateIdempotent(t *testing.T) {
	once := mustNew(t, 100)
	twice := mustNew(t, 100)
	e := Element{ID: "n", Kind: KindPort, Bounds: rect(50, 50, 200, 120)}

	mustUpdate(t, once, e)
	mustUpdate(t, twice, e)
	mustUpdate(t, twice, e)

	if !slices.Equal(once.ActiveCellsInfo(), twice.ActiveCellsInfo()) {
		t.Errorf("ActiveCellsInfo differs:\n once: %v\ntwice: %v", once.ActiveCellsInfo(), twice.ActiveCellsInfo())
	}
	q := rect(0, 0, 1000, 1000)
	if !slices.Equal(once.QueryRect(q), twice.QueryRect(q)) {
		t.Error("QueryRect differs after repeated update")
	}
	if once.Len() != twice.Len() {
		t.Errorf("Len() = %d vs %d", once.Len(), twice.Len())
	}
}

func TestUpdateSameSpanRefreshesBounds(t *testing.T) {
	ix := mustNew(t, 500)
	mustUpdate(t, ix, Element{ID: "n", Kind: KindNode, Bounds: rect(10, 10, 10, 10)})
	mustUpdate(t, ix, Element{ID: "n", Kind: KindNode, Bounds: rect(300, 300, 10, 10)})

	if got := ix.QueryRect(rect(0, 0, 50, 50)); len(got) != 0 {
		t.Errorf("stale bounds matched: %v", ids(got))
	}
	if got := ids(ix.QueryRect(rect(290, 290, 50, 50))); !slices.Equal(got, []string{"n"}) {
		t.Errorf("QueryRect() = %v, want [n]", got)
	}
}

func TestRemove(t *testing.T) {
	ix := mustNew(t, 100)
	mustUpdate(t, ix, Element{ID: "a", Kind: KindNode, Bounds: rect(0, 0, 250, 250)})
	mustUpdate(t, ix, Element{ID: "b", Kind: KindNode, Bounds: rect(50, 50, 10, 10)})

	if !ix.Remove("a") {
		t.Fatal("Remove(a) = false, want true")
	}
	if got := ids(ix.QueryRect(rect(-1000, -1000, 5000, 5000))); !slices.Equal(got, []string{"b"}) {
		t.Errorf("QueryRect() after remove = %v, want [b]", got)
	}
	if got := ix.QueryPoint(geom.Pt[geom.World](200, 200), 0); len(got) != 0 {
		t.Errorf("QueryPoint() after remove = %v", ids(got))
	}
	total := 0
	for _, info := range ix.ActiveCellsInfo() {
		total += info.TotalCount
	}
	if total != 1 {
		t.Errorf("ActiveCellsInfo total = %d, want 1", total)
	}
	if _, ok := ix.Get("a"); ok {
		t.Error("Get(a) found removed element")
	}
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	ix := mustNew(t, 100)
	mustUpdate(t, ix, Element{ID: "a", Kind: KindNode, Bounds: rect(0, 0, 10, 10)})

	if ix.Remove("ghost") {
		t.Error("Remove(ghost) = true, want false")
	}
	if ix.Len() != 1 || ix.CellCount() != 1 {
		t.Errorf("state changed: Len=%d CellCount=%d", ix.Len(), ix.CellCount())
	}
}

func TestUpdateRejectsInvalidGeometry(t *testing.T) {
	ix := mustNew(t, 100, WithMaxCellsPerElement(64))
	good := rect(10, 10, 20, 20)
	mustUpdate(t, ix, Element{ID: "n", Kind: KindNode, Bounds: good})
	mustUpdate(t, ix, Element{ID: "other", Kind: KindNode, Bounds: rect(500, 500, 10, 10)})

	tests := []struct {
		name   string
		bounds geom.WorldRect
	}{
		{"NaN left", rect(math.NaN(), 0, 10, 10)},
		{"infinite width", rect(0, 0, math.Inf(1), 10)},
		{"negative height", rect(0, 0, 10, -5)},
		{"too many cells", rect(0, 0, 10000, 10000)},
		{"far from origin", rect(1e300, 0, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ix.Update(Element{ID: "n", Kind: KindNode, Bounds: tt.bounds})
			if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
				t.Fatalf("Update() error = %v, want %s", err, errors.ErrCodeInvalidGeometry)
			}
			got, ok := ix.Get("n")
			if !ok || got.Bounds != good {
				t.Errorf("Get(n) = %v, %v; want previous bounds %v", got, ok, good)
			}
			if ids := ids(ix.QueryRect(rect(0, 0, 50, 50))); !slices.Equal(ids, []string{"n"}) {
				t.Errorf("QueryRect() = %v, want [n]", ids)
			}
			if ix.Len() != 2 {
				t.Errorf("Len() = %d, want 2", ix.Len())
			}
		})
	}
}

func TestUpdateRejectsUnknownKind(t *testing.T) {
	ix := mustNew(t, 100)
	err := ix.Update(Element{ID: "x", Kind: Kind(7), Bounds: rect(0, 0, 10, 10)})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("Update() error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if ix.Len() != 0 || ix.CellCount() != 0 {
		t.Errorf("Len() = %d, CellCount() = %d; want 0, 0", ix.Len(), ix.CellCount())
	}
	if got := ix.QueryRect(rect(0, 0, 50, 50)); len(got) != 0 {
		t.Errorf("QueryRect() = %v, want none", ids(got))
	}
	if got := ix.ActiveCellsInfo(); len(got) != 0 {
		t.Errorf("ActiveCellsInfo() = %v, want none", got)
	}
}

func TestUpdateRejectsEmptyID(t *testing.T) {
	ix := mustNew(t, 100)
	err := ix.Update(Element{Kind: KindNode, Bounds: rect(0, 0, 1, 1)})
	if !errors.Is(err, errors.ErrCodeInvalidID) {
		t.Errorf("Update() error = %v, want %s", err, errors.ErrCodeInvalidID)
	}
	if ix.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ix.Len())
	}
}

func TestDegenerateQueries(t *testing.T) {
	ix := mustNew(t, 100)
	mustUpdate(t, ix, Element{ID: "a", Kind: KindNode, Bounds: rect(0, 0, 100, 100)})

	tests := []struct {
		name string
		q    geom.WorldRect
	}{
		{"zero area", rect(10, 10, 0, 0)},
		{"zero width", rect(10, 10, 0, 50)},
		{"negative", rect(50, 50, -20, -20)},
		{"NaN", rect(math.NaN(), 0, 10, 10)},
		{"infinite", rect(0, 0, math.Inf(1), 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ix.QueryRect(tt.q); len(got) != 0 {
				t.Errorf("QueryRect(%v) = %v, want empty", tt.q, ids(got))
			}
		})
	}
}

func TestBoundaryConvention(t *testing.T) {
	ix := mustNew(t, 100)
	// Right edge exactly on the x=100 cell line.
	mustUpdate(t, ix, Element{ID: "edge", Kind: KindNode, Bounds: rect(50, 10, 50, 20)})

	info := ix.ActiveCellsInfo()
	if len(info) != 2 || info[0].Cell != (Cell{0, 0}) || info[1].Cell != (Cell{1, 0}) {
		t.Fatalf("ActiveCellsInfo cells = %v, want [(0,0) (1,0)]", info)
	}

	// A rect starting exactly on the line touches the element's edge.
	if got := ids(ix.QueryRect(rect(100, 0, 10, 50))); !slices.Equal(got, []string{"edge"}) {
		t.Errorf("touching query = %v, want [edge]", got)
	}
	if got := ids(ix.QueryPoint(geom.Pt[geom.World](100, 20), 0)); !slices.Equal(got, []string{"edge"}) {
		t.Errorf("QueryPoint on edge = %v, want [edge]", got)
	}
	if got := ix.QueryRect(rect(100.5, 0, 10, 50)); len(got) != 0 {
		t.Errorf("disjoint query = %v, want empty", ids(got))
	}
}

func TestNoFalseNegatives(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	ix := mustNew(t, 64)

	var all []Element
	for i := 0; i < 400; i++ {
		b := rect(rng.Float64()*2000-1000, rng.Float64()*2000-1000, rng.Float64()*150, rng.Float64()*150)
		if i%7 == 0 {
			// Thin connection segments.
			b.Width = 0
		}
		e := Element{ID: idFor(i), Kind: Kind(i % 3), Bounds: b}
		mustUpdate(t, ix, e)
		all = append(all, e)
	}
	// Move a third of them to exercise the diff path.
	for i := 0; i < len(all); i += 3 {
		all[i].Bounds = all[i].Bounds.Translate(geom.Off[geom.World](rng.Float64()*300-150, rng.Float64()*300-150))
		mustUpdate(t, ix, all[i])
	}

	for q := 0; q < 200; q++ {
		query := rect(rng.Float64()*2400-1200, rng.Float64()*2400-1200, 1+rng.Float64()*400, 1+rng.Float64()*400)
		var want []string
		for _, e := range all {
			if e.Bounds.Intersects(query) {
				want = append(want, e.ID)
			}
		}
		slices.Sort(want)
		if got := ids(ix.QueryRect(query)); !slices.Equal(got, want) {
			t.Fatalf("QueryRect(%v) = %v, want %v", query, got, want)
		}
	}
}

func idFor(i int) string {
	const digits = "0123456789"
	return "e" + string(digits[i/100%10]) + string(digits[i/10%10]) + string(digits[i%10])
}

func TestQueryLargerThanOccupied(t *testing.T) {
	ix := mustNew(t, 10)
	mustUpdate(t, ix, Element{ID: "a", Kind: KindNode, Bounds: rect(5, 5, 1, 1)})
	mustUpdate(t, ix, Element{ID: "b", Kind: KindNode, Bounds: rect(1e6, 1e6, 1, 1)})

	got := ids(ix.QueryRect(rect(-1e9, -1e9, 2e9, 2e9)))
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("QueryRect(huge) = %v, want [a b]", got)
	}
	if got := ix.QueryRect(rect(1e300, 1e300, 1e10, 1e10)); len(got) != 0 {
		t.Errorf("QueryRect(far) = %v, want empty", ids(got))
	}
}

func TestQueryPoint(t *testing.T) {
	ix := mustNew(t, 100)
	mustUpdate(t, ix, Element{ID: "node", Kind: KindNode, Bounds: rect(0, 0, 120, 60)})
	mustUpdate(t, ix, Element{ID: "port", Kind: KindPort, Bounds: rect(115, 25, 10, 10)})
	mustUpdate(t, ix, Element{ID: "seg", Kind: KindConnection, Bounds: rect(125, 30, 200, 0)})

	tests := []struct {
		name string
		p    geom.WorldPosition
		tol  float64
		want []string
	}{
		{"inside node", geom.Pt[geom.World](10, 10), 0, []string{"node"}},
		{"on port", geom.Pt[geom.World](118, 30), 0, []string{"node", "port"}},
		{"on segment exactly", geom.Pt[geom.World](200, 30), 0, []string{"seg"}},
		{"near segment", geom.Pt[geom.World](200, 33), 5, []string{"seg"}},
		{"near segment no tolerance", geom.Pt[geom.World](200, 33), 0, nil},
		{"empty space", geom.Pt[geom.World](500, 500), 10, nil},
		{"NaN", geom.Pt[geom.World](math.NaN(), 0), 10, nil},
		{"negative tolerance inside node", geom.Pt[geom.World](10, 10), -1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(ix.QueryPoint(tt.p, tt.tol))
			if len(got) == 0 {
				got = nil
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("QueryPoint(%v, %v) = %v, want %v", tt.p, tt.tol, got, tt.want)
			}
		})
	}
}

func TestQueryPointMatchesQueryRect(t *testing.T) {
	ix := mustNew(t, 50)
	mustUpdate(t, ix, Element{ID: "a", Kind: KindNode, Bounds: rect(0, 0, 40, 40)})
	mustUpdate(t, ix, Element{ID: "b", Kind: KindNode, Bounds: rect(45, 0, 40, 40)})

	p := geom.Pt[geom.World](42, 20)
	got := ix.QueryPoint(p, 4)
	want := ix.QueryRect(geom.RectFromCenter(p, 8, 8))
	if !slices.Equal(got, want) {
		t.Errorf("QueryPoint = %v, QueryRect = %v", ids(got), ids(want))
	}
}

func TestQueryNearest(t *testing.T) {
	ix := mustNew(t, 100)
	mustUpdate(t, ix, Element{ID: "node", Kind: KindNode, Bounds: rect(0, 0, 120, 60)})
	mustUpdate(t, ix, Element{ID: "port", Kind: KindPort, Bounds: rect(115, 25, 10, 10)})
	mustUpdate(t, ix, Element{ID: "far", Kind: KindNode, Bounds: rect(400, 0, 50, 50)})

	tests := []struct {
		name    string
		p       geom.WorldPosition
		max     float64
		want    string
		wantHit bool
	}{
		{"port beats node", geom.Pt[geom.World](118, 30), 10, "port", true},
		{"closest edge", geom.Pt[geom.World](60, 70), 20, "node", true},
		{"right of port", geom.Pt[geom.World](130, 30), 10, "port", true},
		{"out of range", geom.Pt[geom.World](300, 300), 20, "", false},
		{"zero distance inside", geom.Pt[geom.World](420, 20), 0, "far", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ix.QueryNearest(tt.p, tt.max)
			if ok != tt.wantHit || got.ID != tt.want {
				t.Errorf("QueryNearest(%v, %v) = %q, %v; want %q, %v", tt.p, tt.max, got.ID, ok, tt.want, tt.wantHit)
			}
		})
	}
}

func TestClear(t *testing.T) {
	ix := mustNew(t, 100)
	mustUpdate(t, ix, Element{ID: "a", Kind: KindNode, Bounds: rect(0, 0, 500, 500)})
	ix.Clear()
	if ix.Len() != 0 || ix.CellCount() != 0 || len(ix.ActiveCellsInfo()) != 0 {
		t.Errorf("Clear() left Len=%d CellCount=%d", ix.Len(), ix.CellCount())
	}
	mustUpdate(t, ix, Element{ID: "a", Kind: KindNode, Bounds: rect(0, 0, 10, 10)})
	if ix.Len() != 1 {
		t.Errorf("Len() after reuse = %d, want 1", ix.Len())
	}
}
