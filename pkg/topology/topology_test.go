package topology

import (
	"slices"
	"sort"
	"testing"

	"github.com/matzehuels/nodecanvas/pkg/geom"
)

type testGraph struct {
	ids    []string
	out    map[string][]string
	in     map[string][]string
	bounds map[string]geom.WorldRect
}

func newTestGraph(nodes ...string) *testGraph {
	return &testGraph{
		ids:    nodes,
		out:    make(map[string][]string),
		in:     make(map[string][]string),
		bounds: make(map[string]geom.WorldRect),
	}
}

func (g *testGraph) edge(from, to string) *testGraph {
	g.out[from] = append(g.out[from], to)
	g.in[to] = append(g.in[to], from)
	return g
}

func (g *testGraph) removeEdge(from, to string) {
	g.out[from] = slices.DeleteFunc(g.out[from], func(s string) bool { return s == to })
	g.in[to] = slices.DeleteFunc(g.in[to], func(s string) bool { return s == from })
}

func (g *testGraph) NodeIDs() []string           { return g.ids }
func (g *testGraph) Children(id string) []string { return g.out[id] }
func (g *testGraph) Parents(id string) []string  { return g.in[id] }
func (g *testGraph) NodeBounds(id string) (geom.WorldRect, bool) {
	b, ok := g.bounds[id]
	return b, ok
}

// sortedSets normalizes cycles for comparison: each cycle as a sorted set,
// and the list of sets sorted.
func sortedSets(cs []Cycle) [][]string {
	out := make([][]string, len(cs))
	for i, c := range cs {
		s := slices.Clone([]string(c))
		slices.Sort(s)
		out[i] = s
	}
	sort.Slice(out, func(i, j int) bool { return slices.Compare(out[i], out[j]) < 0 })
	return out
}

func equalSets(a, b [][]string) bool {
	return slices.EqualFunc(a, b, func(x, y []string) bool { return slices.Equal(x, y) })
}

func TestDetectCycles(t *testing.T) {
	tests := []struct {
		name  string
		build func() *testGraph
		want  [][]string
	}{
		{
			name:  "Empty",
			build: func() *testGraph { return newTestGraph() },
		},
		{
			name:  "SingleNode",
			build: func() *testGraph { return newTestGraph("a") },
		},
		{
			name: "Chain",
			build: func() *testGraph {
				return newTestGraph("a", "b", "c", "d").edge("a", "b").edge("b", "c").edge("c", "d")
			},
		},
		{
			name: "TwoCycle",
			build: func() *testGraph {
				return newTestGraph("a", "b").edge("a", "b").edge("b", "a")
			},
			want: [][]string{{"a", "b"}},
		},
		{
			name: "SelfLoop",
			build: func() *testGraph {
				return newTestGraph("a").edge("a", "a")
			},
			want: [][]string{{"a"}},
		},
		{
			name: "TriangleWithIsolated",
			build: func() *testGraph {
				return newTestGraph("a", "b", "c", "d").edge("a", "b").edge("b", "c").edge("c", "a")
			},
			want: [][]string{{"a", "b", "c"}},
		},
		{
			name: "DisjointCycles",
			build: func() *testGraph {
				return newTestGraph("a", "b", "c", "d").
					edge("a", "b").edge("b", "a").
					edge("c", "d").edge("d", "c")
			},
			want: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name: "Diamond",
			//   a
			//  / \
			// b   c
			//  \ /
			//   d
			build: func() *testGraph {
				return newTestGraph("a", "b", "c", "d").
					edge("a", "b").edge("a", "c").edge("b", "d").edge("c", "d")
			},
		},
		{
			name: "TailsExcluded",
			// entry -> x -> y -> z -> x, z -> exit
			build: func() *testGraph {
				return newTestGraph("entry", "x", "y", "z", "exit").
					edge("entry", "x").edge("x", "y").edge("y", "z").edge("z", "x").edge("z", "exit")
			},
			want: [][]string{{"x", "y", "z"}},
		},
		{
			name: "ParallelEdgesCollapse",
			build: func() *testGraph {
				return newTestGraph("a", "b").edge("a", "b").edge("a", "b").edge("b", "a").edge("b", "a")
			},
			want: [][]string{{"a", "b"}},
		},
		{
			name: "SelfLoopInsideCycle",
			build: func() *testGraph {
				return newTestGraph("a", "b").edge("a", "b").edge("b", "b").edge("b", "a")
			},
			want: [][]string{{"a", "b"}, {"b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.build()
			got := sortedSets(DetectCycles(g))
			if !equalSets(got, tt.want) {
				t.Errorf("DetectCycles() = %v, want %v", got, tt.want)
			}
			if HasCycles(g) != (len(tt.want) > 0) {
				t.Errorf("HasCycles() = %v, want %v", HasCycles(g), len(tt.want) > 0)
			}
		})
	}
}

func TestDetectCyclesPathOrder(t *testing.T) {
	g := newTestGraph("a", "b", "c").edge("a", "b").edge("b", "c").edge("c", "a")
	cycles := DetectCycles(g)
	if len(cycles) != 1 || !slices.Equal(cycles[0], Cycle{"a", "b", "c"}) {
		t.Errorf("DetectCycles() = %v, want [[a b c]]", cycles)
	}
}

func TestDetectCyclesOverlapping(t *testing.T) {
	// Figure eight through hub: hub -> a -> hub, hub -> b -> hub.
	g := newTestGraph("hub", "a", "b").
		edge("hub", "a").edge("a", "hub").edge("hub", "b").edge("b", "hub")

	cycles := DetectCycles(g)
	if len(cycles) != 2 {
		t.Fatalf("DetectCycles() = %v, want 2 cycles", cycles)
	}
	for _, c := range cycles {
		if !c.Contains("hub") {
			t.Errorf("cycle %v does not contain hub", c)
		}
	}
}

func TestHasCyclesTracksEdgeRemoval(t *testing.T) {
	g := newTestGraph("a", "b").edge("a", "b").edge("b", "a")
	if !HasCycles(g) {
		t.Fatal("HasCycles() = false with a<->b")
	}
	g.removeEdge("b", "a")
	if HasCycles(g) {
		t.Error("HasCycles() = true after removing b->a")
	}
	g.edge("b", "a")
	if !HasCycles(g) {
		t.Error("HasCycles() = false after re-adding b->a")
	}
}

func TestDetectCyclesLongChain(t *testing.T) {
	const n = 5000
	ids := make([]string, n)
	for i := range ids {
		ids[i] = idOf(i)
	}
	g := newTestGraph(ids...)
	for i := 0; i < n-1; i++ {
		g.edge(ids[i], ids[i+1])
	}
	if HasCycles(g) {
		t.Fatal("HasCycles() = true on a chain")
	}
	g.edge(ids[n-1], ids[0])
	cycles := DetectCycles(g)
	if len(cycles) != 1 || len(cycles[0]) != n {
		t.Errorf("DetectCycles() found %d cycles, want one of length %d", len(cycles), n)
	}
}

func idOf(i int) string {
	b := []byte{'n', '0', '0', '0', '0'}
	for p := 4; p > 0; p-- {
		b[p] = byte('0' + i%10)
		i /= 10
	}
	return string(b)
}

func TestOrphanNodes(t *testing.T) {
	tests := []struct {
		name  string
		build func() *testGraph
		want  []string
	}{
		{"Empty", func() *testGraph { return newTestGraph() }, nil},
		{"AllOrphans", func() *testGraph { return newTestGraph("a", "b", "c") }, []string{"a", "b", "c"}},
		{"SelfLoopIsNotOrphan", func() *testGraph { return newTestGraph("a", "b").edge("a", "a") }, []string{"b"}},
		{
			"TriangleWithIsolated",
			func() *testGraph {
				return newTestGraph("a", "b", "c", "d").edge("a", "b").edge("b", "c").edge("c", "a")
			},
			[]string{"d"},
		},
		{"TargetOnly", func() *testGraph { return newTestGraph("a", "b").edge("a", "b") }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OrphanNodes(tt.build()); !slices.Equal(got, tt.want) {
				t.Errorf("OrphanNodes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComponents(t *testing.T) {
	g := newTestGraph("a", "b", "c", "d", "e", "f").
		edge("a", "b").
		edge("c", "b"). // joins c through b regardless of direction
		edge("e", "d").
		edge("f", "f")

	got := Components(g)
	want := [][]string{{"a", "b", "c"}, {"d", "e"}, {"f"}}
	if !equalSets(got, want) {
		t.Errorf("Components() = %v, want %v", got, want)
	}
	if IsConnected(g) {
		t.Error("IsConnected() = true, want false")
	}

	g.edge("b", "e").edge("d", "f")
	if !IsConnected(g) {
		t.Errorf("IsConnected() = false after joining, components %v", Components(g))
	}
}

func TestComponentsEdgeless(t *testing.T) {
	got := Components(newTestGraph("x", "y"))
	want := [][]string{{"x"}, {"y"}}
	if !equalSets(got, want) {
		t.Errorf("Components() = %v, want %v", got, want)
	}
	if len(Components(newTestGraph())) != 0 {
		t.Error("Components(empty) not empty")
	}
	if IsConnected(newTestGraph()) {
		t.Error("IsConnected(empty) = true")
	}
}

func TestSourcesAndSinks(t *testing.T) {
	g := newTestGraph("app", "lib", "core", "lonely").edge("app", "lib").edge("lib", "core")
	if got := Sources(g); !slices.Equal(got, []string{"app", "lonely"}) {
		t.Errorf("Sources() = %v", got)
	}
	if got := Sinks(g); !slices.Equal(got, []string{"core", "lonely"}) {
		t.Errorf("Sinks() = %v", got)
	}
}

func TestBounds(t *testing.T) {
	g := newTestGraph()
	if got := Bounds(g); got != (geom.WorldRect{}) {
		t.Errorf("Bounds(empty) = %v, want zero rect", got)
	}

	g = newTestGraph("a", "b", "c")
	g.bounds["a"] = geom.RectFromLTWH[geom.World](100, 100, 50, 50)
	g.bounds["b"] = geom.RectFromLTWH[geom.World](300, 80, 40, 20)
	g.bounds["c"] = geom.RectFromLTWH[geom.World](150, 400, 10, 10)

	want := geom.RectFromLTWH[geom.World](100, 80, 240, 330)
	if got := Bounds(g); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
	for id, b := range g.bounds {
		if got := Bounds(g).ExpandToInclude(b); got != want {
			t.Errorf("Bounds() does not contain %s", id)
		}
	}

	// A single node away from the origin must not be stretched to it.
	g = newTestGraph("solo")
	g.bounds["solo"] = geom.RectFromLTWH[geom.World](500, 500, 10, 10)
	if got := Bounds(g); got != g.bounds["solo"] {
		t.Errorf("Bounds(single) = %v, want %v", got, g.bounds["solo"])
	}
}
