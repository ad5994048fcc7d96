package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/observability"
	"github.com/matzehuels/nodecanvas/pkg/spatial"
)

var (
	_ observability.IndexHooks    = (*Collector)(nil)
	_ observability.TopologyHooks = (*Collector)(nil)
)

func TestCollectorCounts(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.OnUpdate("node", 4, nil)
	c.OnUpdate("node", 0, errors.New("bad"))
	c.OnUpdate("port", 1, nil)
	c.OnRemove(true)
	c.OnRemove(false)
	c.OnRemove(false)
	c.OnQuery(observability.QueryRect, 9, 2)
	c.OnAnalysis("cycles", 10, 1, time.Millisecond)
	c.SetIndexSize(12, 5)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"node ok", testutil.ToFloat64(c.updates.WithLabelValues("node", "ok")), 1},
		{"node rejected", testutil.ToFloat64(c.updates.WithLabelValues("node", "rejected")), 1},
		{"cells changed", testutil.ToFloat64(c.cellsChanged), 5},
		{"removes found", testutil.ToFloat64(c.removes.WithLabelValues("true")), 1},
		{"removes missing", testutil.ToFloat64(c.removes.WithLabelValues("false")), 2},
		{"rect queries", testutil.ToFloat64(c.queries.WithLabelValues("rect")), 1},
		{"cycle analyses", testutil.ToFloat64(c.analyses.WithLabelValues("cycles")), 1},
		{"elements", testutil.ToFloat64(c.indexElements), 12},
		{"cells", testutil.ToFloat64(c.indexCells), 5},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestCollectorAsIndexHooks(t *testing.T) {
	c := New(prometheus.NewRegistry())
	ix, err := spatial.New(100, spatial.WithHooks(c))
	if err != nil {
		t.Fatal(err)
	}

	_ = ix.Update(spatial.Element{ID: "a", Kind: spatial.KindNode, Bounds: geom.RectFromLTWH[geom.World](0, 0, 150, 50)})
	ix.QueryPoint(geom.Pt[geom.World](10, 10), 0)
	ix.Remove("a")

	if got := testutil.ToFloat64(c.updates.WithLabelValues("node", "ok")); got != 1 {
		t.Errorf("node updates = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.cellsChanged); got != 2 {
		t.Errorf("cells changed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.queries.WithLabelValues("point")); got != 1 {
		t.Errorf("point queries = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.removes.WithLabelValues("true")); got != 1 {
		t.Errorf("removes = %v, want 1", got)
	}
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("second New() on the same registry should panic")
		}
	}()
	New(reg)
}
