// Package metrics exports spatial index and topology activity to Prometheus.
//
// A [Collector] implements both observability hook interfaces. Register it
// once at startup:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	observability.SetIndexHooks(m)
//	observability.SetTopologyHooks(m)
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "nodecanvas"

// Collector holds the nodecanvas metric vectors.
type Collector struct {
	updates       *prometheus.CounterVec
	cellsChanged  prometheus.Counter
	removes       *prometheus.CounterVec
	queries       *prometheus.CounterVec
	cellsScanned  *prometheus.HistogramVec
	queryResults  *prometheus.HistogramVec
	analyses      *prometheus.CounterVec
	analysisTime  *prometheus.HistogramVec
	indexElements prometheus.Gauge
	indexCells    prometheus.Gauge
}

// New creates a Collector and registers its metrics with reg. It panics if
// the metrics are already registered there, like prometheus.MustRegister.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		updates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "index_updates_total",
				Help:      "Spatial index updates by element kind and outcome",
			},
			[]string{"kind", "result"},
		),
		cellsChanged: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "index_cells_changed_total",
				Help:      "Cell memberships added or removed by index updates",
			},
		),
		removes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "index_removes_total",
				Help:      "Spatial index removals by whether the element was present",
			},
			[]string{"found"},
		),
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "index_queries_total",
				Help:      "Spatial index queries by operation",
			},
			[]string{"op"},
		),
		cellsScanned: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "index_query_cells_scanned",
				Help:      "Candidate cells visited per query",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"op"},
		),
		queryResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "index_query_results",
				Help:      "Elements returned per query",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"op"},
		),
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "topology_analyses_total",
				Help:      "Graph analysis passes by operation",
			},
			[]string{"op"},
		),
		analysisTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "topology_analysis_seconds",
				Help:      "Duration of graph analysis passes",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		indexElements: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "index_elements",
				Help:      "Elements currently held by the spatial index",
			},
		),
		indexCells: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "index_cells",
				Help:      "Occupied cells in the spatial index",
			},
		),
	}
	reg.MustRegister(
		c.updates, c.cellsChanged, c.removes, c.queries, c.cellsScanned,
		c.queryResults, c.analyses, c.analysisTime, c.indexElements, c.indexCells,
	)
	return c
}

// OnUpdate implements observability.IndexHooks.
func (c *Collector) OnUpdate(kind string, cellsChanged int, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	c.updates.WithLabelValues(kind, result).Inc()
	c.cellsChanged.Add(float64(cellsChanged))
}

// OnRemove implements observability.IndexHooks.
func (c *Collector) OnRemove(found bool) {
	c.removes.WithLabelValues(strconv.FormatBool(found)).Inc()
}

// OnQuery implements observability.IndexHooks.
func (c *Collector) OnQuery(op string, cellsScanned, results int) {
	c.queries.WithLabelValues(op).Inc()
	c.cellsScanned.WithLabelValues(op).Observe(float64(cellsScanned))
	c.queryResults.WithLabelValues(op).Observe(float64(results))
}

// OnAnalysis implements observability.TopologyHooks.
func (c *Collector) OnAnalysis(op string, _ int, _ int, d time.Duration) {
	c.analyses.WithLabelValues(op).Inc()
	c.analysisTime.WithLabelValues(op).Observe(d.Seconds())
}

// SetIndexSize publishes the current element and occupied cell counts.
func (c *Collector) SetIndexSize(elements, cells int) {
	c.indexElements.Set(float64(elements))
	c.indexCells.Set(float64(cells))
}
