// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about spatial index churn and topology
// analysis.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library free of observability frameworks
//   - Allows different backends (Prometheus in internal/metrics, tests, ...)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := metrics.New(reg)
//	    observability.SetIndexHooks(m)
//	    observability.SetTopologyHooks(m)
//	    // ... build indexes
//	}
//
// The spatial index captures [Index] when it is constructed, so its hot
// path never touches the registry lock. Topology helpers look hooks up per
// call.
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Index Hooks
// =============================================================================

// Query operation names passed to [IndexHooks.OnQuery].
const (
	QueryRect    = "rect"
	QueryPoint   = "point"
	QueryNearest = "nearest"
)

// IndexHooks receives events from a spatial index.
type IndexHooks interface {
	// OnUpdate records an insert or move. cellsChanged counts the cell
	// memberships added plus removed; err is non-nil when the element was
	// rejected.
	OnUpdate(kind string, cellsChanged int, err error)

	// OnRemove records a removal; found is false for unknown IDs.
	OnRemove(found bool)

	// OnQuery records a region query with the number of candidate cells
	// visited and the number of elements returned.
	OnQuery(op string, cellsScanned, results int)
}

// =============================================================================
// Topology Hooks
// =============================================================================

// TopologyHooks receives events from graph analysis.
type TopologyHooks interface {
	// OnAnalysis records one analysis pass (e.g. "cycles", "components")
	// over a graph with the given node count. found is the number of
	// cycles, components or orphans reported.
	OnAnalysis(op string, nodes, found int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopIndexHooks is a no-op implementation of IndexHooks.
type NoopIndexHooks struct{}

func (NoopIndexHooks) OnUpdate(string, int, error) {}
func (NoopIndexHooks) OnRemove(bool)               {}
func (NoopIndexHooks) OnQuery(string, int, int)    {}

// NoopTopologyHooks is a no-op implementation of TopologyHooks.
type NoopTopologyHooks struct{}

func (NoopTopologyHooks) OnAnalysis(string, int, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	indexHooks    IndexHooks    = NoopIndexHooks{}
	topologyHooks TopologyHooks = NoopTopologyHooks{}
	hooksMu       sync.RWMutex
)

// SetIndexHooks registers custom index hooks.
// Indexes created before the call keep the hooks they were built with.
func SetIndexHooks(h IndexHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		indexHooks = h
	}
}

// SetTopologyHooks registers custom topology hooks.
func SetTopologyHooks(h TopologyHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		topologyHooks = h
	}
}

// Index returns the registered index hooks.
func Index() IndexHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return indexHooks
}

// Topology returns the registered topology hooks.
func Topology() TopologyHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return topologyHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	indexHooks = NoopIndexHooks{}
	topologyHooks = NoopTopologyHooks{}
}
