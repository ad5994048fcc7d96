// Package pkg provides the core libraries for nodecanvas, the model layer of
// a node-and-connection diagram editor.
//
// # Overview
//
// Editors redraw and hit-test on every pointer move, so they need cheap
// answers to "what is under the cursor?" and "what is visible?", plus
// structural checks on the diagram graph. The pkg directory is organized
// bottom-up:
//
//  1. [geom] - World and device coordinates as distinct types
//  2. [spatial] - Uniform-grid spatial hash over world-space rects
//  3. [topology] - Cycle, orphan, component and bounds analysis
//  4. [diagram] - Node/port/connection snapshot feeding both of the above
//  5. [scene] - TOML/JSON scene files
//  6. [render/nodelink] - Graphviz export
//
// # Architecture
//
// The typical data flow:
//
//	scene file
//	     ↓
//	[scene] Load + Build
//	     ↓
//	[diagram] Graph ──Elements/Sync──→ [spatial] Index  (hit-testing, culling)
//	     │
//	     └──────────────────────────→ [topology]        (cycles, orphans, bounds)
//
// # Quick Start
//
//	s, _ := scene.Load("flow.toml")
//	g, _ := s.Build()
//	ix, _ := spatial.New(spatial.DefaultGridSize)
//	_ = diagram.Sync(ix, g.Elements())
//
//	hits := ix.QueryPoint(geom.Pt[geom.World](120, 40), 4)
//	cycles := topology.DetectCycles(g)
//
// After a drag, re-sync only what moved:
//
//	_ = g.MoveNode("a", delta)
//	_ = diagram.Sync(ix, g.NodeElements("a"))
//
// # Supporting Packages
//
//   - [errors]: coded errors shared by the CLI and debug server
//   - [observability]: metric hooks, implemented with Prometheus in internal/metrics
//   - [buildinfo]: version info injected at build time
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/nodecanvas/pkg/geom
// [spatial]: https://pkg.go.dev/github.com/matzehuels/nodecanvas/pkg/spatial
// [topology]: https://pkg.go.dev/github.com/matzehuels/nodecanvas/pkg/topology
// [diagram]: https://pkg.go.dev/github.com/matzehuels/nodecanvas/pkg/diagram
// [scene]: https://pkg.go.dev/github.com/matzehuels/nodecanvas/pkg/scene
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/nodecanvas/pkg/render/nodelink
// [errors]: https://pkg.go.dev/github.com/matzehuels/nodecanvas/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/nodecanvas/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/nodecanvas/pkg/buildinfo
package pkg
