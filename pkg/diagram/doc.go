// Package diagram holds a node/port/connection snapshot of an editor canvas
// and translates it into the two derived views the rest of nodecanvas
// works on: spatial index elements and a directed node graph.
//
// # Model
//
// A [Node] has world-space bounds. A [Port] is anchored to a node at an
// offset from the node's top-left corner, so moving the node moves its
// ports. A [Connection] runs from a source port through optional waypoints
// to a target port; every straight piece of that path is indexed as one
// connection segment with ID "<connection>#<n>".
//
//	g := diagram.New()
//	_ = g.AddNode(diagram.Node{ID: "a", Bounds: geom.RectFromLTWH[geom.World](0, 0, 120, 60)})
//	_ = g.AddPort(diagram.Port{ID: "a.out", NodeID: "a", Anchor: geom.Off[geom.World](120, 30), Size: 10})
//
// # Keeping the Index in Sync
//
// Graph never reaches into an index itself. Mutating methods return the
// IDs or elements whose geometry changed and the caller forwards them:
//
//	_ = g.MoveNode("a", delta)
//	_ = diagram.Sync(ix, g.NodeElements("a"))
//
// # Topology
//
// Graph implements topology.BoundedGraph: edges run from the node owning a
// connection's source port to the node owning its target port.
//
// # Concurrency
//
// Graph is not safe for concurrent use without external synchronization.
package diagram
