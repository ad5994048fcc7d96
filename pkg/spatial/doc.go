// Package spatial provides a uniform-grid spatial hash over world-space
// rectangles, used for hit-testing, cursor-proximity lookup and render
// culling on the diagram canvas.
//
// # Overview
//
// The index divides world space into square cells of side GridSize
// (default [DefaultGridSize]). Every registered [Element] (a node, a port or
// one straight segment of a connection path) is recorded in each cell its
// bounding rect spans. Queries visit only the cells covered by the query
// region and then filter candidates against their stored bounds, so cost is
// proportional to the touched cells rather than to the index size.
//
//	ix, _ := spatial.New(spatial.DefaultGridSize)
//	_ = ix.Update(spatial.Element{ID: "a", Kind: spatial.KindNode, Bounds: r})
//	hits := ix.QueryRect(visible)
//
// # Cell Convention
//
// Cells are half-open: cell (cx, cy) covers [cx*g, (cx+1)*g) on each axis.
// Element bounds are closed, so an element spans cells
// floor(left/g)..floor(right/g). An element whose right edge lies exactly on
// a cell line is also registered in the next cell; any point inside the
// element therefore maps, via [Index.CellAt], to a cell the element is
// registered in.
//
// # Reverse Index
//
// Alongside the cell → members map the index keeps element → cell range.
// [Index.Update] diffs the old and new ranges and touches only the cells
// that changed; [Index.Remove] clears exactly the recorded range.
//
// # Ownership
//
// The index stores an element's ID, kind and a copy of its bounds. It never
// computes geometry: callers recompute bounds and call Update after every
// move or resize.
//
// # Concurrency
//
// Index is not safe for concurrent use. Mutations and queries must be
// serialized by the caller; there is no internal locking.
package spatial
