// Package scene reads and writes diagram scene files.
//
// A scene file describes canvas settings plus the nodes, ports and
// connections of a diagram. TOML and JSON are supported; the format is
// picked from the file extension.
//
//	[canvas]
//	grid_size = 250.0
//	segment_slop = 4.0
//
//	[[nodes]]
//	id = "a"
//	x = 0.0
//	y = 0.0
//	width = 120.0
//	height = 60.0
//
//	  [[nodes.ports]]
//	  id = "a.out"
//	  dx = 120.0
//	  dy = 30.0
//
//	[[connections]]
//	from = "a.out"
//	to = "b.in"
//	waypoints = [[200.0, 30.0]]
//
// Port offsets are relative to the node's top-left corner. Nodes, ports
// and connections without an id get a random UUID when the scene is built.
//
// Unknown keys are rejected so that typos in a hand-written scene surface
// as errors instead of silently falling back to defaults.
package scene
