// Package nodelink renders a diagram as a Graphviz node-link drawing.
//
// # Usage
//
// Convert a diagram to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Pinned: true, HighlightCycles: true})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.LayoutNeato)
//
// # Options
//
//   - Pinned: emit each node's world position as a fixed Graphviz position
//     so the drawing matches the canvas. Render pinned output with
//     [LayoutNeato]; [LayoutDot] ignores positions.
//   - HighlightCycles: draw nodes and connections on a directed cycle in red.
//   - Detailed: add bounds and port counts to node labels.
//
// World y grows downward and Graphviz y grows upward, so pinned positions
// are mirrored on the x axis.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz] in-process; no Graphviz
// installation is needed.
package nodelink
