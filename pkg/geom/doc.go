// Package geom provides the 2D coordinate types shared by the spatial index,
// the topology helpers, and the rendering side of the canvas.
//
// # Spaces
//
// Every value is tagged with the coordinate space it lives in:
//
//   - [World]: graph space, the pan/zoom invariant system node positions and
//     sizes are stored in.
//   - [Device]: screen space, the pixel system of the render surface.
//
// The tag is a phantom type parameter, so [Position][World] and
// [Position][Device] are distinct types and cannot be mixed in arithmetic.
// The only bridge between the two is [Viewport], which applies the current
// pan and zoom explicitly.
//
//	p := geom.Pt[geom.World](120, 40)
//	q := p.Add(geom.Off[geom.World](10, 0))
//	d := geom.Viewport{Zoom: 2}.PositionToDevice(q)
//
// # Value Semantics
//
// All types are small immutable structs; operations return new values.
// Division by zero follows IEEE-754 and yields ±Inf or NaN, so callers that
// feed values into the index or topology helpers check IsFinite first.
package geom
