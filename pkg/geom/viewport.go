package geom

import "fmt"

// Viewport maps world space onto device space: device = world*Zoom + Pan.
// It is the only sanctioned conversion between the two spaces.
type Viewport struct {
	Pan  Offset[Device]
	Zoom float64
}

// NewViewport returns a viewport with the given pan and zoom. Zoom must be a
// finite positive number.
func NewViewport(pan Offset[Device], zoom float64) (Viewport, error) {
	if !finite(zoom) || zoom <= 0 {
		return Viewport{}, fmt.Errorf("viewport zoom must be positive and finite, got %v", zoom)
	}
	if !pan.IsFinite() {
		return Viewport{}, fmt.Errorf("viewport pan must be finite, got %s", pan)
	}
	return Viewport{Pan: pan, Zoom: zoom}, nil
}

// PositionToDevice converts a world position to device space.
func (v Viewport) PositionToDevice(p Position[World]) Position[Device] {
	return Position[Device]{X: p.X*v.Zoom + v.Pan.DX, Y: p.Y*v.Zoom + v.Pan.DY}
}

// PositionToWorld converts a device position to world space.
func (v Viewport) PositionToWorld(p Position[Device]) Position[World] {
	return Position[World]{X: (p.X - v.Pan.DX) / v.Zoom, Y: (p.Y - v.Pan.DY) / v.Zoom}
}

// RectToDevice converts a world rect to device space.
func (v Viewport) RectToDevice(r Rect[World]) Rect[Device] {
	tl := v.PositionToDevice(r.TopLeft())
	return Rect[Device]{X: tl.X, Y: tl.Y, Width: r.Width * v.Zoom, Height: r.Height * v.Zoom}
}

// RectToWorld converts a device rect to world space. Render culling uses it
// to turn the visible surface into an index query.
func (v Viewport) RectToWorld(r Rect[Device]) Rect[World] {
	tl := v.PositionToWorld(r.TopLeft())
	return Rect[World]{X: tl.X, Y: tl.Y, Width: r.Width / v.Zoom, Height: r.Height / v.Zoom}
}
