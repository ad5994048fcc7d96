package geom

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned box in space S. Well-formed rects have
// non-negative Width and Height; [RectFromPoints] always produces one.
type Rect[S Space] struct {
	X      float64 `json:"x"` // left
	Y      float64 `json:"y"` // top
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromLTWH returns the rect with the given left, top, width and height.
func RectFromLTWH[S Space](left, top, width, height float64) Rect[S] {
	return Rect[S]{X: left, Y: top, Width: width, Height: height}
}

// RectFromPoints returns the smallest rect containing a and b, regardless of
// the order they are given in.
func RectFromPoints[S Space](a, b Position[S]) Rect[S] {
	l, r := math.Min(a.X, b.X), math.Max(a.X, b.X)
	t, bt := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect[S]{X: l, Y: t, Width: r - l, Height: bt - t}
}

// RectFromCenter returns the rect of size w×h centered on c.
func RectFromCenter[S Space](c Position[S], w, h float64) Rect[S] {
	return Rect[S]{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

func (r Rect[S]) Left() float64   { return r.X }
func (r Rect[S]) Top() float64    { return r.Y }
func (r Rect[S]) Right() float64  { return r.X + r.Width }
func (r Rect[S]) Bottom() float64 { return r.Y + r.Height }

func (r Rect[S]) TopLeft() Position[S]     { return Position[S]{X: r.X, Y: r.Y} }
func (r Rect[S]) TopRight() Position[S]    { return Position[S]{X: r.Right(), Y: r.Y} }
func (r Rect[S]) BottomLeft() Position[S]  { return Position[S]{X: r.X, Y: r.Bottom()} }
func (r Rect[S]) BottomRight() Position[S] { return Position[S]{X: r.Right(), Y: r.Bottom()} }

// Center returns the midpoint of r.
func (r Rect[S]) Center() Position[S] {
	return Position[S]{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Size returns the width and height of r as an offset.
func (r Rect[S]) Size() Offset[S] { return Offset[S]{DX: r.Width, DY: r.Height} }

// Area returns Width*Height, or 0 for empty rects.
func (r Rect[S]) Area() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.Width * r.Height
}

// IsEmpty reports whether r has no area.
func (r Rect[S]) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// IsFinite reports whether every component of r is finite.
func (r Rect[S]) IsFinite() bool {
	return finite(r.X) && finite(r.Y) && finite(r.Width) && finite(r.Height)
}

// Contains reports whether p lies inside r. Points on the boundary count.
func (r Rect[S]) Contains(p Position[S]) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Overlaps reports whether r and o share a region of positive area.
// Rects that only touch along an edge or corner do not overlap, and an
// empty rect overlaps nothing.
func (r Rect[S]) Overlaps(o Rect[S]) bool {
	return !r.IsEmpty() && !o.IsEmpty() &&
		r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Intersects reports whether the closed rects r and o have any point in
// common, including a shared edge. Unlike [Rect.Overlaps] it matches
// zero-thickness rects such as the bounds of a straight connection segment.
func (r Rect[S]) Intersects(o Rect[S]) bool {
	return r.X <= o.Right() && o.X <= r.Right() && r.Y <= o.Bottom() && o.Y <= r.Bottom()
}

// Intersect returns the common region of r and o, or the zero Rect when
// they do not overlap. The result always has positive area or is zero.
func (r Rect[S]) Intersect(o Rect[S]) Rect[S] {
	if !r.Overlaps(o) {
		return Rect[S]{}
	}
	l, t := math.Max(r.X, o.X), math.Max(r.Y, o.Y)
	rt, b := math.Min(r.Right(), o.Right()), math.Min(r.Bottom(), o.Bottom())
	return Rect[S]{X: l, Y: t, Width: rt - l, Height: b - t}
}

// ExpandToInclude returns the smallest rect containing both r and o.
func (r Rect[S]) ExpandToInclude(o Rect[S]) Rect[S] {
	l, t := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	rt, b := math.Max(r.Right(), o.Right()), math.Max(r.Bottom(), o.Bottom())
	return Rect[S]{X: l, Y: t, Width: rt - l, Height: b - t}
}

// Inflate grows r by delta on every side. A negative delta shrinks it.
func (r Rect[S]) Inflate(delta float64) Rect[S] {
	return Rect[S]{X: r.X - delta, Y: r.Y - delta, Width: r.Width + 2*delta, Height: r.Height + 2*delta}
}

// Deflate shrinks r by delta on every side; Deflate(d) == Inflate(-d).
func (r Rect[S]) Deflate(delta float64) Rect[S] { return r.Inflate(-delta) }

// Translate returns r moved by o.
func (r Rect[S]) Translate(o Offset[S]) Rect[S] {
	return Rect[S]{X: r.X + o.DX, Y: r.Y + o.DY, Width: r.Width, Height: r.Height}
}

func (r Rect[S]) String() string {
	return fmt.Sprintf("%sRect(%.1f, %.1f, %.1f, %.1f)", spaceName[S](), r.X, r.Y, r.Width, r.Height)
}
