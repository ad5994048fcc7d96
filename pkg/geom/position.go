package geom

import (
	"fmt"
	"math"
)

// Position is an absolute point in space S.
type Position[S Space] struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Offset is a displacement in space S.
type Offset[S Space] struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Pt returns the position (x, y).
func Pt[S Space](x, y float64) Position[S] { return Position[S]{X: x, Y: y} }

// Off returns the offset (dx, dy).
func Off[S Space](dx, dy float64) Offset[S] { return Offset[S]{DX: dx, DY: dy} }

// Origin returns the zero position of space S.
func Origin[S Space]() Position[S] { return Position[S]{} }

// Add returns p displaced by o.
func (p Position[S]) Add(o Offset[S]) Position[S] { return Position[S]{X: p.X + o.DX, Y: p.Y + o.DY} }

// Sub returns the offset from q to p.
func (p Position[S]) Sub(q Position[S]) Offset[S] { return Offset[S]{DX: p.X - q.X, DY: p.Y - q.Y} }

// Offset returns the displacement of p from the origin.
func (p Position[S]) Offset() Offset[S] { return Offset[S]{DX: p.X, DY: p.Y} }

// DistanceTo returns the Euclidean distance between p and q.
func (p Position[S]) DistanceTo(q Position[S]) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// DistanceSquaredTo returns the squared distance between p and q without a sqrt.
func (p Position[S]) DistanceSquaredTo(q Position[S]) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// IsFinite reports whether both coordinates are neither NaN nor infinite.
func (p Position[S]) IsFinite() bool { return finite(p.X) && finite(p.Y) }

// IsZero reports whether p is the origin.
func (p Position[S]) IsZero() bool { return p.X == 0 && p.Y == 0 }

func (p Position[S]) String() string {
	return fmt.Sprintf("%sPosition(%.1f, %.1f)", spaceName[S](), p.X, p.Y)
}

// Lerp interpolates between a and b. t is not clamped, so values outside
// [0, 1] extrapolate along the line.
func Lerp[S Space](a, b Position[S], t float64) Position[S] {
	return a.Add(b.Sub(a).Scale(t))
}

// Add returns o + q.
func (o Offset[S]) Add(q Offset[S]) Offset[S] { return Offset[S]{DX: o.DX + q.DX, DY: o.DY + q.DY} }

// Sub returns o - q.
func (o Offset[S]) Sub(q Offset[S]) Offset[S] { return Offset[S]{DX: o.DX - q.DX, DY: o.DY - q.DY} }

// Neg returns -o.
func (o Offset[S]) Neg() Offset[S] { return Offset[S]{DX: -o.DX, DY: -o.DY} }

// Scale returns o * k.
func (o Offset[S]) Scale(k float64) Offset[S] { return Offset[S]{DX: o.DX * k, DY: o.DY * k} }

// Div returns o / k. Division by zero yields ±Inf or NaN components.
func (o Offset[S]) Div(k float64) Offset[S] { return Offset[S]{DX: o.DX / k, DY: o.DY / k} }

// Length returns the Euclidean norm of o.
func (o Offset[S]) Length() float64 { return math.Hypot(o.DX, o.DY) }

// LengthSquared returns the squared norm of o.
func (o Offset[S]) LengthSquared() float64 { return o.DX*o.DX + o.DY*o.DY }

// IsFinite reports whether both components are finite.
func (o Offset[S]) IsFinite() bool { return finite(o.DX) && finite(o.DY) }

// IsZero reports whether o is the zero displacement.
func (o Offset[S]) IsZero() bool { return o.DX == 0 && o.DY == 0 }

func (o Offset[S]) String() string {
	return fmt.Sprintf("%sOffset(%.1f, %.1f)", spaceName[S](), o.DX, o.DY)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
