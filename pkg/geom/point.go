package geom

import (
	"fmt"
	"math"
)

// Point is a position in the drawing plane, in canonical units.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Vector is a displacement in the drawing plane.
type Vector struct {
	DX, DY float64
}

// Vec is shorthand for Vector{DX: dx, DY: dy}.
func Vec(dx, dy float64) Vector {
	return Vector{DX: dx, DY: dy}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Add translates p by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.DX, Y: p.Y + v.DY}
}

// Sub returns the vector q->p.
func (p Point) Sub(q Point) Vector {
	return Vector{DX: p.X - q.X, DY: p.Y - q.Y}
}

// VectorTo returns the vector p->q.
func (p Point) VectorTo(q Point) Vector {
	return q.Sub(p)
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// AngleTo returns the direction angle, in radians, of the vector p->q.
func (p Point) AngleTo(q Point) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X)
}

// Rotate rotates p by angle radians (counter-clockwise) about center.
func (p Point) Rotate(angle float64, center Point) Point {
	return center.Add(p.Sub(center).Rotate(angle))
}

// Lerp returns p + t*(q-p). t is not clamped: values outside [0,1]
// extrapolate along the line through p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Equal reports whether p and q are within tolerance of each other.
func (p Point) Equal(q Point, tol Tolerance) bool {
	return p.DistanceTo(q) <= tol.Epsilon
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

func (v Vector) String() string {
	return fmt.Sprintf("<%g, %g>", v.DX, v.DY)
}

// Add returns v+w.
func (v Vector) Add(w Vector) Vector {
	return Vector{DX: v.DX + w.DX, DY: v.DY + w.DY}
}

// Sub returns v-w.
func (v Vector) Sub(w Vector) Vector {
	return Vector{DX: v.DX - w.DX, DY: v.DY - w.DY}
}

// Scale returns v*s.
func (v Vector) Scale(s float64) Vector {
	return Vector{DX: v.DX * s, DY: v.DY * s}
}

// Neg returns -v.
func (v Vector) Neg() Vector {
	return Vector{DX: -v.DX, DY: -v.DY}
}

// Dot returns the dot product.
func (v Vector) Dot(w Vector) float64 {
	return v.DX*w.DX + v.DY*w.DY
}

// Cross returns the z-component of the 3D cross product of v and w.
// Positive when w is counter-clockwise from v.
func (v Vector) Cross(w Vector) float64 {
	return v.DX*w.DY - v.DY*w.DX
}

// Length returns |v|.
func (v Vector) Length() float64 {
	return math.Hypot(v.DX, v.DY)
}

// LengthSq returns |v|^2.
func (v Vector) LengthSq() float64 {
	return v.DX*v.DX + v.DY*v.DY
}

// Normalize returns the unit vector along v. Vectors no longer than
// epsilon have no direction and yield DegenerateVector.
func (v Vector) Normalize(tol Tolerance) (Vector, error) {
	l := v.Length()
	if l <= tol.Epsilon {
		return Vector{}, Errorf(DegenerateVector, "geom.Normalize", "vector %s has length %g", v, l)
	}
	return Vector{DX: v.DX / l, DY: v.DY / l}, nil
}

// Perp returns v rotated 90 degrees counter-clockwise.
func (v Vector) Perp() Vector {
	return Vector{DX: -v.DY, DY: v.DX}
}

// Rotate rotates v by angle radians counter-clockwise.
func (v Vector) Rotate(angle float64) Vector {
	sin, cos := math.Sincos(angle)
	return Vector{
		DX: v.DX*cos - v.DY*sin,
		DY: v.DX*sin + v.DY*cos,
	}
}

// Angle returns the direction of v in radians, in (-pi, pi].
func (v Vector) Angle() float64 {
	return math.Atan2(v.DY, v.DX)
}

// AngleTo returns the signed angle from v to w in (-pi, pi].
func (v Vector) AngleTo(w Vector) float64 {
	return math.Atan2(v.Cross(w), v.Dot(w))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
