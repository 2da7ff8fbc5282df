package geom

import (
	"fmt"
	"math"
)

// Curve is a closed set of shapes usable as trim/extend targets and as
// intersection operands. Only Segment and Circle implement it.
type Curve interface {
	curve() // marker method restricting implementations to this package
}

// ---------------------------------------------------------------------------
// Segment
// ---------------------------------------------------------------------------

// End names one endpoint of a segment.
type End int

const (
	EndA End = iota
	EndB
)

// Other returns the opposite endpoint.
func (e End) Other() End {
	if e == EndA {
		return EndB
	}
	return EndA
}

func (e End) String() string {
	switch e {
	case EndA:
		return "a"
	case EndB:
		return "b"
	default:
		return fmt.Sprintf("End(%d)", int(e))
	}
}

// ParseEnd accepts "a" or "b".
func ParseEnd(s string) (End, error) {
	switch s {
	case "a", "A":
		return EndA, nil
	case "b", "B":
		return EndB, nil
	}
	return 0, fmt.Errorf("invalid endpoint %q, expected a or b", s)
}

// Segment is a bounded line from A to B. Its parameter t runs from 0 at A
// to 1 at B and is unbounded on the supporting line.
type Segment struct {
	A, B Point
}

func (Segment) curve() {}

// NewSegment validates that a and b are further apart than epsilon.
func NewSegment(a, b Point, tol Tolerance) (Segment, error) {
	if !a.IsFinite() || !b.IsFinite() {
		return Segment{}, Errorf(DegenerateGeometry, "geom.NewSegment", "non-finite endpoint %s-%s", a, b)
	}
	if a.DistanceTo(b) <= tol.Epsilon {
		return Segment{}, Errorf(DegenerateGeometry, "geom.NewSegment", "zero-length segment at %s", a)
	}
	return Segment{A: a, B: b}, nil
}

// Seg is NewSegment with coordinates, for literals known to be valid.
// It panics on a degenerate segment.
func Seg(x1, y1, x2, y2 float64) Segment {
	s, err := NewSegment(Pt(x1, y1), Pt(x2, y2), DefaultTolerance)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Segment) String() string {
	return fmt.Sprintf("[%s-%s]", s.A, s.B)
}

// Validate checks the segment invariant.
func (s Segment) Validate(tol Tolerance) error {
	_, err := NewSegment(s.A, s.B, tol)
	return err
}

// Direction returns B-A.
func (s Segment) Direction() Vector {
	return s.B.Sub(s.A)
}

// Length returns |B-A|.
func (s Segment) Length() float64 {
	return s.A.DistanceTo(s.B)
}

// PointAt returns A + t*(B-A).
func (s Segment) PointAt(t float64) Point {
	return s.A.Lerp(s.B, t)
}

// Param returns the parameter of the orthogonal projection of p onto the
// supporting line. It is not clamped to [0,1].
func (s Segment) Param(p Point) float64 {
	d := s.Direction()
	l2 := d.LengthSq()
	if l2 == 0 {
		return 0
	}
	return p.Sub(s.A).Dot(d) / l2
}

// Project returns the foot of the perpendicular from p to the supporting line.
func (s Segment) Project(p Point) Point {
	return s.PointAt(s.Param(p))
}

// DistanceToLine returns the perpendicular distance from p to the
// supporting line.
func (s Segment) DistanceToLine(p Point) float64 {
	l := s.Length()
	if l == 0 {
		return p.DistanceTo(s.A)
	}
	return math.Abs(s.Direction().Cross(p.Sub(s.A))) / l
}

// Side reports which side of the directed line A->B p lies on: +1 left,
// -1 right, 0 within epsilon of the line.
func (s Segment) Side(p Point, tol Tolerance) int {
	l := s.Length()
	if l == 0 {
		return 0
	}
	c := s.Direction().Cross(p.Sub(s.A)) / l
	switch {
	case c > tol.Epsilon:
		return 1
	case c < -tol.Epsilon:
		return -1
	default:
		return 0
	}
}

// Contains reports whether p lies on the bounded segment within tolerance.
func (s Segment) Contains(p Point, tol Tolerance) bool {
	if s.DistanceToLine(p) > tol.Epsilon {
		return false
	}
	t := s.Param(p)
	slack := tol.Slack(s.Length())
	return t >= -slack && t <= 1+slack
}

// Endpoint returns A or B.
func (s Segment) Endpoint(e End) Point {
	if e == EndA {
		return s.A
	}
	return s.B
}

// WithEndpoint returns a new segment with endpoint e replaced by p.
func (s Segment) WithEndpoint(e End, p Point, tol Tolerance) (Segment, error) {
	if e == EndA {
		return NewSegment(p, s.B, tol)
	}
	return NewSegment(s.A, p, tol)
}

// Reversed swaps A and B.
func (s Segment) Reversed() Segment {
	return Segment{A: s.B, B: s.A}
}

// Equal compares endpoints pairwise within tolerance.
func (s Segment) Equal(o Segment, tol Tolerance) bool {
	return s.A.Equal(o.A, tol) && s.B.Equal(o.B, tol)
}

// ---------------------------------------------------------------------------
// Circle
// ---------------------------------------------------------------------------

// Circle is a full circle. Angles are measured counter-clockwise from +X.
type Circle struct {
	Center Point
	R      float64
}

func (Circle) curve() {}

// NewCircle validates that r exceeds epsilon.
func NewCircle(c Point, r float64, tol Tolerance) (Circle, error) {
	if !c.IsFinite() || !isFinite(r) {
		return Circle{}, Errorf(DegenerateGeometry, "geom.NewCircle", "non-finite circle %s r=%v", c, r)
	}
	if r <= tol.Epsilon {
		return Circle{}, Errorf(DegenerateGeometry, "geom.NewCircle", "radius %g must be positive", r)
	}
	return Circle{Center: c, R: r}, nil
}

func (c Circle) String() string {
	return fmt.Sprintf("circle(%s, r=%g)", c.Center, c.R)
}

// Validate checks the circle invariant.
func (c Circle) Validate(tol Tolerance) error {
	_, err := NewCircle(c.Center, c.R, tol)
	return err
}

// PointAt returns the point of the circle at the given angle.
func (c Circle) PointAt(angle float64) Point {
	sin, cos := math.Sincos(angle)
	return Point{X: c.Center.X + c.R*cos, Y: c.Center.Y + c.R*sin}
}

// AngleOf returns the angle of p as seen from the center.
func (c Circle) AngleOf(p Point) float64 {
	return c.Center.AngleTo(p)
}

// Contains reports whether p lies on the circle within tolerance.
func (c Circle) Contains(p Point, tol Tolerance) bool {
	return math.Abs(c.Center.DistanceTo(p)-c.R) <= tol.Epsilon
}

// Equal compares centers and radii within tolerance.
func (c Circle) Equal(o Circle, tol Tolerance) bool {
	return c.Center.Equal(o.Center, tol) && tol.Equal(c.R, o.R)
}

// ---------------------------------------------------------------------------
// FilletArc
// ---------------------------------------------------------------------------

// FilletArc is the tangent arc produced by the fillet solver. It runs from
// T1 (on the first segment) to T2 (on the second) along the minor arc.
type FilletArc struct {
	Center Point
	R      float64
	T1, T2 Point
}

func (a FilletArc) String() string {
	return fmt.Sprintf("arc(%s, r=%g, %s->%s)", a.Center, a.R, a.T1, a.T2)
}

// Validate checks that both tangent points lie on the arc's circle.
func (a FilletArc) Validate(tol Tolerance) error {
	if a.R <= tol.Epsilon || !isFinite(a.R) {
		return Errorf(DegenerateGeometry, "geom.FilletArc", "radius %g must be positive", a.R)
	}
	if d := a.Center.DistanceTo(a.T1); math.Abs(d-a.R) > tol.Epsilon {
		return Errorf(DegenerateGeometry, "geom.FilletArc", "t1 is %g from center, radius %g", d, a.R)
	}
	if d := a.Center.DistanceTo(a.T2); math.Abs(d-a.R) > tol.Epsilon {
		return Errorf(DegenerateGeometry, "geom.FilletArc", "t2 is %g from center, radius %g", d, a.R)
	}
	return nil
}

// StartAngle is the angle of T1 about the center.
func (a FilletArc) StartAngle() float64 {
	return a.Center.AngleTo(a.T1)
}

// EndAngle is the angle of T2 about the center.
func (a FilletArc) EndAngle() float64 {
	return a.Center.AngleTo(a.T2)
}

// Sweep is the signed angle from T1 to T2 along the minor arc, in
// (-pi, pi]. Positive sweeps run counter-clockwise.
func (a FilletArc) Sweep() float64 {
	return a.T1.Sub(a.Center).AngleTo(a.T2.Sub(a.Center))
}

// Length returns the arc length.
func (a FilletArc) Length() float64 {
	return math.Abs(a.Sweep()) * a.R
}

// PointAt returns the point at fraction f of the sweep, f in [0,1].
func (a FilletArc) PointAt(f float64) Point {
	return Circle{Center: a.Center, R: a.R}.PointAt(a.StartAngle() + f*a.Sweep())
}

// Midpoint returns the point halfway along the arc.
func (a FilletArc) Midpoint() Point {
	return a.PointAt(0.5)
}

// Circle returns the full circle the arc lies on.
func (a FilletArc) Circle() Circle {
	return Circle{Center: a.Center, R: a.R}
}

// Equal compares all four fields within tolerance.
func (a FilletArc) Equal(o FilletArc, tol Tolerance) bool {
	return a.Center.Equal(o.Center, tol) && tol.Equal(a.R, o.R) &&
		a.T1.Equal(o.T1, tol) && a.T2.Equal(o.T2, tol)
}
