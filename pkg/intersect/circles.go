package intersect

import (
	"math"

	"github.com/chazu/lvcad/pkg/geom"
)

// LineCircle intersects the line supporting s with circle c. Hits are
// ordered by increasing segment parameter T; S is the angle of the hit
// about the circle's center.
//
// Substituting the parametric line into the circle equation gives a
// quadratic whose discriminant is proportional to r^2 - h^2, where h is the
// distance from the center to the line. The classification compares h
// against r with the epsilon band so that the test is in length units:
// h > r+eps has no solution, |h-r| <= eps is a tangency.
func LineCircle(s geom.Segment, c geom.Circle, tol geom.Tolerance) (Result, error) {
	l := s.Length()
	u, err := s.Direction().Normalize(tol)
	if err != nil {
		return Result{}, geom.Errorf(geom.DegenerateGeometry, "intersect.LineCircle", "segment %s has no direction", s)
	}
	if c.R <= tol.Epsilon {
		return Result{}, geom.Errorf(geom.DegenerateGeometry, "intersect.LineCircle", "radius %g must be positive", c.R)
	}

	w := c.Center.Sub(s.A)
	m := w.Dot(u)             // distance along the line to the foot of the perpendicular
	h := math.Abs(u.Cross(w)) // distance from the center to the line
	slack := tol.Slack(l)

	hitAt := func(dist float64) Hit {
		p := s.A.Add(u.Scale(dist))
		t := dist / l
		return Hit{P: p, T: t, S: c.AngleOf(p), OnFirst: inRange(t, slack), OnSecond: true}
	}

	switch {
	case h > c.R+tol.Epsilon:
		return Result{Kind: None, Relation: Separate}, nil
	case math.Abs(h-c.R) <= tol.Epsilon:
		return Result{Kind: Point, Relation: Tangent, Hits: []Hit{hitAt(m)}}, nil
	}

	half := math.Sqrt(c.R*c.R - h*h)
	return Result{
		Kind:     TwoPoints,
		Relation: Secant,
		Hits:     []Hit{hitAt(m - half), hitAt(m + half)},
	}, nil
}

// Circles intersects two circles. The classification follows the center
// distance d against r1+r2 and |r1-r2| with epsilon bands, checked in this
// order: coincident, separate, external tangency, concentric or contained,
// internal tangency, and finally two points by the radical line.
func Circles(c1, c2 geom.Circle, tol geom.Tolerance) (Result, error) {
	if c1.R <= tol.Epsilon || c2.R <= tol.Epsilon {
		return Result{}, geom.Errorf(geom.DegenerateGeometry, "intersect.Circles", "radii %g, %g must be positive", c1.R, c2.R)
	}

	v := c2.Center.Sub(c1.Center)
	d := v.Length()
	sum := c1.R + c2.R
	diff := math.Abs(c1.R - c2.R)

	if d <= tol.Epsilon && diff <= tol.Epsilon {
		return Result{Kind: Overlapping, Relation: Coincident}, nil
	}
	if d > sum+tol.Epsilon {
		return Result{Kind: None, Relation: Separate}, nil
	}

	hitAt := func(p geom.Point) Hit {
		return Hit{P: p, T: c1.AngleOf(p), S: c2.AngleOf(p), OnFirst: true, OnSecond: true}
	}

	if math.Abs(d-sum) <= tol.Epsilon {
		u := v.Scale(1 / d)
		// Average the touch point as seen from both centers so the result
		// does not depend on operand order.
		p := c1.Center.Add(u.Scale(c1.R)).Lerp(c2.Center.Add(u.Scale(-c2.R)), 0.5)
		return Result{Kind: Point, Relation: ExternalTangent, Hits: []Hit{hitAt(p)}}, nil
	}
	if d <= tol.Epsilon || d < diff-tol.Epsilon {
		return Result{Kind: None, Relation: Contained}, nil
	}
	if math.Abs(diff-d) <= tol.Epsilon {
		u := v.Scale(1 / d)
		sign := 1.0
		if c1.R < c2.R {
			sign = -1
		}
		p := c1.Center.Add(u.Scale(sign * c1.R)).Lerp(c2.Center.Add(u.Scale(sign*c2.R)), 0.5)
		return Result{Kind: Point, Relation: InternalTangent, Hits: []Hit{hitAt(p)}}, nil
	}

	u := v.Scale(1 / d)
	a := (d*d + c1.R*c1.R - c2.R*c2.R) / (2 * d)
	h := math.Sqrt(math.Max(c1.R*c1.R-a*a, 0))
	mid := c1.Center.Add(u.Scale(a))
	n := u.Perp().Scale(h)
	return Result{
		Kind:     TwoPoints,
		Relation: Secant,
		Hits:     []Hit{hitAt(mid.Add(n)), hitAt(mid.Add(n.Neg()))},
	}, nil
}
