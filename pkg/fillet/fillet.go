// Package fillet computes the tangent arc of a given radius between two
// segments and the two segments trimmed back to the arc's tangent points.
package fillet

import (
	"github.com/chazu/lvcad/pkg/geom"
	"github.com/chazu/lvcad/pkg/intersect"
)

// Corner names which endpoint of each segment meets at the corner being
// rounded. The other endpoints are the far ends and are never moved.
type Corner struct {
	First  geom.End
	Second geom.End
}

// NearestCorner picks the pair of endpoints, one from each segment, that are
// closest together. Ties resolve in the order (B,A), (B,B), (A,A), (A,B),
// which covers the common case of a polyline drawn from s1 into s2.
func NearestCorner(s1, s2 geom.Segment) Corner {
	candidates := []Corner{
		{First: geom.EndB, Second: geom.EndA},
		{First: geom.EndB, Second: geom.EndB},
		{First: geom.EndA, Second: geom.EndA},
		{First: geom.EndA, Second: geom.EndB},
	}
	best := candidates[0]
	bestDist := s1.Endpoint(best.First).DistanceTo(s2.Endpoint(best.Second))
	for _, c := range candidates[1:] {
		d := s1.Endpoint(c.First).DistanceTo(s2.Endpoint(c.Second))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Result is the output of Solve: the arc plus both input segments with
// their corner endpoints moved to the tangent points.
type Result struct {
	Arc    geom.FilletArc
	First  geom.Segment
	Second geom.Segment
}

// Solve rounds the corner between s1 and s2 with an arc of radius r.
//
// The arc bulges toward the region bounded by the two segments: on line 1
// it sits on the side holding s2's far endpoint, on line 2 on the side
// holding s1's far endpoint. The center is the intersection of the two
// lines offset by r toward those sides, and the tangent points are the
// center's projections onto the original lines. A tangent point may lie
// before the corner endpoint (the segment is extended to it) but never at
// or past the far endpoint.
func Solve(s1, s2 geom.Segment, r float64, corner Corner, tol geom.Tolerance) (Result, error) {
	const op = "fillet.Solve"

	if r <= tol.Epsilon {
		return Result{}, geom.Errorf(geom.DegenerateGeometry, op, "radius %g must be positive", r)
	}
	if err := s1.Validate(tol); err != nil {
		return Result{}, err
	}
	if err := s2.Validate(tol); err != nil {
		return Result{}, err
	}

	far1 := s1.Endpoint(corner.First.Other())
	far2 := s2.Endpoint(corner.Second.Other())

	side1 := s1.Side(far2, tol)
	side2 := s2.Side(far1, tol)
	if side1 == 0 || side2 == 0 {
		return Result{}, geom.Errorf(geom.NoFilletSolution, op, "segments %s and %s are collinear at the corner", s1, s2)
	}

	off1, err := offset(s1, r*float64(side1), tol)
	if err != nil {
		return Result{}, err
	}
	off2, err := offset(s2, r*float64(side2), tol)
	if err != nil {
		return Result{}, err
	}

	ix, err := intersect.Lines(off1, off2, tol)
	if err != nil {
		return Result{}, err
	}
	if ix.Kind != intersect.Point {
		return Result{}, geom.Errorf(geom.NoFilletSolution, op, "offset lines are %s", ix.Relation)
	}
	center := ix.Hits[0].P

	t1 := s1.Project(center)
	t2 := s2.Project(center)

	if err := checkReach(s1, corner.First, t1, r, tol); err != nil {
		return Result{}, err
	}
	if err := checkReach(s2, corner.Second, t2, r, tol); err != nil {
		return Result{}, err
	}

	first, err := s1.WithEndpoint(corner.First, t1, tol)
	if err != nil {
		return Result{}, geom.Errorf(geom.InvalidFilletRadius, op, "radius %g leaves no first segment", r)
	}
	second, err := s2.WithEndpoint(corner.Second, t2, tol)
	if err != nil {
		return Result{}, geom.Errorf(geom.InvalidFilletRadius, op, "radius %g leaves no second segment", r)
	}

	return Result{
		Arc:    geom.FilletArc{Center: center, R: r, T1: t1, T2: t2},
		First:  first,
		Second: second,
	}, nil
}

// offset shifts s perpendicular to itself by dist; positive moves it to the
// left of A->B.
func offset(s geom.Segment, dist float64, tol geom.Tolerance) (geom.Segment, error) {
	u, err := s.Direction().Normalize(tol)
	if err != nil {
		return geom.Segment{}, geom.Errorf(geom.DegenerateGeometry, "fillet.offset", "segment %s has no direction", s)
	}
	shift := u.Perp().Scale(dist)
	return geom.Segment{A: s.A.Add(shift), B: s.B.Add(shift)}, nil
}

// checkReach fails with InvalidFilletRadius when the tangent point lies at
// or beyond the far endpoint, measured along the segment from its corner end.
func checkReach(s geom.Segment, cornerEnd geom.End, tangent geom.Point, r float64, tol geom.Tolerance) error {
	c := s.Endpoint(cornerEnd)
	far := s.Endpoint(cornerEnd.Other())
	along := far.Sub(c)
	l := along.Length()
	reach := tangent.Sub(c).Dot(along) / l
	if reach >= l-tol.Epsilon {
		return geom.Errorf(geom.InvalidFilletRadius, "fillet.Solve",
			"radius %g needs %g along %s, only %g available", r, reach, s, l)
	}
	return nil
}
