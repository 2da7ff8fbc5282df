package intersect

import (
	"math"

	"github.com/chazu/lvcad/pkg/geom"
)

// Lines intersects the lines supporting s1 and s2 and reports, per hit,
// whether the point lies within each bounded segment.
//
// The lines are parallel when their directions drift apart by at most
// epsilon over the longer segment: the sine of the angle between them,
// scaled by that length, is a distance comparable with epsilon. Parallel
// lines are collinear when s2.A lies within epsilon of line 1; collinear inputs never produce a single point, they
// are Overlapping (the shared interval, possibly a single touching point)
// or DisjointCollinear.
func Lines(s1, s2 geom.Segment, tol geom.Tolerance) (Result, error) {
	u1, err := s1.Direction().Normalize(tol)
	if err != nil {
		return Result{}, geom.Errorf(geom.DegenerateGeometry, "intersect.Lines", "first segment %s has no direction", s1)
	}
	u2, err := s2.Direction().Normalize(tol)
	if err != nil {
		return Result{}, geom.Errorf(geom.DegenerateGeometry, "intersect.Lines", "second segment %s has no direction", s2)
	}

	reach := math.Max(s1.Length(), s2.Length())
	if math.Abs(u1.Cross(u2))*reach <= tol.Epsilon {
		return parallelLines(s1, s2, u1, tol), nil
	}

	d1, d2 := s1.Direction(), s2.Direction()
	w := s2.A.Sub(s1.A)
	det := d1.Cross(d2)
	t := w.Cross(d2) / det
	s := w.Cross(d1) / det

	p := s1.PointAt(t)
	hit := Hit{
		P:        p,
		T:        t,
		S:        s,
		OnFirst:  inRange(t, tol.Slack(s1.Length())),
		OnSecond: inRange(s, tol.Slack(s2.Length())),
	}
	return Result{Kind: Point, Relation: Crossing, Hits: []Hit{hit}}, nil
}

func parallelLines(s1, s2 geom.Segment, u1 geom.Vector, tol geom.Tolerance) Result {
	offset := math.Abs(u1.Cross(s2.A.Sub(s1.A)))
	if offset > tol.Epsilon {
		return Result{Kind: None, Relation: Parallel}
	}

	// Collinear: clip s2's parameter interval on line 1 to [0,1].
	t0, t1 := s1.Param(s2.A), s1.Param(s2.B)
	lo := math.Max(0, math.Min(t0, t1))
	hi := math.Min(1, math.Max(t0, t1))
	slack := tol.Slack(s1.Length())
	if lo > hi+slack {
		return Result{Kind: None, Relation: DisjointCollinear}
	}
	if hi < lo {
		hi = lo
	}

	hits := make([]Hit, 0, 2)
	for _, t := range []float64{lo, hi} {
		p := s1.PointAt(t)
		hits = append(hits, Hit{P: p, T: t, S: s2.Param(p), OnFirst: true, OnSecond: true})
	}
	return Result{Kind: Overlapping, Relation: Collinear, Hits: hits}
}
