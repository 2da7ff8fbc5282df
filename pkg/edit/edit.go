// Package edit implements trim and extend. Both are pure: they take a
// segment, a bounded target curve and the endpoint to move, and return a
// new segment without touching the input.
package edit

import (
	"math"
	"sort"

	"github.com/chazu/lvcad/pkg/geom"
	"github.com/chazu/lvcad/pkg/intersect"
)

// Unbounded lets Extend search the whole supporting line.
var Unbounded = math.Inf(1)

// candidate is an intersection of the line through the segment with the
// target. Dist is measured from the live endpoint: toward the fixed
// endpoint for Trim, away from it for Extend.
type candidate struct {
	P    geom.Point
	T    float64
	Dist float64
}

// Trim moves the live endpoint of s back to the intersection with target
// nearest to it, searching from the live endpoint toward the fixed one.
// A cut that would leave less than epsilon of segment is not a candidate.
// Ties between candidates at the same distance resolve on the lowest
// parameter along s, then on the lower X, then on the lower Y.
//
// Trimming an already trimmed segment against the same target finds the
// cut at distance zero and returns the segment unchanged.
func Trim(s geom.Segment, target geom.Curve, live geom.End, tol geom.Tolerance) (geom.Segment, error) {
	const op = "edit.Trim"

	hits, err := targetHits(op, s, target, tol)
	if err != nil {
		return geom.Segment{}, err
	}

	l := s.Length()
	var cands []candidate
	for _, h := range hits {
		u := h.T * l
		if live == geom.EndB {
			u = (1 - h.T) * l
		}
		if u >= -tol.Epsilon && u < l-tol.Epsilon {
			cands = append(cands, candidate{P: h.P, T: h.T, Dist: u})
		}
	}
	best, ok := nearest(cands, tol)
	if !ok {
		return geom.Segment{}, geom.Errorf(geom.NoIntersection, op, "%s does not cross %s between its endpoints", s, target)
	}
	return moveEnd(op, s, live, best, tol)
}

// Extend moves the live endpoint of s forward along its line to the nearest
// intersection with target that lies no more than maxDist beyond it. A hit
// already at the endpoint satisfies the request and s is returned as is.
func Extend(s geom.Segment, target geom.Curve, live geom.End, maxDist float64, tol geom.Tolerance) (geom.Segment, error) {
	const op = "edit.Extend"

	if !(maxDist > 0) {
		return geom.Segment{}, geom.Errorf(geom.DegenerateGeometry, op, "maximum distance %v must be positive", maxDist)
	}
	hits, err := targetHits(op, s, target, tol)
	if err != nil {
		return geom.Segment{}, err
	}

	l := s.Length()
	var cands []candidate
	for _, h := range hits {
		d := (h.T - 1) * l
		if live == geom.EndA {
			d = -h.T * l
		}
		if d >= -tol.Epsilon && d <= maxDist {
			cands = append(cands, candidate{P: h.P, T: h.T, Dist: d})
		}
	}
	best, ok := nearest(cands, tol)
	if !ok {
		if math.IsInf(maxDist, 1) {
			return geom.Segment{}, geom.Errorf(geom.NoIntersection, op, "%s never reaches %s past its %s end", s, target, live)
		}
		return geom.Segment{}, geom.Errorf(geom.NoIntersection, op, "%s does not reach %s within %g of its %s end", s, target, maxDist, live)
	}
	return moveEnd(op, s, live, best, tol)
}

// LiveEnd returns the endpoint of s nearest to pick, the point the user
// clicked on the part to keep or extend. Equidistant picks choose B.
func LiveEnd(s geom.Segment, pick geom.Point) geom.End {
	if pick.DistanceTo(s.A) < pick.DistanceTo(s.B) {
		return geom.EndA
	}
	return geom.EndB
}

// targetHits intersects the line through s with target and keeps the hits
// that lie on the bounded target. Collinear segment targets cut nothing.
func targetHits(op string, s geom.Segment, target geom.Curve, tol geom.Tolerance) ([]intersect.Hit, error) {
	if err := s.Validate(tol); err != nil {
		return nil, err
	}
	if target == nil {
		return nil, geom.Errorf(geom.DegenerateGeometry, op, "no target")
	}
	res, err := intersect.Curves(s, target, tol)
	if err != nil {
		return nil, err
	}
	if res.Kind == intersect.None || res.Kind == intersect.Overlapping {
		return nil, nil
	}
	hits := make([]intersect.Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		if h.OnSecond {
			hits = append(hits, h)
		}
	}
	return hits, nil
}

// nearest orders candidates by distance and then returns, among those within
// epsilon of the closest, the one with the lowest parameter, X, then Y.
func nearest(cands []candidate, tol geom.Tolerance) (candidate, bool) {
	if len(cands) == 0 {
		return candidate{}, false
	}
	sort.Slice(cands, func(i, j int) bool {
		return cands[i].Dist < cands[j].Dist
	})
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Dist-cands[0].Dist > tol.Epsilon {
			break
		}
		if before(c, best) {
			best = c
		}
	}
	return best, true
}

// before is the tie-break order for candidates at the same distance.
func before(a, b candidate) bool {
	if a.T != b.T {
		return a.T < b.T
	}
	if a.P.X != b.P.X {
		return a.P.X < b.P.X
	}
	return a.P.Y < b.P.Y
}

func moveEnd(op string, s geom.Segment, live geom.End, c candidate, tol geom.Tolerance) (geom.Segment, error) {
	if math.Abs(c.Dist) <= tol.Epsilon {
		return s, nil
	}
	out, err := s.WithEndpoint(live, c.P, tol)
	if err != nil {
		return geom.Segment{}, geom.Errorf(geom.DegenerateGeometry, op, "moving %s end of %s to %s collapses it", live, s, c.P)
	}
	return out, nil
}
