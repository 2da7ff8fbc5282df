// Package intersect computes line-line, line-circle and circle-circle
// intersections with explicit degeneracy classification. Every function
// returns a Result whose Kind the caller must switch on; there is no
// "no point" sentinel value.
package intersect

import (
	"fmt"

	"github.com/chazu/lvcad/pkg/geom"
)

// Kind is the shape of an intersection result.
type Kind int

const (
	None        Kind = iota // no common point
	Point                   // exactly one point (crossing or tangency)
	TwoPoints               // two distinct points
	Overlapping             // infinitely many points (collinear or coincident)
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Point:
		return "point"
	case TwoPoints:
		return "two-points"
	case Overlapping:
		return "overlapping"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Relation describes how the two operands sit relative to each other.
type Relation int

const (
	Separate          Relation = iota // disjoint, nothing more to say
	Parallel                          // distinct parallel lines
	DisjointCollinear                 // same line, bounded extents do not meet
	Collinear                         // same line, bounded extents overlap
	Crossing                          // lines crossing at one point
	Tangent                           // line tangent to circle
	Secant                            // line or circle cutting a circle twice
	ExternalTangent                   // circles touching from outside
	InternalTangent                   // circles touching from inside
	Contained                         // one circle strictly inside the other
	Coincident                        // identical circles
)

func (r Relation) String() string {
	switch r {
	case Separate:
		return "separate"
	case Parallel:
		return "parallel"
	case DisjointCollinear:
		return "disjoint-collinear"
	case Collinear:
		return "collinear"
	case Crossing:
		return "crossing"
	case Tangent:
		return "tangent"
	case Secant:
		return "secant"
	case ExternalTangent:
		return "external-tangent"
	case InternalTangent:
		return "internal-tangent"
	case Contained:
		return "contained"
	case Coincident:
		return "coincident"
	default:
		return fmt.Sprintf("Relation(%d)", int(r))
	}
}

// Hit is one intersection point. T is the parameter of P on the first
// operand and S on the second: the segment parameter for segments, the
// angle about the center for circles. OnFirst and OnSecond report whether
// P lies within the bounded extent of each operand; circles are always
// bounded by themselves, so those flags are true for circle operands. A
// false flag means the segment would need extending to reach P.
type Hit struct {
	P        geom.Point
	T, S     float64
	OnFirst  bool
	OnSecond bool
}

// Result is the typed outcome of an intersection query.
type Result struct {
	Kind     Kind
	Relation Relation
	// Hits holds 0, 1 or 2 entries for None, Point and TwoPoints. For
	// Overlapping segments it holds the two ends of the shared interval;
	// coincident circles carry no hits.
	Hits []Hit
}

// IsTangent reports whether the single point is a tangency.
func (r Result) IsTangent() bool {
	return r.Kind == Point && (r.Relation == Tangent || r.Relation == ExternalTangent || r.Relation == InternalTangent)
}

// Points returns the hit positions.
func (r Result) Points() []geom.Point {
	pts := make([]geom.Point, len(r.Hits))
	for i, h := range r.Hits {
		pts[i] = h.P
	}
	return pts
}

// WithinSegments reports whether every hit lies on both bounded operands.
// It is false for results without hits.
func (r Result) WithinSegments() bool {
	if len(r.Hits) == 0 {
		return false
	}
	for _, h := range r.Hits {
		if !h.OnFirst || !h.OnSecond {
			return false
		}
	}
	return true
}

// swapped mirrors a result so that the operands trade places.
func (r Result) swapped() Result {
	out := Result{Kind: r.Kind, Relation: r.Relation}
	if r.Hits != nil {
		out.Hits = make([]Hit, len(r.Hits))
		for i, h := range r.Hits {
			out.Hits[i] = Hit{P: h.P, T: h.S, S: h.T, OnFirst: h.OnSecond, OnSecond: h.OnFirst}
		}
	}
	return out
}

func inRange(t, slack float64) bool {
	return t >= -slack && t <= 1+slack
}
