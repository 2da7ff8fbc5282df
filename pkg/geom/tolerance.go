package geom

import "math"

// DefaultEpsilon is the epsilon of DefaultTolerance.
const DefaultEpsilon = 1e-9

// Tolerance carries the epsilon used by every comparison in the kernel.
// It is always passed explicitly; there is no package-level tolerance
// that callers can mutate.
type Tolerance struct {
	Epsilon float64
}

// DefaultTolerance is a ready-made tolerance for drawings in inches.
var DefaultTolerance = Tolerance{Epsilon: DefaultEpsilon}

// NewTolerance validates eps and returns a Tolerance.
func NewTolerance(eps float64) (Tolerance, error) {
	if !(eps > 0) || math.IsInf(eps, 0) {
		return Tolerance{}, Errorf(DegenerateGeometry, "geom.NewTolerance", "epsilon must be positive and finite, got %v", eps)
	}
	return Tolerance{Epsilon: eps}, nil
}

// Equal reports |a-b| <= epsilon.
func (t Tolerance) Equal(a, b float64) bool {
	return math.Abs(a-b) <= t.Epsilon
}

// Zero reports |x| <= epsilon.
func (t Tolerance) Zero(x float64) bool {
	return math.Abs(x) <= t.Epsilon
}

// Slack converts the length epsilon into a parameter epsilon for a curve of
// the given length, so that a parameter test like t in [0,1] accepts points
// within epsilon of the ends.
func (t Tolerance) Slack(length float64) float64 {
	if length <= 0 {
		return 0
	}
	return t.Epsilon / length
}
