package intersect

import "github.com/chazu/lvcad/pkg/geom"

// Curves dispatches on the concrete operand types. A circle-segment query
// is answered by LineCircle with the result mirrored, so T always refers
// to a and S to b.
func Curves(a, b geom.Curve, tol geom.Tolerance) (Result, error) {
	switch x := a.(type) {
	case geom.Segment:
		switch y := b.(type) {
		case geom.Segment:
			return Lines(x, y, tol)
		case geom.Circle:
			return LineCircle(x, y, tol)
		}
	case geom.Circle:
		switch y := b.(type) {
		case geom.Segment:
			r, err := LineCircle(y, x, tol)
			if err != nil {
				return Result{}, err
			}
			return r.swapped(), nil
		case geom.Circle:
			return Circles(x, y, tol)
		}
	}
	return Result{}, geom.Errorf(geom.DegenerateGeometry, "intersect.Curves", "unsupported operands %T and %T", a, b)
}
