// Package tessellate flattens the curves of a drawing into polylines for
// backends that only draw straight lines. One polyline is produced per
// entity; points produce none.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/lvcad/pkg/dto"
	"github.com/chazu/lvcad/pkg/geom"
)

// MinCircleSegments is the fewest chords used for a full circle.
const MinCircleSegments = 8

// MaxSegments caps the chord count of a single curve.
const MaxSegments = 4096

// Polyline is a flattened entity. Closed polylines join their last point
// back to the first; the first point is not repeated.
type Polyline struct {
	Name   string
	Points []geom.Point
	Closed bool
}

// Segments returns the polyline's edges as segments.
func (p Polyline) Segments() []geom.Segment {
	if len(p.Points) < 2 {
		return nil
	}
	out := make([]geom.Segment, 0, len(p.Points))
	for i := 1; i < len(p.Points); i++ {
		out = append(out, geom.Segment{A: p.Points[i-1], B: p.Points[i]})
	}
	if p.Closed {
		out = append(out, geom.Segment{A: p.Points[len(p.Points)-1], B: p.Points[0]})
	}
	return out
}

// chords returns how many equal chords keep the sagitta of an arc of the
// given radius and sweep within chordTol.
func chords(r, sweep, chordTol float64) int {
	sweep = math.Abs(sweep)
	if chordTol >= r {
		return 1
	}
	step := 2 * math.Acos(1-chordTol/r)
	n := int(math.Ceil(sweep/step - 1e-12))
	if n < 1 {
		n = 1
	}
	if n > MaxSegments {
		n = MaxSegments
	}
	return n
}

func checkChordTol(chordTol float64) error {
	if !(chordTol > 0) || math.IsInf(chordTol, 0) {
		return geom.Errorf(geom.DegenerateGeometry, "tessellate", "chord tolerance %v must be positive", chordTol)
	}
	return nil
}

// Circle flattens c into a closed polyline of at least MinCircleSegments
// points, starting at angle zero and running counter-clockwise.
func Circle(c geom.Circle, chordTol float64) (Polyline, error) {
	if err := checkChordTol(chordTol); err != nil {
		return Polyline{}, err
	}
	n := chords(c.R, 2*math.Pi, chordTol)
	if n < MinCircleSegments {
		n = MinCircleSegments
	}
	pts := make([]geom.Point, n)
	for i := range pts {
		pts[i] = c.PointAt(2 * math.Pi * float64(i) / float64(n))
	}
	return Polyline{Points: pts, Closed: true}, nil
}

// Arc flattens a fillet arc from T1 to T2. The end points are the arc's
// tangent points exactly, so the polyline meets the trimmed segments.
func Arc(a geom.FilletArc, chordTol float64) (Polyline, error) {
	if err := checkChordTol(chordTol); err != nil {
		return Polyline{}, err
	}
	n := chords(a.R, a.Sweep(), chordTol)
	pts := make([]geom.Point, n+1)
	pts[0] = a.T1
	for i := 1; i < n; i++ {
		pts[i] = a.PointAt(float64(i) / float64(n))
	}
	pts[n] = a.T2
	return Polyline{Points: pts}, nil
}

// Document flattens every entity of doc in order.
func Document(doc *dto.Document, chordTol float64, tol geom.Tolerance) ([]Polyline, error) {
	if doc == nil {
		return nil, nil
	}
	if err := checkChordTol(chordTol); err != nil {
		return nil, err
	}

	var out []Polyline
	for i, e := range doc.Entities {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		v, err := e.Geom(tol)
		if err != nil {
			return nil, fmt.Errorf("tessellate: entity %s: %w", name, err)
		}

		var pl Polyline
		switch g := v.(type) {
		case geom.Point:
			continue
		case geom.Segment:
			pl = Polyline{Points: []geom.Point{g.A, g.B}}
		case geom.Circle:
			pl, err = Circle(g, chordTol)
		case geom.FilletArc:
			pl, err = Arc(g, chordTol)
		default:
			return nil, fmt.Errorf("tessellate: entity %s has unsupported geometry %T", name, v)
		}
		if err != nil {
			return nil, fmt.Errorf("tessellate: entity %s: %w", name, err)
		}
		pl.Name = name
		out = append(out, pl)
	}
	return out, nil
}
