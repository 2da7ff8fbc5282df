// Package kernel defines the drawing export interface. Backends (sdfx,
// dxf) write entities to a file format behind this interface, so the rest
// of the system can swap output formats without changing.
package kernel

import (
	"fmt"

	"github.com/chazu/lvcad/pkg/dto"
	"github.com/chazu/lvcad/pkg/geom"
)

// Drawing receives entities in document order and writes them out on Save.
// Coordinates are canonical inches.
type Drawing interface {
	Point(p geom.Point) error
	Line(a, b geom.Point) error
	Circle(c geom.Circle) error
	Arc(a geom.FilletArc) error

	// Save flushes the drawing to its destination.
	Save() error
}

// Stats counts what Render sent to a drawing.
type Stats struct {
	Points, Lines, Circles, Arcs int
}

// Total returns the number of entities drawn.
func (s Stats) Total() int {
	return s.Points + s.Lines + s.Circles + s.Arcs
}

// Render draws every entity of doc onto d. It does not call Save. Entities
// are converted with tol first, so an invalid entity stops the render
// before anything else about it reaches the backend.
func Render(doc *dto.Document, d Drawing, tol geom.Tolerance) (Stats, error) {
	var st Stats
	if doc == nil {
		return st, nil
	}
	for i, e := range doc.Entities {
		v, err := e.Geom(tol)
		if err != nil {
			return st, fmt.Errorf("kernel: entity %d (%q): %w", i, e.Name, err)
		}
		switch g := v.(type) {
		case geom.Point:
			err = d.Point(g)
			st.Points++
		case geom.Segment:
			err = d.Line(g.A, g.B)
			st.Lines++
		case geom.Circle:
			err = d.Circle(g)
			st.Circles++
		case geom.FilletArc:
			err = d.Arc(g)
			st.Arcs++
		default:
			err = fmt.Errorf("unsupported geometry %T", v)
		}
		if err != nil {
			return st, fmt.Errorf("kernel: drawing entity %d (%q): %w", i, e.Name, err)
		}
	}
	return st, nil
}
