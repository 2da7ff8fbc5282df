// Package sdfx implements kernel.Drawing with the DXF writer of the
// github.com/deadsy/sdfx CAD library. That writer only knows lines, so
// circles and arcs are flattened into chords first.
package sdfx

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/lvcad/pkg/geom"
	"github.com/chazu/lvcad/pkg/kernel"
	"github.com/chazu/lvcad/pkg/tessellate"
)

// Compile-time interface check.
var _ kernel.Drawing = (*Drawing)(nil)

// DefaultChordTolerance is used when New is given a non-positive tolerance.
const DefaultChordTolerance = 0.005

// Drawing accumulates lines in an sdfx DXF drawing.
type Drawing struct {
	dxf      *render.DXF
	chordTol float64
	lines    int
}

// New returns a drawing that writes to path on Save. Curves are flattened
// to chordTol.
func New(path string, chordTol float64) *Drawing {
	if chordTol <= 0 {
		chordTol = DefaultChordTolerance
	}
	return &Drawing{dxf: render.NewDXF(path), chordTol: chordTol}
}

func vec(p geom.Point) v2.Vec {
	return v2.Vec{X: p.X, Y: p.Y}
}

// Lines returns how many line entities have been written.
func (d *Drawing) Lines() int {
	return d.lines
}

// Point is not representable in the sdfx writer and is skipped.
func (d *Drawing) Point(geom.Point) error {
	return nil
}

func (d *Drawing) Line(a, b geom.Point) error {
	d.dxf.Line(vec(a), vec(b))
	d.lines++
	return nil
}

func (d *Drawing) polyline(pl tessellate.Polyline) {
	for _, s := range pl.Segments() {
		d.dxf.Line(vec(s.A), vec(s.B))
		d.lines++
	}
}

// Circle writes c as a closed ring of chords.
func (d *Drawing) Circle(c geom.Circle) error {
	pl, err := tessellate.Circle(c, d.chordTol)
	if err != nil {
		return fmt.Errorf("sdfx: %w", err)
	}
	d.polyline(pl)
	return nil
}

// Arc writes a as chords from T1 to T2.
func (d *Drawing) Arc(a geom.FilletArc) error {
	pl, err := tessellate.Arc(a, d.chordTol)
	if err != nil {
		return fmt.Errorf("sdfx: %w", err)
	}
	d.polyline(pl)
	return nil
}

func (d *Drawing) Save() error {
	if err := d.dxf.Save(); err != nil {
		return fmt.Errorf("sdfx: saving drawing: %w", err)
	}
	return nil
}
