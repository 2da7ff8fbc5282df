// Package dxf implements kernel.Drawing with github.com/yofu/dxf, writing
// native LINE, CIRCLE, ARC and POINT entities. Each entity kind goes on
// its own layer.
package dxf

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/chazu/lvcad/pkg/geom"
	"github.com/chazu/lvcad/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Drawing = (*Drawing)(nil)

// Layer names.
const (
	LayerLines   = "Lines"
	LayerCircles = "Circles"
	LayerArcs    = "Arcs"
	LayerPoints  = "Points"
)

// Drawing wraps a yofu/dxf drawing that is written to path on Save.
type Drawing struct {
	path string
	d    *drawing.Drawing
}

// New creates the drawing and its layers.
func New(path string) (*Drawing, error) {
	d := dxf.NewDrawing()
	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerPoints, color.Green},
		{LayerArcs, color.Red},
		{LayerCircles, color.Blue},
		{LayerLines, dxf.DefaultColor},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return nil, fmt.Errorf("dxf: adding layer %s: %w", l.name, err)
		}
	}
	return &Drawing{path: path, d: d}, nil
}

func (w *Drawing) layer(name string) error {
	if err := w.d.ChangeLayer(name); err != nil {
		return fmt.Errorf("dxf: layer %s: %w", name, err)
	}
	return nil
}

func (w *Drawing) Point(p geom.Point) error {
	if err := w.layer(LayerPoints); err != nil {
		return err
	}
	_, err := w.d.Point(p.X, p.Y, 0)
	return err
}

func (w *Drawing) Line(a, b geom.Point) error {
	if err := w.layer(LayerLines); err != nil {
		return err
	}
	_, err := w.d.Line(a.X, a.Y, 0, b.X, b.Y, 0)
	return err
}

func (w *Drawing) Circle(c geom.Circle) error {
	if err := w.layer(LayerCircles); err != nil {
		return err
	}
	_, err := w.d.Circle(c.Center.X, c.Center.Y, 0, c.R)
	return err
}

// Arc writes a DXF ARC. DXF arcs always run counter-clockwise from the
// start angle, so a clockwise fillet is written from T2 to T1.
func (w *Drawing) Arc(a geom.FilletArc) error {
	if err := w.layer(LayerArcs); err != nil {
		return err
	}
	start, end := ArcAngles(a)
	_, err := w.d.Arc(a.Center.X, a.Center.Y, 0, a.R, start, end)
	return err
}

// ArcAngles returns the counter-clockwise start and end angles of a in
// degrees, both in [0, 360).
func ArcAngles(a geom.FilletArc) (start, end float64) {
	s, e := a.StartAngle(), a.EndAngle()
	if a.Sweep() < 0 {
		s, e = e, s
	}
	return degrees(s), degrees(e)
}

func degrees(rad float64) float64 {
	d := math.Mod(rad*180/math.Pi, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func (w *Drawing) Save() error {
	if err := w.d.SaveAs(w.path); err != nil {
		return fmt.Errorf("dxf: saving %s: %w", w.path, err)
	}
	return nil
}
