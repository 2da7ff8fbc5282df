package kernel

import (
	"math"

	"github.com/chazu/lvcad/pkg/geom"
)

// Bounds is an axis-aligned bounding box of drawn entities.
type Bounds struct {
	Min, Max geom.Point
	n        int
}

// Compile-time interface check.
var _ Drawing = (*Bounds)(nil)

// IsEmpty returns true if nothing has been added.
func (b *Bounds) IsEmpty() bool {
	return b.n == 0
}

// Width returns the X extent.
func (b *Bounds) Width() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Max.X - b.Min.X
}

// Height returns the Y extent.
func (b *Bounds) Height() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Max.Y - b.Min.Y
}

func (b *Bounds) add(p geom.Point) {
	if b.n == 0 {
		b.Min, b.Max = p, p
	} else {
		b.Min = geom.Point{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y)}
		b.Max = geom.Point{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y)}
	}
	b.n++
}

func (b *Bounds) Point(p geom.Point) error {
	b.add(p)
	return nil
}

func (b *Bounds) Line(p, q geom.Point) error {
	b.add(p)
	b.add(q)
	return nil
}

func (b *Bounds) Circle(c geom.Circle) error {
	b.add(geom.Point{X: c.Center.X - c.R, Y: c.Center.Y - c.R})
	b.add(geom.Point{X: c.Center.X + c.R, Y: c.Center.Y + c.R})
	return nil
}

// Arc adds the end points plus every axis extreme the sweep passes.
func (b *Bounds) Arc(a geom.FilletArc) error {
	b.add(a.T1)
	b.add(a.T2)
	start, sweep := a.StartAngle(), a.Sweep()
	for k := -4; k <= 4; k++ {
		q := float64(k) * math.Pi / 2
		d := q - start
		if sweep < 0 {
			d = -d
		}
		d = math.Mod(d+4*math.Pi, 2*math.Pi)
		if d <= math.Abs(sweep) {
			b.add(a.Circle().PointAt(q))
		}
	}
	return nil
}

// Save is a no-op; Bounds only measures.
func (b *Bounds) Save() error { return nil }
