// Package dto holds the wire shapes used to persist and exchange geometry,
// the schema version embedded in every document, and the map-based
// decoding that validates documents before they reach the kernel.
package dto

import (
	"github.com/chazu/lvcad/pkg/geom"
)

// PointDTO is the wire form of geom.Point.
type PointDTO struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// SegmentDTO is the wire form of geom.Segment.
type SegmentDTO struct {
	A PointDTO `json:"a" yaml:"a"`
	B PointDTO `json:"b" yaml:"b"`
}

// CircleDTO is the wire form of geom.Circle.
type CircleDTO struct {
	Center PointDTO `json:"center" yaml:"center"`
	R      float64  `json:"r" yaml:"r"`
}

// FilletArcDTO is the wire form of geom.FilletArc.
type FilletArcDTO struct {
	Center PointDTO `json:"center" yaml:"center"`
	R      float64  `json:"r" yaml:"r"`
	T1     PointDTO `json:"t1" yaml:"t1"`
	T2     PointDTO `json:"t2" yaml:"t2"`
}

func FromPoint(p geom.Point) PointDTO {
	return PointDTO{X: p.X, Y: p.Y}
}

func FromSegment(s geom.Segment) SegmentDTO {
	return SegmentDTO{A: FromPoint(s.A), B: FromPoint(s.B)}
}

func FromCircle(c geom.Circle) CircleDTO {
	return CircleDTO{Center: FromPoint(c.Center), R: c.R}
}

func FromFilletArc(a geom.FilletArc) FilletArcDTO {
	return FilletArcDTO{Center: FromPoint(a.Center), R: a.R, T1: FromPoint(a.T1), T2: FromPoint(a.T2)}
}

// Geom converts the record to a point. Points carry no invariant beyond
// finite coordinates, which the map decoder already enforces.
func (d PointDTO) Geom() geom.Point {
	return geom.Point{X: d.X, Y: d.Y}
}

// Geom converts the record to a segment, enforcing its invariant.
func (d SegmentDTO) Geom(tol geom.Tolerance) (geom.Segment, error) {
	return geom.NewSegment(d.A.Geom(), d.B.Geom(), tol)
}

// Geom converts the record to a circle, enforcing its invariant.
func (d CircleDTO) Geom(tol geom.Tolerance) (geom.Circle, error) {
	return geom.NewCircle(d.Center.Geom(), d.R, tol)
}

// Geom converts the record to a fillet arc and checks that both tangent
// points lie on its circle.
func (d FilletArcDTO) Geom(tol geom.Tolerance) (geom.FilletArc, error) {
	a := geom.FilletArc{Center: d.Center.Geom(), R: d.R, T1: d.T1.Geom(), T2: d.T2.Geom()}
	if err := a.Validate(tol); err != nil {
		return geom.FilletArc{}, err
	}
	return a, nil
}
