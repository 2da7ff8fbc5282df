package fillet

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/lvcad/pkg/geom"
)

var tol = geom.DefaultTolerance

func TestSolveRightAngleCorner(t *testing.T) {
	s1 := geom.Seg(0, 0, 10, 0)
	s2 := geom.Seg(10, 0, 10, 10)

	res, err := Solve(s1, s2, 2, Corner{First: geom.EndB, Second: geom.EndA}, tol)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Arc.Center.Equal(geom.Pt(8, 2), tol) {
		t.Errorf("center = %s, want (8, 2)", res.Arc.Center)
	}
	if !res.Arc.T1.Equal(geom.Pt(8, 0), tol) {
		t.Errorf("t1 = %s, want (8, 0)", res.Arc.T1)
	}
	if !res.Arc.T2.Equal(geom.Pt(10, 2), tol) {
		t.Errorf("t2 = %s, want (10, 2)", res.Arc.T2)
	}
	if !res.First.Equal(geom.Seg(0, 0, 8, 0), tol) {
		t.Errorf("first trimmed = %s", res.First)
	}
	if !res.Second.Equal(geom.Seg(10, 2, 10, 10), tol) {
		t.Errorf("second trimmed = %s", res.Second)
	}
	if math.Abs(math.Abs(res.Arc.Sweep())-math.Pi/2) > 1e-12 {
		t.Errorf("sweep = %g, want a quarter turn", res.Arc.Sweep())
	}

	// Inputs are untouched.
	if s1.B != geom.Pt(10, 0) || s2.A != geom.Pt(10, 0) {
		t.Error("Solve mutated its inputs")
	}
}

func TestSolveTangencyProperty(t *testing.T) {
	tests := []struct {
		name   string
		s1, s2 geom.Segment
		r      float64
	}{
		{"right angle", geom.Seg(0, 0, 10, 0), geom.Seg(10, 0, 10, 10), 2},
		{"acute", geom.Seg(0, 0, 20, 0), geom.Seg(20, 0, 5, 8), 1.5},
		{"obtuse", geom.Seg(-10, 0, 0, 0), geom.Seg(0, 0, 10, 6), 3},
		{"reversed first", geom.Seg(10, 0, 0, 0), geom.Seg(10, 0, 10, 10), 2},
		{"clockwise turn", geom.Seg(0, 10, 0, 0), geom.Seg(0, 0, 10, 0), 4},
		{"gap at corner", geom.Seg(0, 0, 9, 0), geom.Seg(10, 1, 10, 10), 2},
		{"overshoot at corner", geom.Seg(0, 0, 12, 0), geom.Seg(10, -2, 10, 10), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corner := NearestCorner(tt.s1, tt.s2)
			res, err := Solve(tt.s1, tt.s2, tt.r, corner, tol)
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			check := geom.Tolerance{Epsilon: 1e-9}
			a := res.Arc
			if d := a.Center.DistanceTo(a.T1); math.Abs(d-tt.r) > check.Epsilon {
				t.Errorf("|center-t1| = %g, want %g", d, tt.r)
			}
			if d := a.Center.DistanceTo(a.T2); math.Abs(d-tt.r) > check.Epsilon {
				t.Errorf("|center-t2| = %g, want %g", d, tt.r)
			}
			if !res.First.Contains(a.T1, check) {
				t.Errorf("t1 %s not on trimmed first segment %s", a.T1, res.First)
			}
			if !res.Second.Contains(a.T2, check) {
				t.Errorf("t2 %s not on trimmed second segment %s", a.T2, res.Second)
			}
			if tt.s1.DistanceToLine(a.T1) > check.Epsilon || tt.s2.DistanceToLine(a.T2) > check.Epsilon {
				t.Error("tangent points must lie on the original lines")
			}
			if err := a.Validate(check); err != nil {
				t.Errorf("arc invariant: %v", err)
			}
			if math.Abs(a.Sweep()) >= math.Pi {
				t.Errorf("sweep %g is not a minor arc", a.Sweep())
			}
			// Far endpoints stay put.
			if res.First.Endpoint(corner.First.Other()) != tt.s1.Endpoint(corner.First.Other()) {
				t.Error("far endpoint of first segment moved")
			}
			if res.Second.Endpoint(corner.Second.Other()) != tt.s2.Endpoint(corner.Second.Other()) {
				t.Error("far endpoint of second segment moved")
			}
		})
	}
}

func TestSolveArcBulgesIntoCorner(t *testing.T) {
	res, err := Solve(geom.Seg(0, 0, 10, 0), geom.Seg(10, 0, 10, 10), 2, Corner{First: geom.EndB, Second: geom.EndA}, tol)
	if err != nil {
		t.Fatal(err)
	}
	// The arc midpoint sits between the center and the corner.
	mid := res.Arc.Midpoint()
	corner := geom.Pt(10, 0)
	if mid.DistanceTo(corner) >= res.Arc.Center.DistanceTo(corner) {
		t.Errorf("midpoint %s should be closer to the corner than the center %s", mid, res.Arc.Center)
	}
}

func TestSolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		s1, s2 geom.Segment
		r      float64
		corner Corner
		want   error
	}{
		{
			name: "zero radius",
			s1:   geom.Seg(0, 0, 10, 0), s2: geom.Seg(10, 0, 10, 10), r: 0,
			corner: Corner{geom.EndB, geom.EndA}, want: geom.ErrDegenerateGeometry,
		},
		{
			name: "radius too large for first segment",
			s1:   geom.Seg(0, 0, 10, 0), s2: geom.Seg(10, 0, 10, 50), r: 12,
			corner: Corner{geom.EndB, geom.EndA}, want: geom.ErrInvalidFilletRadius,
		},
		{
			name: "radius consumes second segment exactly",
			s1:   geom.Seg(0, 0, 10, 0), s2: geom.Seg(10, 0, 10, 3), r: 3,
			corner: Corner{geom.EndB, geom.EndA}, want: geom.ErrInvalidFilletRadius,
		},
		{
			name: "parallel",
			s1:   geom.Seg(0, 0, 10, 0), s2: geom.Seg(10, 5, 0, 5), r: 1,
			corner: Corner{geom.EndB, geom.EndA}, want: geom.ErrNoFilletSolution,
		},
		{
			name: "collinear",
			s1:   geom.Seg(0, 0, 10, 0), s2: geom.Seg(10, 0, 20, 0), r: 1,
			corner: Corner{geom.EndB, geom.EndA}, want: geom.ErrNoFilletSolution,
		},
		{
			name: "degenerate input",
			s1:   geom.Segment{A: geom.Pt(1, 1), B: geom.Pt(1, 1)}, s2: geom.Seg(10, 0, 20, 0), r: 1,
			corner: Corner{geom.EndB, geom.EndA}, want: geom.ErrDegenerateGeometry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Solve(tt.s1, tt.s2, tt.r, tt.corner, tol)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNearestCorner(t *testing.T) {
	tests := []struct {
		name   string
		s1, s2 geom.Segment
		want   Corner
	}{
		{"polyline", geom.Seg(0, 0, 10, 0), geom.Seg(10, 0, 10, 10), Corner{geom.EndB, geom.EndA}},
		{"both start", geom.Seg(0, 0, 10, 0), geom.Seg(0, 0, 0, 10), Corner{geom.EndA, geom.EndA}},
		{"both end", geom.Seg(0, 0, 10, 0), geom.Seg(10, 10, 10, 0), Corner{geom.EndB, geom.EndB}},
		{"start to end", geom.Seg(10, 0, 0, 0), geom.Seg(10, 10, 10, 0), Corner{geom.EndA, geom.EndB}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NearestCorner(tt.s1, tt.s2); got != tt.want {
				t.Errorf("NearestCorner = %+v, want %+v", got, tt.want)
			}
		})
	}
}
