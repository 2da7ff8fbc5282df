package edit

import (
	"errors"
	"testing"

	"github.com/chazu/lvcad/pkg/geom"
)

var tol = geom.DefaultTolerance

func circle(x, y, r float64) geom.Circle {
	return geom.Circle{Center: geom.Pt(x, y), R: r}
}

// ---------------------------------------------------------------------------
// Trim
// ---------------------------------------------------------------------------

func TestTrim(t *testing.T) {
	tests := []struct {
		name   string
		s      geom.Segment
		target geom.Curve
		live   geom.End
		want   geom.Segment
	}{
		{"cut b at crossing", geom.Seg(0, 0, 10, 0), geom.Seg(5, -1, 5, 1), geom.EndB, geom.Seg(0, 0, 5, 0)},
		{"cut a at crossing", geom.Seg(0, 0, 10, 0), geom.Seg(5, -1, 5, 1), geom.EndA, geom.Seg(5, 0, 10, 0)},
		{"circle nearest to b", geom.Seg(0, 0, 10, 0), circle(5, 0, 2), geom.EndB, geom.Seg(0, 0, 7, 0)},
		{"circle nearest to a", geom.Seg(0, 0, 10, 0), circle(5, 0, 2), geom.EndA, geom.Seg(3, 0, 10, 0)},
		{"tangent circle", geom.Seg(0, 0, 10, 0), circle(4, 3, 3), geom.EndB, geom.Seg(0, 0, 4, 0)},
		{"diagonal", geom.Seg(0, 0, 10, 10), geom.Seg(0, 10, 10, 0), geom.EndB, geom.Seg(0, 0, 5, 5)},
		{"target touching at its end", geom.Seg(0, 0, 10, 0), geom.Seg(6, 0, 6, 4), geom.EndB, geom.Seg(0, 0, 6, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Trim(tt.s, tt.target, tt.live, tol)
			if err != nil {
				t.Fatalf("Trim: %v", err)
			}
			if !got.Equal(tt.want, tol) {
				t.Errorf("Trim = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTrimIdempotent(t *testing.T) {
	targets := []geom.Curve{
		geom.Seg(5, -1, 5, 1),
		geom.Seg(2, -3, 7, 4),
		circle(5, 0, 2),
	}
	s := geom.Seg(0, 0, 10, 0)
	for _, target := range targets {
		for _, live := range []geom.End{geom.EndA, geom.EndB} {
			once, err := Trim(s, target, live, tol)
			if err != nil {
				t.Fatalf("Trim(%s, %s): %v", target, live, err)
			}
			twice, err := Trim(once, target, live, tol)
			if err != nil {
				t.Fatalf("second Trim(%s, %s): %v", target, live, err)
			}
			if !twice.Equal(once, tol) {
				t.Errorf("Trim not idempotent for %s end %s: %s then %s", target, live, once, twice)
			}
		}
	}
}

func TestTrimNoIntersection(t *testing.T) {
	tests := []struct {
		name   string
		target geom.Curve
		live   geom.End
	}{
		{"target misses bounded", geom.Seg(5, 1, 5, 3), geom.EndB},
		{"crossing beyond live end", geom.Seg(12, -1, 12, 1), geom.EndB},
		{"crossing at fixed end", geom.Seg(0, -1, 0, 1), geom.EndB},
		{"parallel", geom.Seg(0, 1, 10, 1), geom.EndB},
		{"collinear", geom.Seg(2, 0, 4, 0), geom.EndB},
		{"circle far away", circle(5, 10, 2), geom.EndA},
		{"circle behind live end", circle(-5, 0, 2), geom.EndA},
	}
	s := geom.Seg(0, 0, 10, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Trim(s, tt.target, tt.live, tol)
			if !errors.Is(err, geom.ErrNoIntersection) {
				t.Errorf("error = %v, want NoIntersection", err)
			}
		})
	}
}

func TestTrimDoesNotMutate(t *testing.T) {
	s := geom.Seg(0, 0, 10, 0)
	orig := s
	if _, err := Trim(s, geom.Seg(5, -1, 5, 1), geom.EndB, tol); err != nil {
		t.Fatal(err)
	}
	if s != orig {
		t.Errorf("input changed to %s", s)
	}
}

func TestTrimRejectsDegenerate(t *testing.T) {
	bad := geom.Segment{A: geom.Pt(1, 1), B: geom.Pt(1, 1)}
	if _, err := Trim(bad, geom.Seg(0, 0, 2, 2), geom.EndB, tol); !errors.Is(err, geom.ErrDegenerateGeometry) {
		t.Errorf("degenerate segment: error = %v", err)
	}
	if _, err := Trim(geom.Seg(0, 0, 10, 0), nil, geom.EndB, tol); !errors.Is(err, geom.ErrDegenerateGeometry) {
		t.Errorf("nil target: error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// Extend
// ---------------------------------------------------------------------------

func TestExtend(t *testing.T) {
	tests := []struct {
		name    string
		s       geom.Segment
		target  geom.Curve
		live    geom.End
		maxDist float64
		want    geom.Segment
	}{
		{"b to wall", geom.Seg(0, 0, 5, 0), geom.Seg(10, -1, 10, 1), geom.EndB, Unbounded, geom.Seg(0, 0, 10, 0)},
		{"b at exact limit", geom.Seg(0, 0, 5, 0), geom.Seg(10, -1, 10, 1), geom.EndB, 5, geom.Seg(0, 0, 10, 0)},
		{"a to wall", geom.Seg(0, 0, 5, 0), geom.Seg(-3, -1, -3, 1), geom.EndA, Unbounded, geom.Seg(-3, 0, 5, 0)},
		{"nearest circle side", geom.Seg(0, 0, 5, 0), circle(10, 0, 2), geom.EndB, Unbounded, geom.Seg(0, 0, 8, 0)},
		{"already touching", geom.Seg(0, 0, 10, 0), geom.Seg(10, -1, 10, 1), geom.EndB, 1, geom.Seg(0, 0, 10, 0)},
		{"diagonal", geom.Seg(0, 0, 1, 1), geom.Seg(0, 6, 6, 0), geom.EndB, 10, geom.Seg(0, 0, 3, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extend(tt.s, tt.target, tt.live, tt.maxDist, tol)
			if err != nil {
				t.Fatalf("Extend: %v", err)
			}
			if !got.Equal(tt.want, tol) {
				t.Errorf("Extend = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExtendIdempotent(t *testing.T) {
	s := geom.Seg(0, 0, 5, 0)
	wall := geom.Seg(10, -1, 10, 1)
	once, err := Extend(s, wall, geom.EndB, Unbounded, tol)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Extend(once, wall, geom.EndB, Unbounded, tol)
	if err != nil {
		t.Fatal(err)
	}
	if twice != once {
		t.Errorf("second extend moved %s to %s", once, twice)
	}
}

func TestExtendErrors(t *testing.T) {
	s := geom.Seg(0, 0, 5, 0)
	tests := []struct {
		name    string
		target  geom.Curve
		live    geom.End
		maxDist float64
		want    error
	}{
		{"beyond max distance", geom.Seg(10, -1, 10, 1), geom.EndB, 4, geom.ErrNoIntersection},
		{"only behind live end", geom.Seg(-3, -1, -3, 1), geom.EndB, Unbounded, geom.ErrNoIntersection},
		{"target misses line", geom.Seg(10, 1, 10, 3), geom.EndB, Unbounded, geom.ErrNoIntersection},
		{"parallel", geom.Seg(0, 2, 5, 2), geom.EndB, Unbounded, geom.ErrNoIntersection},
		{"zero max distance", geom.Seg(10, -1, 10, 1), geom.EndB, 0, geom.ErrDegenerateGeometry},
		{"negative max distance", geom.Seg(10, -1, 10, 1), geom.EndB, -1, geom.ErrDegenerateGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extend(s, tt.target, tt.live, tt.maxDist, tol)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func TestNearestTieBreak(t *testing.T) {
	cands := []candidate{
		{P: geom.Pt(3, 1), T: 0.5, Dist: 2},
		{P: geom.Pt(2, 1), T: 0.5, Dist: 2 + tol.Epsilon/2},
		{P: geom.Pt(2, 0), T: 0.5, Dist: 2},
		{P: geom.Pt(9, 9), T: 0.4, Dist: 3},
	}
	got, ok := nearest(cands, tol)
	if !ok {
		t.Fatal("no candidate")
	}
	if got.P != geom.Pt(2, 0) {
		t.Errorf("nearest = %s, want (2, 0)", got.P)
	}

	byParam := []candidate{
		{P: geom.Pt(0, 0), T: 0.6, Dist: 1},
		{P: geom.Pt(5, 5), T: 0.2, Dist: 1},
	}
	if got, _ := nearest(byParam, tol); got.T != 0.2 {
		t.Errorf("nearest T = %g, want 0.2", got.T)
	}

	if _, ok := nearest(nil, tol); ok {
		t.Error("empty candidate list should report false")
	}
}

// TestNearestChainedTies covers distances that are each within epsilon of
// their neighbour but not of the closest; only the closest's window ties.
func TestNearestChainedTies(t *testing.T) {
	eps := tol.Epsilon
	near := candidate{P: geom.Pt(1, 0), T: 0.5, Dist: 0}
	mid := candidate{P: geom.Pt(1, 1), T: 0.3, Dist: 0.6 * eps}
	far := candidate{P: geom.Pt(1, 2), T: 0.1, Dist: 1.2 * eps}

	orders := [][]candidate{
		{near, mid, far},
		{far, mid, near},
		{mid, far, near},
	}
	for i, cands := range orders {
		got, ok := nearest(cands, tol)
		if !ok {
			t.Fatalf("order %d: no candidate", i)
		}
		if got != mid {
			t.Errorf("order %d: nearest = %+v, want %+v", i, got, mid)
		}
	}
}

// TestTrimCoarseTolerance trims against a long target at a shallow angle
// with a loose epsilon.
func TestTrimCoarseTolerance(t *testing.T) {
	coarse := geom.Tolerance{Epsilon: 1e-3}
	got, err := Trim(geom.Seg(0, 0, 1000, 0), geom.Seg(0, 0.5, 1000, -0.3), geom.EndB, coarse)
	if err != nil {
		t.Fatalf("Trim: %v", err)
	}
	if want := geom.Seg(0, 0, 625, 0); !got.Equal(want, coarse) {
		t.Errorf("Trim = %s, want %s", got, want)
	}
}

func TestLiveEnd(t *testing.T) {
	s := geom.Seg(0, 0, 10, 0)
	if got := LiveEnd(s, geom.Pt(1, 1)); got != geom.EndA {
		t.Errorf("pick near A = %s", got)
	}
	if got := LiveEnd(s, geom.Pt(9, -1)); got != geom.EndB {
		t.Errorf("pick near B = %s", got)
	}
	if got := LiveEnd(s, geom.Pt(5, 3)); got != geom.EndB {
		t.Errorf("equidistant pick = %s, want b", got)
	}
}
