package dxf

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/lvcad/pkg/dto"
	"github.com/chazu/lvcad/pkg/geom"
	"github.com/chazu/lvcad/pkg/kernel"
)

func TestArcAngles(t *testing.T) {
	tests := []struct {
		name       string
		arc        geom.FilletArc
		start, end float64
	}{
		{
			// Crosses zero going counter-clockwise.
			name:  "corner fillet",
			arc:   geom.FilletArc{Center: geom.Pt(8, 2), R: 2, T1: geom.Pt(8, 0), T2: geom.Pt(10, 2)},
			start: 270, end: 0,
		},
		{
			name:  "clockwise fillet is reversed",
			arc:   geom.FilletArc{Center: geom.Pt(8, 2), R: 2, T1: geom.Pt(10, 2), T2: geom.Pt(8, 0)},
			start: 270, end: 0,
		},
		{
			name:  "counter-clockwise quarter",
			arc:   geom.FilletArc{Center: geom.Pt(0, 0), R: 1, T1: geom.Pt(1, 0), T2: geom.Pt(0, 1)},
			start: 0, end: 90,
		},
		{
			name:  "wraps past 180",
			arc:   geom.FilletArc{Center: geom.Pt(0, 0), R: 1, T1: geom.Pt(-1, 0), T2: geom.Pt(0, -1)},
			start: 180, end: 270,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, e := ArcAngles(tt.arc)
			if math.Abs(s-tt.start) > 1e-9 || math.Abs(e-tt.end) > 1e-9 {
				t.Errorf("ArcAngles = (%g, %g), want (%g, %g)", s, e, tt.start, tt.end)
			}
		})
	}
}

func TestRenderAndSave(t *testing.T) {
	doc := dto.NewDocument("in")
	for _, e := range []struct {
		name string
		g    any
	}{
		{"base", geom.Seg(0, 0, 8, 0)},
		{"round", geom.FilletArc{Center: geom.Pt(8, 2), R: 2, T1: geom.Pt(8, 0), T2: geom.Pt(10, 2)}},
		{"wall", geom.Seg(10, 2, 10, 10)},
		{"hole", geom.Circle{Center: geom.Pt(5, 5), R: 1}},
		{"mark", geom.Pt(1, 1)},
	} {
		if err := doc.Add(e.name, e.g); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "out.dxf")
	d, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	st, err := kernel.Render(doc, d, geom.DefaultTolerance)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if st.Total() != 5 {
		t.Errorf("rendered %d entities, want 5", st.Total())
	}
	if err := d.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	out := string(data)
	for _, want := range []string{"LINE", "CIRCLE", "ARC", "POINT", LayerLines, LayerCircles, LayerArcs, LayerPoints} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q", want)
		}
	}
}

func TestSaveBadPath(t *testing.T) {
	d, err := New(filepath.Join(t.TempDir(), "missing", "dir", "out.dxf"))
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Save(); err == nil {
		t.Error("Save into a missing directory should fail")
	}
}
