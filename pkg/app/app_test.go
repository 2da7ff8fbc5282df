package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/lvcad/pkg/config"
	"github.com/chazu/lvcad/pkg/dto"
	"github.com/chazu/lvcad/pkg/geom"
)

func newApp(t *testing.T) *App {
	t.Helper()
	a, err := New(nil, nil)
	require.NoError(t, err)
	return a
}

func seg(x1, y1, x2, y2 float64) dto.SegmentDTO {
	return dto.FromSegment(geom.Seg(x1, y1, x2, y2))
}

func near(t *testing.T, want, got dto.SegmentDTO) {
	t.Helper()
	tol := geom.Tolerance{Epsilon: 1e-9}
	w, err := want.Geom(tol)
	require.NoError(t, err)
	g, err := got.Geom(tol)
	require.NoError(t, err)
	assert.Truef(t, w.Equal(g, tol), "segment = %s, want %s", g, w)
}

// ---------------------------------------------------------------------------
// New
// ---------------------------------------------------------------------------

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Export.Backend = "svg"
	_, err := New(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export.backend")
}

// ---------------------------------------------------------------------------
// Evaluate: script -> engine -> document -> preview polylines
// ---------------------------------------------------------------------------

// TestE2EBracketExample runs the bundled example script end to end.
func TestE2EBracketExample(t *testing.T) {
	source, err := os.ReadFile("../../examples/bracket.lvg")
	require.NoError(t, err)

	result := newApp(t).Evaluate(string(source))
	require.Empty(t, result.Errors)
	require.NotNil(t, result.Document)

	wantNames := []string{"bracket/first", "bracket/arc", "bracket/second", "hole", "rib", "tick"}
	require.Len(t, result.Polylines, len(wantNames))
	for i, pl := range result.Polylines {
		assert.Equal(t, wantNames[i], pl.Name)
		assert.NotEmpty(t, pl.Points, "polyline %q has no points", pl.Name)
		assert.NotEmpty(t, pl.Color, "polyline %q has no color", pl.Name)
	}
	assert.True(t, result.Polylines[3].Closed, "the hole should be a closed ring")

	tol := geom.DefaultTolerance
	rib, err := result.Document.Segment("rib", tol)
	require.NoError(t, err)
	assert.True(t, rib.Equal(geom.Seg(2, 3, 12, 3), tol), "rib = %s", rib)

	tick, err := result.Document.Segment("tick", tol)
	require.NoError(t, err)
	assert.True(t, tick.Equal(geom.Seg(9, 3, 9, 0), tol), "tick = %s", tick)
}

func TestEvaluateEmptySource(t *testing.T) {
	result := newApp(t).Evaluate("")

	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Polylines)
	// Slices must be non-nil so JSON shows [] rather than null.
	assert.NotNil(t, result.Polylines)
	assert.NotNil(t, result.Errors)

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"polylines":[]`)
	assert.Contains(t, string(data), `"errors":[]`)
}

func TestEvaluateSyntaxError(t *testing.T) {
	result := newApp(t).Evaluate("(+ 1 2)\n(segment 0 0")

	require.NotEmpty(t, result.Errors)
	assert.NotEmpty(t, result.Errors[0].Message)
	assert.Empty(t, result.Polylines)
	assert.Nil(t, result.Document)
}

func TestEvaluateKernelErrorCarriesKind(t *testing.T) {
	result := newApp(t).Evaluate(`(emit "x" (trim (segment 0 0 10 0) (segment 20 -1 20 1)))`)

	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "no_intersection", result.Errors[0].Kind)
	assert.Empty(t, result.Polylines)
}

func TestEvaluateCommentsOnly(t *testing.T) {
	result := newApp(t).Evaluate(";; nothing here\n; still nothing\n")
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Polylines)
}

func TestEvaluateColorPaletteWrapping(t *testing.T) {
	var src strings.Builder
	for i := 0; i < len(colorPalette)+2; i++ {
		src.WriteString(`(emit "s" (segment 0 0 1 1))` + "\n")
	}
	result := newApp(t).Evaluate(src.String())
	require.Empty(t, result.Errors)
	require.Len(t, result.Polylines, len(colorPalette)+2)
	assert.Equal(t, result.Polylines[0].Color, result.Polylines[len(colorPalette)].Color)
	assert.NotEqual(t, result.Polylines[0].Color, result.Polylines[1].Color)
}

// TestEvaluateRapidSequential mirrors an editor re-evaluating on every
// keystroke.
func TestEvaluateRapidSequential(t *testing.T) {
	a := newApp(t)
	for i := 0; i < 20; i++ {
		result := a.Evaluate(`(emit "s" (segment 0 0 4 3))`)
		require.Empty(t, result.Errors, "iteration %d", i)
		require.Len(t, result.Polylines, 1)
	}
}

// ---------------------------------------------------------------------------
// Editing operations
// ---------------------------------------------------------------------------

func TestFillet(t *testing.T) {
	reply := newApp(t).Fillet(FilletRequest{
		First:  seg(0, 0, 10, 0),
		Second: seg(10, 0, 10, 10),
		Radius: "2",
	})
	require.Empty(t, reply.Error)
	require.NotNil(t, reply.Arc)
	require.Len(t, reply.Segments, 2)

	assert.InDelta(t, 8, reply.Arc.Center.X, 1e-9)
	assert.InDelta(t, 2, reply.Arc.Center.Y, 1e-9)
	near(t, seg(0, 0, 8, 0), reply.Segments[0])
	near(t, seg(10, 2, 10, 10), reply.Segments[1])
}

func TestFilletExplicitCorner(t *testing.T) {
	// Both segments start at the corner.
	reply := newApp(t).Fillet(FilletRequest{
		First:  seg(10, 0, 0, 0),
		Second: seg(10, 0, 10, 10),
		Radius: "2in",
		Corner: "aa",
	})
	require.Empty(t, reply.Error)
	near(t, seg(8, 0, 0, 0), reply.Segments[0])
}

func TestFilletErrors(t *testing.T) {
	tests := []struct {
		name string
		req  FilletRequest
		kind string
	}{
		{"radius too large", FilletRequest{First: seg(0, 0, 10, 0), Second: seg(10, 0, 10, 50), Radius: "12"}, "invalid_fillet_radius"},
		{"parallel", FilletRequest{First: seg(0, 0, 10, 0), Second: seg(10, 5, 0, 5), Radius: "1"}, "no_fillet_solution"},
		{"degenerate input", FilletRequest{First: dto.SegmentDTO{}, Second: seg(10, 0, 10, 10), Radius: "1"}, "degenerate_geometry"},
		{"bad radius text", FilletRequest{First: seg(0, 0, 10, 0), Second: seg(10, 0, 10, 10), Radius: "two"}, "unit_parse_error"},
		{"bad corner", FilletRequest{First: seg(0, 0, 10, 0), Second: seg(10, 0, 10, 10), Radius: "1", Corner: "bx"}, "malformed_dto"},
	}
	a := newApp(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := a.Fillet(tt.req)
			assert.Equal(t, tt.kind, reply.Kind)
			assert.NotEmpty(t, reply.Error)
			assert.NotNil(t, reply.Segments)
			assert.Empty(t, reply.Segments)
			assert.Nil(t, reply.Arc)
		})
	}
}

func TestTrim(t *testing.T) {
	wall := seg(6, -1, 6, 1)
	tests := []struct {
		name string
		req  TrimRequest
		want dto.SegmentDTO
	}{
		{"default end", TrimRequest{Segment: seg(0, 0, 10, 0), Target: CurveDTO{Segment: &wall}}, seg(0, 0, 6, 0)},
		{"explicit end", TrimRequest{Segment: seg(0, 0, 10, 0), Target: CurveDTO{Segment: &wall}, End: "a"}, seg(6, 0, 10, 0)},
		{"pick near a", TrimRequest{Segment: seg(0, 0, 10, 0), Target: CurveDTO{Segment: &wall}, Pick: &dto.PointDTO{X: 1, Y: 0}}, seg(6, 0, 10, 0)},
		{"circle target", TrimRequest{Segment: seg(0, 0, 10, 0), Target: CurveFrom(geom.Circle{Center: geom.Pt(10, 0), R: 3})}, seg(0, 0, 7, 0)},
	}
	a := newApp(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := a.Trim(tt.req)
			require.Empty(t, reply.Error)
			require.Len(t, reply.Segments, 1)
			near(t, tt.want, reply.Segments[0])
		})
	}
}

func TestTrimErrors(t *testing.T) {
	far := seg(20, -1, 20, 1)
	a := newApp(t)

	reply := a.Trim(TrimRequest{Segment: seg(0, 0, 10, 0), Target: CurveDTO{Segment: &far}})
	assert.Equal(t, "no_intersection", reply.Kind)

	reply = a.Trim(TrimRequest{Segment: seg(0, 0, 10, 0)})
	assert.Equal(t, "malformed_dto", reply.Kind, "missing target")

	reply = a.Trim(TrimRequest{Segment: seg(0, 0, 10, 0), Target: CurveDTO{Segment: &far}, End: "c"})
	assert.Equal(t, "malformed_dto", reply.Kind, "bad end")
}

func TestExtend(t *testing.T) {
	wall := seg(10, -1, 10, 1)
	a := newApp(t)

	reply := a.Extend(ExtendRequest{Segment: seg(0, 0, 8, 0), Target: CurveDTO{Segment: &wall}})
	require.Empty(t, reply.Error)
	near(t, seg(0, 0, 10, 0), reply.Segments[0])

	reply = a.Extend(ExtendRequest{Segment: seg(0, 0, 8, 0), Target: CurveDTO{Segment: &wall}, Max: "1in"})
	assert.Equal(t, "no_intersection", reply.Kind)

	reply = a.Extend(ExtendRequest{Segment: seg(0, 0, 8, 0), Target: CurveDTO{Segment: &wall}, Max: "3in"})
	require.Empty(t, reply.Error)
	near(t, seg(0, 0, 10, 0), reply.Segments[0])
}

// ---------------------------------------------------------------------------
// Lengths and snapping
// ---------------------------------------------------------------------------

func TestParseLength(t *testing.T) {
	a := newApp(t)

	reply := a.ParseLength(`10'-6 3/4"`)
	require.Empty(t, reply.Error)
	assert.InDelta(t, 126.75, reply.Value, 1e-12)
	assert.Equal(t, `10'-6 3/4"`, reply.Text)

	reply = a.ParseLength("")
	assert.Equal(t, "unit_parse_error", reply.Kind)
}

func TestParseLengthDisplayUnit(t *testing.T) {
	cfg := config.Default()
	cfg.Units.Display = "mm"
	cfg.Units.Style = "decimal"
	cfg.Units.Precision = 1
	a, err := New(cfg, nil)
	require.NoError(t, err)

	// Bare numbers are read in the display unit.
	reply := a.ParseLength("25.4")
	require.Empty(t, reply.Error)
	assert.InDelta(t, 1, reply.Value, 1e-12)
	assert.Equal(t, "25.4mm", reply.Text)
}

func TestFormatLength(t *testing.T) {
	a := newApp(t)
	assert.Equal(t, `0'-6"`, a.FormatLength(6).Text)
	assert.Equal(t, `-1'-0"`, a.FormatLength(-12).Text)
}

func TestSnap(t *testing.T) {
	p := dto.PointDTO{X: 1.26, Y: -0.74}
	assert.Equal(t, p, newApp(t).Snap(p), "no grid configured")

	cfg := config.Default()
	cfg.Units.Snap = 0.5
	a, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, dto.PointDTO{X: 1.5, Y: -0.5}, a.Snap(p))
}

// ---------------------------------------------------------------------------
// Documents, export and batch intersection
// ---------------------------------------------------------------------------

func sampleDoc(t *testing.T) *dto.Document {
	t.Helper()
	doc := dto.NewDocument("in")
	require.NoError(t, doc.Add("base", geom.Seg(0, 0, 10, 0)))
	require.NoError(t, doc.Add("wall", geom.Seg(5, -5, 5, 5)))
	require.NoError(t, doc.Add("hole", geom.Circle{Center: geom.Pt(5, 0), R: 2}))
	require.NoError(t, doc.Add("mark", geom.Pt(1, 1)))
	return doc
}

func TestDocumentRoundTrip(t *testing.T) {
	a := newApp(t)
	doc := sampleDoc(t)
	for _, name := range []string{"doc.json", "doc.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, a.WriteDocument(path, doc))
			back, err := a.ReadDocument(path)
			require.NoError(t, err)
			assert.Equal(t, doc.ID, back.ID)
			require.Len(t, back.Entities, len(doc.Entities))
			s, err := back.Segment("wall", a.Tolerance())
			require.NoError(t, err)
			assert.Equal(t, geom.Seg(5, -5, 5, 5), s)
		})
	}
}

func TestReadDocumentMissing(t *testing.T) {
	_, err := newApp(t).ReadDocument(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestExport(t *testing.T) {
	a := newApp(t)
	for _, backend := range []string{"", config.BackendDXF, config.BackendSDFX} {
		t.Run("backend="+backend, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.dxf")
			st, err := a.Export(sampleDoc(t), backend, path)
			require.NoError(t, err)
			assert.Equal(t, 4, st.Total())
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}

	_, err := a.Export(sampleDoc(t), "svg", filepath.Join(t.TempDir(), "out.svg"))
	require.Error(t, err)
}

func TestBounds(t *testing.T) {
	a := newApp(t)
	b, err := a.Bounds(sampleDoc(t))
	require.NoError(t, err)
	assert.False(t, b.Empty)
	assert.Equal(t, dto.PointDTO{X: 0, Y: -5}, b.Min)
	assert.Equal(t, dto.PointDTO{X: 10, Y: 5}, b.Max)

	empty, err := a.Bounds(dto.NewDocument(""))
	require.NoError(t, err)
	assert.True(t, empty.Empty)
}

func TestIntersect(t *testing.T) {
	a := newApp(t)
	out, err := a.Intersect(context.Background(), sampleDoc(t))
	require.NoError(t, err)

	// Three curves give three pairs; the point is skipped.
	require.Len(t, out, 3)
	assert.Equal(t, "base x wall", out[0].Pair)
	assert.Equal(t, "point", out[0].Kind)
	require.Len(t, out[0].Points, 1)
	assert.InDelta(t, 5, out[0].Points[0].X, 1e-9)

	assert.Equal(t, "base x hole", out[1].Pair)
	assert.Equal(t, "two-points", out[1].Kind)
	assert.Len(t, out[1].Points, 2)
}

func TestIntersectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newApp(t).Intersect(ctx, sampleDoc(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheck(t *testing.T) {
	a := newApp(t)
	assert.Empty(t, a.Check(sampleDoc(t)))
	assert.NotNil(t, a.Check(sampleDoc(t)))

	doc := sampleDoc(t)
	require.NoError(t, doc.Add("base", geom.Seg(1, 1, 2, 2)))
	errs := a.Check(doc)
	require.NotEmpty(t, errs)
	assert.True(t, dto.HasErrors(errs))
}

// TestConcurrentEditing exercises the pure editing calls from many
// goroutines at once.
func TestConcurrentEditing(t *testing.T) {
	a := newApp(t)
	wall := seg(6, -1, 6, 1)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reply := a.Trim(TrimRequest{Segment: seg(0, 0, 10, 0), Target: CurveDTO{Segment: &wall}})
			assert.Empty(t, reply.Error)
		}()
	}
	wg.Wait()
}
