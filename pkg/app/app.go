// Package app is the JSON-facing entry point for an editing shell and the
// lvgeom CLI. Every method takes and returns plain DTOs, and replies always
// carry non-nil slices so they serialize as [] rather than null.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chazu/lvcad/pkg/config"
	"github.com/chazu/lvcad/pkg/dto"
	"github.com/chazu/lvcad/pkg/engine"
	"github.com/chazu/lvcad/pkg/geom"
	"github.com/chazu/lvcad/pkg/tessellate"
	"github.com/chazu/lvcad/pkg/units"
)

// colorPalette is a default palette used to assign distinct colors to
// preview polylines.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App holds the validated configuration and the script engine.
type App struct {
	cfg    *config.Config
	log    *zap.Logger
	engine *engine.Engine

	tol    geom.Tolerance
	format units.FormatOptions
}

// New validates cfg and builds an App. A nil cfg uses config.Default and a
// nil logger discards everything.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tol, err := cfg.Tol()
	if err != nil {
		return nil, err
	}
	format, err := cfg.FormatOptions()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.EngineTimeout()
	if err != nil {
		return nil, err
	}

	eng := engine.NewEngine(
		engine.WithTimeout(timeout),
		engine.WithTolerance(tol),
		engine.WithFormat(format),
	)
	return &App{cfg: cfg, log: logger, engine: eng, tol: tol, format: format}, nil
}

// Tolerance returns the configured tolerance.
func (a *App) Tolerance() geom.Tolerance {
	return a.tol
}

// PolylineData is a flattened entity for previewing.
type PolylineData struct {
	Name   string         `json:"name"`
	Points []dto.PointDTO `json:"points"`
	Closed bool           `json:"closed"`
	Color  string         `json:"color"`
}

// ErrorData is a JSON-serializable error. Kind is the kernel error kind,
// or empty for script and internal errors.
type ErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Document  *dto.Document  `json:"document,omitempty"`
	Polylines []PolylineData `json:"polylines"`
	Errors    []ErrorData    `json:"errors"`
}

// Evaluate runs a geometry script and returns the emitted document with
// preview polylines.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Polylines: []PolylineData{},
		Errors:    []ErrorData{},
	}

	// Step 1: Evaluate the script into a document.
	doc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate failed", zap.Error(err))
		result.Errors = append(result.Errors, ErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, ErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
				Kind:    e.Kind,
			})
		}
		a.log.Debug("script rejected", zap.Int("errors", len(evalErrs)), zap.String("first", evalErrs[0].Message))
		return result
	}

	// Step 3: Flatten the document for preview.
	pls, err := tessellate.Document(doc, a.cfg.Export.ChordTolerance, a.tol)
	if err != nil {
		a.log.Warn("tessellate failed", zap.Error(err))
		result.Errors = append(result.Errors, ErrorData{
			Message: "tessellation failed: " + err.Error(),
			Kind:    errorKind(err),
		})
		return result
	}

	// Step 4: Convert polylines and assign colors.
	for i, pl := range pls {
		pts := make([]dto.PointDTO, len(pl.Points))
		for j, p := range pl.Points {
			pts[j] = dto.FromPoint(p)
		}
		result.Polylines = append(result.Polylines, PolylineData{
			Name:   pl.Name,
			Points: pts,
			Closed: pl.Closed,
			Color:  colorPalette[i%len(colorPalette)],
		})
	}
	result.Document = doc

	a.log.Debug("script evaluated",
		zap.String("document", doc.ID),
		zap.Int("entities", len(doc.Entities)),
		zap.Int("polylines", len(result.Polylines)))
	return result
}

// errorKind maps an error to the stable string sent to clients.
func errorKind(err error) string {
	if k, ok := geom.KindOf(err); ok {
		return k.String()
	}
	return "internal"
}

// fail logs a refused request and returns its error fields.
func (a *App) fail(op string, err error) (msg, kind string) {
	kind = errorKind(err)
	a.log.Debug("request refused", zap.String("op", op), zap.String("kind", kind), zap.Error(err))
	return err.Error(), kind
}

// length parses user text, reading bare numbers in the display unit.
func (a *App) length(op, field, s string) (float64, error) {
	v, err := units.Parse(s, a.format.Unit)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", op, field, err)
	}
	return v, nil
}
