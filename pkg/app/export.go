package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/chazu/lvcad/pkg/batch"
	"github.com/chazu/lvcad/pkg/config"
	"github.com/chazu/lvcad/pkg/dto"
	"github.com/chazu/lvcad/pkg/kernel"
	"github.com/chazu/lvcad/pkg/kernel/dxf"
	"github.com/chazu/lvcad/pkg/kernel/sdfx"
)

// isYAML reports whether path names a YAML file.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ReadDocument loads a document from path, as YAML for .yaml and .yml
// files and as JSON otherwise.
func (a *App) ReadDocument(path string) (*dto.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()

	var doc *dto.Document
	if isYAML(path) {
		doc, err = dto.DecodeYAML(f)
	} else {
		doc, err = dto.DecodeJSON(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.log.Debug("document loaded", zap.String("path", path), zap.String("id", doc.ID), zap.Int("entities", len(doc.Entities)))
	return doc, nil
}

// WriteDocument saves doc to path, choosing the encoding like
// ReadDocument.
func (a *App) WriteDocument(path string, doc *dto.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}
	if isYAML(path) {
		err = dto.EncodeYAML(f, doc)
	} else {
		err = dto.EncodeJSON(f, doc)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// NewDrawing opens the named backend writing to path. An empty backend
// uses the configured one.
func (a *App) NewDrawing(backend, path string) (kernel.Drawing, error) {
	if backend == "" {
		backend = a.cfg.Export.Backend
	}
	switch backend {
	case config.BackendDXF:
		d, err := dxf.New(path)
		if err != nil {
			return nil, err
		}
		return d, nil
	case config.BackendSDFX:
		return sdfx.New(path, a.cfg.Export.ChordTolerance), nil
	}
	return nil, fmt.Errorf("unknown export backend %q", backend)
}

// Export renders doc with the named backend and saves it to path.
func (a *App) Export(doc *dto.Document, backend, path string) (kernel.Stats, error) {
	if backend == "" {
		backend = a.cfg.Export.Backend
	}
	d, err := a.NewDrawing(backend, path)
	if err != nil {
		return kernel.Stats{}, err
	}
	st, err := kernel.Render(doc, d, a.tol)
	if err != nil {
		return st, fmt.Errorf("export: %w", err)
	}
	if err := d.Save(); err != nil {
		return st, fmt.Errorf("export: %w", err)
	}
	a.log.Info("drawing exported",
		zap.String("path", path),
		zap.String("backend", backend),
		zap.Int("entities", st.Total()))
	return st, nil
}

// BoundsData is the extent of a document.
type BoundsData struct {
	Min    dto.PointDTO `json:"min"`
	Max    dto.PointDTO `json:"max"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Empty  bool         `json:"empty"`
}

// Bounds measures doc.
func (a *App) Bounds(doc *dto.Document) (BoundsData, error) {
	var b kernel.Bounds
	if _, err := kernel.Render(doc, &b, a.tol); err != nil {
		return BoundsData{}, err
	}
	if b.IsEmpty() {
		return BoundsData{Empty: true}, nil
	}
	return BoundsData{
		Min:    dto.FromPoint(b.Min),
		Max:    dto.FromPoint(b.Max),
		Width:  b.Width(),
		Height: b.Height(),
	}, nil
}

// IntersectionData reports one pair of a batch intersection.
type IntersectionData struct {
	Pair     string         `json:"pair"`
	Kind     string         `json:"kind"`
	Relation string         `json:"relation"`
	Points   []dto.PointDTO `json:"points"`
	Error    string         `json:"error,omitempty"`
	ErrKind  string         `json:"error_kind,omitempty"`
}

// Intersect answers every pair of curves in doc concurrently.
func (a *App) Intersect(ctx context.Context, doc *dto.Document) ([]IntersectionData, error) {
	shapes, err := doc.Shapes(a.tol)
	if err != nil {
		return nil, err
	}
	pairs := batch.Pairs(shapes)
	outcomes, err := batch.IntersectAll(ctx, pairs, a.tol, a.cfg.Batch.Workers)
	if err != nil {
		return nil, err
	}

	out := make([]IntersectionData, len(outcomes))
	for i, o := range outcomes {
		d := IntersectionData{Pair: o.Name, Points: []dto.PointDTO{}}
		if o.Err != nil {
			d.Error, d.ErrKind = a.fail("intersect", o.Err)
		} else {
			d.Kind = o.Result.Kind.String()
			d.Relation = o.Result.Relation.String()
			for _, p := range o.Result.Points() {
				d.Points = append(d.Points, dto.FromPoint(p))
			}
		}
		out[i] = d
	}
	a.log.Debug("batch intersection done", zap.Int("pairs", len(pairs)), zap.Int("workers", a.cfg.Batch.Workers))
	return out, nil
}

// Check validates doc.
func (a *App) Check(doc *dto.Document) []dto.ValidationError {
	errs := dto.Validate(doc, a.tol)
	if errs == nil {
		errs = []dto.ValidationError{}
	}
	return errs
}
