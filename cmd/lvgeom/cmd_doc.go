package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chazu/lvcad/pkg/dto"
)

var exportBackend string

// intersectCmd intersects every pair of curves in a document
var intersectCmd = &cobra.Command{
	Use:   "intersect DOC",
	Short: "Intersect every pair of segments and circles in a document",
	Long: `Answers all pairwise intersections concurrently (batch.workers sets
the pool size). Kernel errors for a pair are reported on that pair and do
not stop the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runIntersect,
}

// checkCmd validates a document
var checkCmd = &cobra.Command{
	Use:   "check DOC",
	Short: "Validate a document's schema, names and geometry",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

// boundsCmd reports document extents
var boundsCmd = &cobra.Command{
	Use:   "bounds DOC",
	Short: "Print the extent of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runBounds,
}

// exportCmd writes a DXF drawing
var exportCmd = &cobra.Command{
	Use:   "export DOC",
	Short: "Export a document as a DXF drawing",
	Long: `Backends:
  - dxf:  native LINE, CIRCLE, ARC and POINT entities on per-type layers
  - sdfx: lines only; circles and arcs are flattened to chords`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func initDocCommands() {
	exportCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output DXF file (required)")
	exportCmd.Flags().StringVar(&exportBackend, "backend", "", "dxf or sdfx (default: export.backend from config)")
	_ = exportCmd.MarkFlagRequired("output")
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runIntersect(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	doc, err := a.ReadDocument(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	out, err := a.Intersect(ctx, doc)
	if err != nil {
		return fmt.Errorf("intersect: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), out)
}

// errInvalidDocument is returned by check when any error-severity finding
// is reported.
var errInvalidDocument = errors.New("document has errors")

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	doc, err := a.ReadDocument(args[0])
	if err != nil {
		return err
	}

	findings := a.Check(doc)
	report := make([]map[string]any, len(findings))
	for i, f := range findings {
		report[i] = map[string]any{
			"index":    f.Index,
			"entity":   f.Entity,
			"severity": f.Severity.String(),
			"message":  f.Message,
		}
	}
	if err := printJSON(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if dto.HasErrors(findings) {
		return errInvalidDocument
	}
	return nil
}

func runBounds(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	doc, err := a.ReadDocument(args[0])
	if err != nil {
		return err
	}
	b, err := a.Bounds(doc)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), b)
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	doc, err := a.ReadDocument(args[0])
	if err != nil {
		return err
	}
	st, err := a.Export(doc, exportBackend, outPath)
	if err != nil {
		return err
	}
	logger.Debug("export stats",
		zap.Int("points", st.Points),
		zap.Int("lines", st.Lines),
		zap.Int("circles", st.Circles),
		zap.Int("arcs", st.Arcs))
	return printJSON(cmd.OutOrStdout(), map[string]any{"path": outPath, "entities": st.Total()})
}
