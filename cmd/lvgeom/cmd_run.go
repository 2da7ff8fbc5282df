package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runDXF string

// runCmd evaluates a geometry script
var runCmd = &cobra.Command{
	Use:   "run SCRIPT",
	Short: "Evaluate a geometry script into a document",
	Long: `Evaluates a Lisp geometry script in a fresh sandbox with the configured
timeout. Each (emit "name" shape) adds an entity to the resulting document.

The document is printed as JSON, or written to -o (JSON, or YAML by
extension). --dxf also exports it with the configured backend.

Example:
  lvgeom run examples/bracket.lvg -o bracket.yaml --dxf bracket.dxf`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func initRunCommand() {
	runCmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the document here")
	runCmd.Flags().StringVar(&runDXF, "dxf", "", "Also export the document as DXF")
}

// errScript is returned when a script reports errors.
var errScript = errors.New("script failed")

func runScript(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	a, err := newApp()
	if err != nil {
		return err
	}

	result := a.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			logger.Debug("script error",
				zap.Int("line", e.Line),
				zap.Int("col", e.Col),
				zap.String("kind", e.Kind),
				zap.String("message", e.Message))
		}
		if err := printJSON(cmd.OutOrStdout(), result.Errors); err != nil {
			return err
		}
		return fmt.Errorf("%s: %w", args[0], errScript)
	}

	if runDXF != "" {
		if _, err := a.Export(result.Document, "", runDXF); err != nil {
			return err
		}
	}
	if outPath != "" {
		return a.WriteDocument(outPath, result.Document)
	}
	return printJSON(cmd.OutOrStdout(), result.Document)
}
