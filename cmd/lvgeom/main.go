// Command lvgeom runs the geometry kernel from the shell: batch
// intersection, trim, extend and fillet on stored documents, length
// parsing, script evaluation and DXF export.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chazu/lvcad/pkg/app"
	"github.com/chazu/lvcad/pkg/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
	epsilon    float64

	// Shared by commands that write a file
	outPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lvgeom",
	Short: "lvgeom - 2D CAD geometry kernel tools",
	Long: `lvgeom answers geometry questions about stored drawings.

Documents are JSON, or YAML when the file ends in .yaml or .yml. Lengths
accept feet-inch text such as 10'-6 3/4" or unit suffixes such as 25mm.
Results are written to stdout as JSON.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logCfg := zap.NewProductionConfig()
		if verbose {
			logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = logCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML); LVCAD_* variables override it")
	rootCmd.PersistentFlags().Float64Var(&epsilon, "epsilon", 0, "Geometric tolerance, overriding the config (0 keeps it)")

	initDocCommands()
	initEditCommands()
	initUnitsCommands()
	initRunCommand()

	rootCmd.AddCommand(intersectCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(boundsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(trimCmd)
	rootCmd.AddCommand(extendCmd)
	rootCmd.AddCommand(filletCmd)
	rootCmd.AddCommand(unitsCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp loads the configuration, applies --epsilon and builds the facade.
func newApp() (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if epsilon > 0 {
		cfg.Tolerance.Epsilon = epsilon
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	a, err := app.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return a, nil
}

// printJSON writes v indented to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
