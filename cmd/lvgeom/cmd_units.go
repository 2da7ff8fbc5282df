package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chazu/lvcad/pkg/app"
	"github.com/chazu/lvcad/pkg/units"
)

// unitsCmd groups the length conversion commands
var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Parse, format and list lengths and units",
}

var unitsParseCmd = &cobra.Command{
	Use:   "parse TEXT...",
	Short: "Parse length text to canonical inches",
	Long: `Bare numbers are read in units.display. Each argument is echoed back
in the configured display format.

Example:
  lvgeom units parse "10'-6 3/4\"" 25mm`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUnitsParse,
}

var unitsFormatCmd = &cobra.Command{
	Use:   "format INCHES...",
	Short: "Format canonical inch values in the display format",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUnitsFormat,
}

var unitsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the unit table",
	Args:  cobra.NoArgs,
	RunE:  runUnitsList,
}

func initUnitsCommands() {
	unitsCmd.AddCommand(unitsParseCmd)
	unitsCmd.AddCommand(unitsFormatCmd)
	unitsCmd.AddCommand(unitsListCmd)
}

// lengthReplies prints every reply and fails if any of them did.
func lengthReplies(cmd *cobra.Command, replies []app.LengthReply) error {
	if err := printJSON(cmd.OutOrStdout(), replies); err != nil {
		return err
	}
	for _, r := range replies {
		if r.Error != "" {
			return fmt.Errorf("%s", r.Error)
		}
	}
	return nil
}

func runUnitsParse(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	replies := make([]app.LengthReply, len(args))
	for i, s := range args {
		replies[i] = a.ParseLength(s)
	}
	return lengthReplies(cmd, replies)
}

func runUnitsFormat(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	replies := make([]app.LengthReply, len(args))
	for i, s := range args {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("format: %q is not a number", s)
		}
		replies[i] = a.FormatLength(v)
	}
	return lengthReplies(cmd, replies)
}

func runUnitsList(cmd *cobra.Command, args []string) error {
	type row struct {
		Name    string   `json:"name"`
		Symbol  string   `json:"symbol"`
		Inches  float64  `json:"inches"`
		Aliases []string `json:"aliases"`
	}
	var rows []row
	for _, u := range units.All() {
		rows = append(rows, row{Name: u.Name, Symbol: u.Symbol, Inches: u.Factor, Aliases: u.Aliases})
	}
	return printJSON(cmd.OutOrStdout(), rows)
}
