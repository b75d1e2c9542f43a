package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nlib/internal/diagfmt"
	"nlib/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.idl",
	Short: "Parse an IDL file and print its syntax tree",
	Long: `Parse builds the syntax tree of an IDL file and checks it the way a load would,
without opening any native library`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "tree" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Parse(args[0], g.maxDiagnostics)
	if err != nil {
		if result == nil {
			return fail(cmd, g, err, nil)
		}
		return fail(cmd, g, err, result.FileSet)
	}
	if !g.quiet && result.Bag.HasWarnings() {
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, g.prettyOpts())
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return diagfmt.FormatASTJSON(out, result.Tree)
	}
	return diagfmt.FormatASTTree(out, result.Tree, result.FileSet)
}
