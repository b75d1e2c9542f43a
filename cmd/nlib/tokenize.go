package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nlib/internal/diagfmt"
	"nlib/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.idl",
	Short: "Tokenize an IDL file",
	Long:  `Tokenize breaks an IDL file down into tokens, with attached comments and newlines`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], g.maxDiagnostics)
	if err != nil {
		return fail(cmd, g, err, nil)
	}

	// Диагностика лексера в stderr, токены печатаются всё равно
	if !g.quiet && result.Bag.Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, g.prettyOpts())
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatTokensJSON(out, result.Tokens)
	} else {
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errReported
	}
	return nil
}
