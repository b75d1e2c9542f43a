package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nlib/internal/diagfmt"
	"nlib/internal/hooks"
	"nlib/internal/trace"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks [flags]",
	Short: "Register the manifest's guest hooks and print the hook table",
	Long: `Hooks loads the IDL files listed in nlib.toml, binds every [[hook]] address to its
function and prints the resulting table. Hooks naming an unknown function are reported
and skipped`,
	Args: cobra.NoArgs,
	RunE: runHooks,
}

func init() {
	hooksCmd.Flags().String("format", "table", "output format (table|json)")
	addLoadFlags(hooksCmd)
}

func runHooks(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "table" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	lf, err := readLoadFlags(cmd)
	if err != nil {
		return err
	}

	ctx, span := trace.BeginCtx(cmd.Context(), trace.ScopeDriver, "nlib hooks")
	defer span.End("")

	s, err := openSession(ctx, g, lf, nil, format, true)
	defer s.Close()
	if err != nil {
		if s == nil || s.bridge == nil {
			return fail(cmd, g, err, nil)
		}
		return fail(cmd, g, err, s.bridge.FileSet())
	}
	reportWarnings(cmd, g, s.bridge)

	misses := 0
	for _, h := range s.manifest.Hooks {
		if !s.bridge.RegisterHook(uint64(h.Address), h.Name) {
			misses++
			if !g.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: hook %s: no function named %q\n",
					hooks.FormatAddress(uint64(h.Address)), h.Name)
			}
		}
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatHooksJSON(out, s.bridge.Hooks())
	} else {
		err = diagfmt.FormatHooksTable(out, s.bridge.Hooks())
	}
	if err != nil {
		return err
	}
	if !g.quiet && format == "table" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d hooks bound, %d missed\n", s.bridge.Hooks().Len(), misses)
	}
	if g.timings {
		printTimings(cmd.ErrOrStderr(), s.result.Timings)
	}
	return nil
}
