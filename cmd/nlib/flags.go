package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"nlib/internal/diagfmt"
	"nlib/internal/source"
)

// errReported marks a failure whose diagnostic has already been printed.
var errReported = errors.New("failure already reported")

type globalFlags struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	pf := cmd.Root().PersistentFlags()
	var g globalFlags

	colorFlag, err := pf.GetString("color")
	if err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(colorFlag) {
	case "on":
		g.color = true
	case "off":
		g.color = false
	case "auto", "":
		g.color = isTerminal(os.Stderr)
	default:
		return g, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	if g.quiet, err = pf.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = pf.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return g, nil
}

func (g globalFlags) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     g.color,
		Context:   2,
		PathMode:  diagfmt.PathModeAuto,
		ShowNotes: true,
	}
}

// fail печатает ошибку в stderr и возвращает errReported.
func fail(cmd *cobra.Command, g globalFlags, err error, fs *source.FileSet) error {
	diagfmt.PrettyError(cmd.ErrOrStderr(), err, fs, g.prettyOpts())
	return errReported
}
