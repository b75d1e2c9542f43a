package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nlib/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "nlib",
	Short:         "Native library bridge: IDL loader and function registry",
	Long:          `nlib reads IDL files describing native library functions, resolves them and maps guest addresses to them`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// traceCleanup закрывает трассировщик после команды
var traceCleanup = func() {}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(hooksCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "ring buffer size for --trace-mode=ring")
	flags.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		traceCleanup()
	}
}

// main executes the root command. Commands print their own diagnostics
// and return errReported; anything else is printed here. Both exit with 1.
func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	dumpTraceRing(os.Stderr)
	traceCleanup()
	os.Exit(1)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
