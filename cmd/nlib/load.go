package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"nlib/internal/bridge"
	"nlib/internal/diagfmt"
	"nlib/internal/driver"
	"nlib/internal/observ"
	"nlib/internal/project"
	"nlib/internal/trace"
)

var loadCmd = &cobra.Command{
	Use:   "load [flags] [file.idl|directory...]",
	Short: "Load IDL files and print the function registry",
	Long: `Load parses the given IDL files (or the ones listed in nlib.toml), resolves every
declared function in its native library and prints the resulting registry`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().String("format", "table", "output format (table|json)")
	addLoadFlags(loadCmd)
}

// addLoadFlags registers the flags shared by load and hooks.
func addLoadFlags(cmd *cobra.Command) {
	cmd.Flags().Int("jobs", 0, "max parallel parsers (0=auto)")
	cmd.Flags().Bool("cache", false, "reuse parsed trees from the on-disk cache")
	cmd.Flags().String("ui", "auto", "show progress UI (auto|on|off)")
	cmd.Flags().String("manifest", "", "path to nlib.toml (default: search upwards from the working directory)")
	cmd.Flags().StringSlice("search-path", nil, "extra directory searched for native libraries")
}

type loadFlags struct {
	jobs         int
	cache        bool
	ui           uiMode
	manifestPath string
	searchPaths  []string
}

func readLoadFlags(cmd *cobra.Command) (loadFlags, error) {
	var lf loadFlags
	var err error
	if lf.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return lf, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if lf.cache, err = cmd.Flags().GetBool("cache"); err != nil {
		return lf, fmt.Errorf("failed to get cache flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return lf, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if lf.ui, err = readUIMode(uiFlag); err != nil {
		return lf, err
	}
	if lf.manifestPath, err = cmd.Flags().GetString("manifest"); err != nil {
		return lf, fmt.Errorf("failed to get manifest flag: %w", err)
	}
	if lf.searchPaths, err = cmd.Flags().GetStringSlice("search-path"); err != nil {
		return lf, fmt.Errorf("failed to get search-path flag: %w", err)
	}
	return lf, nil
}

// loadManifest returns the manifest named by --manifest or discovered from
// the working directory. With required unset a missing manifest is nil.
func loadManifest(lf loadFlags, required bool) (*project.Manifest, error) {
	if lf.manifestPath != "" {
		return project.LoadManifest(lf.manifestPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	m, ok, err := project.Discover(wd)
	if err != nil {
		return nil, err
	}
	if !ok && required {
		return nil, fmt.Errorf("no %s found in %s or any parent directory", project.ManifestName, wd)
	}
	return m, nil
}

type session struct {
	bridge   *bridge.Context
	manifest *project.Manifest
	result   *driver.LoadResult
}

// openSession loads inputs (the manifest's IDL list when empty) into a new
// bridge context. On failure the context is still returned so the error can
// be rendered against its file set.
func openSession(ctx context.Context, g globalFlags, lf loadFlags, inputs []string, format string, manifestRequired bool) (*session, error) {
	m, err := loadManifest(lf, manifestRequired || len(inputs) == 0)
	if err != nil {
		return nil, err
	}
	s := &session{manifest: m}

	searchPaths := lf.searchPaths
	useCache := lf.cache
	cacheDir := filepath.Join(".nlib", "cache")
	if m != nil {
		if len(inputs) == 0 {
			inputs = m.Bridge.IDL
		}
		searchPaths = append(searchPaths, m.Bridge.SearchPaths...)
		useCache = useCache || m.Bridge.Cache
		cacheDir = m.Bridge.CacheDir
	}
	files, err := driver.ExpandInputs(inputs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no IDL files to load")
	}

	opts := driver.LoadOptions{Jobs: lf.jobs, MaxDiagnostics: g.maxDiagnostics}
	if useCache {
		if opts.Cache, err = driver.OpenDiskCache(cacheDir); err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
	}

	s.bridge = bridge.New(bridge.Options{
		SearchPaths:    searchPaths,
		Tracer:         trace.FromContext(ctx),
		MaxDiagnostics: g.maxDiagnostics,
		Color:          g.color,
	})
	if !g.quiet && shouldUseTUI(lf.ui, format) {
		s.result, err = runLoadWithUI(ctx, "loading IDL", s.bridge, files, opts)
	} else {
		s.result, err = driver.Load(ctx, s.bridge, files, opts)
	}
	return s, err
}

func (s *session) Close() {
	if s != nil && s.bridge != nil {
		_ = s.bridge.Close()
	}
}

func runLoad(cmd *cobra.Command, args []string) error {
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

	ctx, span := trace.BeginCtx(cmd.Context(), trace.ScopeDriver, "nlib load")
	defer span.End("")

	s, err := openSession(ctx, g, lf, args, format, false)
	defer s.Close()
	if err != nil {
		if s == nil || s.bridge == nil {
			return fail(cmd, g, err, nil)
		}
		return fail(cmd, g, err, s.bridge.FileSet())
	}
	reportWarnings(cmd, g, s.bridge)

	out := cmd.OutOrStdout()
	descs := s.bridge.Registry().Descriptors()
	if format == "json" {
		err = diagfmt.FormatRegistryJSON(out, descs)
	} else {
		err = diagfmt.FormatRegistryTable(out, descs)
	}
	if err != nil {
		return err
	}
	if g.timings {
		printTimings(cmd.ErrOrStderr(), s.result.Timings)
	}
	return nil
}

func reportWarnings(cmd *cobra.Command, g globalFlags, c *bridge.Context) {
	if g.quiet || !c.Diagnostics().HasWarnings() {
		return
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), c.Diagnostics(), c.FileSet(), g.prettyOpts())
}

func printTimings(w io.Writer, r observ.Report) {
	for _, p := range r.Phases {
		if p.Note != "" {
			fmt.Fprintf(w, "%-8s %8.2f ms  (%s)\n", p.Name, p.DurationMS, p.Note)
		} else {
			fmt.Fprintf(w, "%-8s %8.2f ms\n", p.Name, p.DurationMS)
		}
	}
	fmt.Fprintf(w, "%-8s %8.2f ms\n", "total", r.TotalMS)
}
