// Package project reads the nlib.toml manifest: the IDL files to load, the
// directories searched for native libraries and the guest hook map.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"nlib/internal/diag"
)

var (
	// ErrBridgeSectionMissing indicates that [bridge] is missing.
	ErrBridgeSectionMissing = errors.New("missing [bridge]")
	// ErrIDLMissing indicates that [bridge].idl is missing or empty.
	ErrIDLMissing = errors.New("missing [bridge].idl")
	// ErrHookName indicates a [[hook]] without a name.
	ErrHookName = errors.New("[[hook]] requires a name")
)

// Address is a guest virtual address. TOML integers and "0x..." strings
// are both accepted; the latter covers addresses above MaxInt64.
type Address uint64

func (a *Address) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		if x < 0 {
			return fmt.Errorf("negative address %d", x)
		}
		*a = Address(x)
	case string:
		n, err := strconv.ParseUint(strings.ReplaceAll(x, "_", ""), 0, 64)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", x, err)
		}
		*a = Address(n)
	default:
		return fmt.Errorf("address must be an integer or a string, got %T", v)
	}
	return nil
}

type Hook struct {
	Address Address `toml:"address"`
	Name    string  `toml:"name"`
}

type Bridge struct {
	IDL         []string `toml:"idl"`
	SearchPaths []string `toml:"search_paths"`
	Cache       bool     `toml:"cache"`
	CacheDir    string   `toml:"cache_dir"` // по умолчанию <root>/.nlib/cache
}

// Manifest is a decoded nlib.toml. Relative paths are resolved against Root.
type Manifest struct {
	Path   string
	Root   string
	Bridge Bridge
	Hooks  []Hook
}

type manifestFile struct {
	Bridge Bridge `toml:"bridge"`
	Hooks  []Hook `toml:"hook"`
}

func manifestError(path string, cause error) error {
	return &diag.Error{
		Class:   diag.ErrIO,
		Code:    diag.IOManifestError,
		Message: "invalid manifest",
		Path:    path,
		Cause:   cause,
	}
}

// LoadManifest parses and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, manifestError(path, err)
	}
	var cfg manifestFile
	meta, err := toml.DecodeFile(abs, &cfg)
	if err != nil {
		return nil, manifestError(abs, fmt.Errorf("failed to parse TOML: %w", err))
	}
	if !meta.IsDefined("bridge") {
		return nil, manifestError(abs, ErrBridgeSectionMissing)
	}
	if len(cfg.Bridge.IDL) == 0 {
		return nil, manifestError(abs, ErrIDLMissing)
	}
	for i, h := range cfg.Hooks {
		if strings.TrimSpace(h.Name) == "" {
			return nil, manifestError(abs, fmt.Errorf("hook #%d: %w", i+1, ErrHookName))
		}
	}

	m := &Manifest{
		Path:   abs,
		Root:   filepath.Dir(abs),
		Bridge: cfg.Bridge,
		Hooks:  cfg.Hooks,
	}
	m.Bridge.IDL = m.resolveAll(cfg.Bridge.IDL)
	m.Bridge.SearchPaths = m.resolveAll(cfg.Bridge.SearchPaths)
	if m.Bridge.CacheDir == "" {
		m.Bridge.CacheDir = filepath.Join(m.Root, ".nlib", "cache")
	} else {
		m.Bridge.CacheDir = m.resolve(m.Bridge.CacheDir)
	}
	return m, nil
}

// Discover finds nlib.toml above startDir and loads it. ok is false when
// there is none.
func Discover(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err = LoadManifest(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}

func (m *Manifest) resolveAll(ps []string) []string {
	if len(ps) == 0 {
		return nil
	}
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = m.resolve(p)
	}
	return out
}
