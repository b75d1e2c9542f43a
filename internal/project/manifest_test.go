package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nlib/internal/diag"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[bridge]
idl = ["idl/libm.idl", "/abs/libc.idl"]
search_paths = ["lib"]
cache = true

[[hook]]
address = 0x401000
name = "sin"

[[hook]]
address = "0xffff_ffff_0000_1000"
name = "cos"
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	root, _ := filepath.Abs(dir)
	want := &Manifest{
		Path: filepath.Join(root, ManifestName),
		Root: root,
		Bridge: Bridge{
			IDL:         []string{filepath.Join(root, "idl", "libm.idl"), "/abs/libc.idl"},
			SearchPaths: []string{filepath.Join(root, "lib")},
			Cache:       true,
			CacheDir:    filepath.Join(root, ".nlib", "cache"),
		},
		Hooks: []Hook{
			{Address: 0x401000, Name: "sin"},
			{Address: 0xffffffff00001000, Name: "cos"},
		},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("manifest (-want +got):\n%s", diff)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"no bridge", "[[hook]]\naddress = 1\nname = \"x\"\n", ErrBridgeSectionMissing},
		{"empty idl", "[bridge]\nidl = []\n", ErrIDLMissing},
		{"hook without name", "[bridge]\nidl = [\"a.idl\"]\n[[hook]]\naddress = 16\n", ErrHookName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadManifest(writeManifest(t, t.TempDir(), tt.body))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, diag.ErrIO) {
				t.Errorf("err = %v is not an i/o class error", err)
			}
			de, _ := diag.AsError(err)
			if de == nil || de.Code != diag.IOManifestError {
				t.Errorf("code = %v", de)
			}
		})
	}

	if _, err := LoadManifest(writeManifest(t, t.TempDir(), "[bridge]\nidl = [\"a.idl\"]\n[[hook]]\naddress = -1\nname = \"x\"\n")); err == nil {
		t.Error("negative address accepted")
	}
	if _, err := LoadManifest(writeManifest(t, t.TempDir(), "[bridge\n")); err == nil {
		t.Error("broken TOML accepted")
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[bridge]\nidl = [\"x.idl\"]\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Discover(nested)
	if err != nil || !ok {
		t.Fatalf("Discover = %v, %v", ok, err)
	}
	if got, _ := filepath.Abs(root); m.Root != got {
		t.Errorf("root = %q, want %q", m.Root, got)
	}

	dir, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || dir != m.Root {
		t.Errorf("FindProjectRoot = %q, %v, %v", dir, ok, err)
	}
}

func TestCombine(t *testing.T) {
	a := DigestString("a")
	if Combine(a) == Combine(a, DigestString("v1")) {
		t.Error("salt does not change the digest")
	}
	if Combine(a, DigestString("v1")) != Combine(a, DigestString("v1")) {
		t.Error("Combine is not deterministic")
	}
}
