package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nlib/internal/bridge"
	"nlib/internal/diag"
	"nlib/internal/parser"
	"nlib/internal/source"
	"nlib/internal/testkit"
	"nlib/internal/token"
)

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newBridge(t *testing.T) *bridge.Context {
	t.Helper()
	c := bridge.New(bridge.Options{Loader: testkit.NewFakeLoader(map[string][]string{
		"libm.so.6": {"sin", "cos", "pow"},
		"libc.so.6": {"strlen", "puts"},
	})})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestTokenize(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.idl", "library \"m\"; $")
	res, err := Tokenize(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	var kinds []token.Kind
	for _, tok := range res.Tokens {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{token.KwLibrary, token.StringLit, token.Semicolon, token.Invalid, token.EOF}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
	if items := res.Bag.Items(); len(items) != 1 || items[0].Code != diag.LexUnknownChar {
		t.Errorf("diagnostics = %+v", items)
	}

	if _, err := Tokenize(filepath.Join(t.TempDir(), "missing.idl"), 10); !errors.Is(err, diag.ErrIO) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestParseRunsValidation(t *testing.T) {
	dir := t.TempDir()
	res, err := Parse(writeFile(t, dir, "ok.idl", "library \"libnothere.so\";\nvoid f(ptr(buf) buf);\n"), 10)
	if err != nil {
		t.Fatalf("parse must not load modules: %v", err)
	}
	if res.Tree == nil || len(res.Tree.Definitions()) != 2 {
		t.Errorf("tree = %+v", res.Tree)
	}

	res, err = Parse(writeFile(t, dir, "nolib.idl", "void f();\n"), 10)
	if !errors.Is(err, diag.ErrSemantic) || res == nil || res.Tree == nil {
		t.Fatalf("err = %v, res = %+v", err, res)
	}
	if !res.Bag.HasErrors() {
		t.Error("semantic error not in bag")
	}

	res, err = Parse(writeFile(t, dir, "syn.idl", "library \"m\"\n"), 10)
	if !errors.Is(err, diag.ErrSyntax) || res == nil || res.Tree != nil {
		t.Fatalf("err = %v, res = %+v", err, res)
	}
}

func TestLoadOrderAndStop(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.idl", "library \"libm.so.6\";\nf64 sin(f64 x);\nf64 cos(f64 x);\n")
	b := writeFile(t, dir, "b.idl", "library \"libc.so.6\";\nu64 strlen(string s);\nvoid nothere();\n")
	c := writeFile(t, dir, "c.idl", "library \"libc.so.6\";\ni32 puts(string s);\n")

	ctx := newBridge(t)
	var mu sync.Mutex
	var failed []string
	res, err := Load(context.Background(), ctx, []string{a, b, c}, LoadOptions{
		Jobs: 3,
		Observer: func(ev ProgressEvent) {
			if ev.Stage == StageFailed {
				mu.Lock()
				failed = append(failed, ev.File)
				mu.Unlock()
			}
		},
	})
	if !errors.Is(err, diag.ErrResolution) {
		t.Fatalf("err = %v", err)
	}
	if got := res.Files[0].Functions; len(got) != 2 {
		t.Errorf("a.idl registered %v", got)
	}
	if res.Files[1].Err == nil || len(res.Files[1].Functions) != 0 {
		t.Errorf("b.idl = %+v", res.Files[1])
	}
	if len(res.Files[2].Functions) != 0 {
		t.Errorf("c.idl must not be committed after b.idl failed")
	}
	if n := ctx.Registry().Len(); n != 2 {
		t.Errorf("registry len = %d, want 2", n)
	}
	if diff := cmp.Diff([]string{b}, failed); diff != "" {
		t.Errorf("failed events (-want +got):\n%s", diff)
	}
	if len(res.Timings.Phases) != 2 {
		t.Errorf("timings = %+v", res.Timings)
	}
}

func TestLoadSyntaxErrorInLaterFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.idl", "library \"libm.so.6\";\nf64 sin(f64 x);\n")
	b := writeFile(t, dir, "b.idl", "library \"libm.so.6\";\nf64 cos(f64 x # oops\n);\n")

	ctx := newBridge(t)
	res, err := Load(context.Background(), ctx, []string{a, b}, LoadOptions{})
	de, ok := diag.AsError(err)
	if !ok || de.Code != diag.SynCommentInsideDef || de.Pos.Line != 2 {
		t.Fatalf("err = %v", err)
	}
	if res.Functions() != 1 || ctx.Registry().Len() != 1 {
		t.Errorf("functions = %d, registry = %d", res.Functions(), ctx.Registry().Len())
	}
	if !ctx.Diagnostics().HasErrors() {
		t.Error("syntax error not merged into context diagnostics")
	}
}

func TestLoadMissingFile(t *testing.T) {
	ctx := newBridge(t)
	_, err := Load(context.Background(), ctx, []string{filepath.Join(t.TempDir(), "none.idl")}, LoadOptions{})
	if !errors.Is(err, diag.ErrIO) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v", err)
	}
}

func TestLoadUsesDiskCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "m.idl", "library \"libm.so.6\";\n# power\nf64 pow(f64 x, f64 y);\n")
	cache, err := OpenDiskCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	first := newBridge(t)
	res, err := Load(context.Background(), first, []string{path}, LoadOptions{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if res.Files[0].Cached {
		t.Error("cold cache reported a hit")
	}

	second := newBridge(t)
	res, err = Load(context.Background(), second, []string{path}, LoadOptions{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Files[0].Cached {
		t.Error("warm cache missed")
	}
	d1, _ := first.LookupFunction(0)
	d2, _ := second.LookupFunction(0)
	if d1.Signature() != d2.Signature() || d2.Signature() != "f64 (f64, f64)" {
		t.Errorf("signatures %q vs %q", d1.Signature(), d2.Signature())
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	third := newBridge(t)
	res, err = Load(context.Background(), third, []string{path}, LoadOptions{Cache: cache})
	if err != nil || res.Files[0].Cached {
		t.Errorf("after DropAll: cached = %v, err = %v", res.Files[0].Cached, err)
	}
}

func TestPayloadRebindsSpans(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("pad.idl", []byte("x"))
	id := fs.AddVirtual("m.idl", []byte("library \"m\";\nvoid f();\n"))
	f := fs.Get(id)
	tree, err := parser.ParseFile(fs, f, parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	payload := treeToPayload(f, tree)

	other := source.NewFileSet()
	oid := other.AddVirtual("m.idl", f.Content)
	restored := payloadToTree(other.Get(oid), payload)
	if restored == nil {
		t.Fatal("payload rejected")
	}
	for _, n := range restored.Nodes() {
		if n.Span.File != oid {
			t.Fatalf("span %v not rebound to file %d", n.Span, oid)
		}
	}
	if err := testkit.CheckSpanInvariants(restored, other.Get(oid)); err != nil {
		t.Error(err)
	}

	stale := source.NewFileSet()
	sid := stale.AddVirtual("m.idl", []byte("library \"n\";\n"))
	if payloadToTree(stale.Get(sid), payload) != nil {
		t.Error("payload accepted for different content")
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "sub/b.idl", "")
	a := writeFile(t, dir, "a.idl", "")
	writeFile(t, dir, "notes.txt", "")
	single := filepath.Join(dir, "explicit.txt")

	got, err := ExpandInputs([]string{dir, single})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{a, b, single}, got); diff != "" {
		t.Errorf("inputs (-want +got):\n%s", diff)
	}
}
