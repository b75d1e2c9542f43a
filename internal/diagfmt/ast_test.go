package diagfmt

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"nlib/internal/ast"
	"nlib/internal/lexer"
	"nlib/internal/parser"
	"nlib/internal/source"
)

const astSrc = "library \"libm.so.6\";\n# sine\nf64 sin(f64 x);\nvoid free(ptr(p) p);\n"

var spanSuffix = regexp.MustCompile(` \(span: [^)]*\)`)

func TestFormatASTTree(t *testing.T) {
	fs := source.NewFileSet()
	tree, err := parser.ParseSource(fs, "m.idl", []byte(astSrc), parser.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatASTTree(&buf, tree, fs); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		`Root`,
		`└─ Defs`,
		`   ├─ LibDef "libm.so.6"`,
		`   ├─ FnDef "sin"`,
		`   │  ├─ TypeDef f64`,
		`   │  └─ Params`,
		`   │     └─ Param "x"`,
		`   │        └─ TypeDef f64`,
		`   └─ FnDef "free"`,
		`      ├─ TypeDef void`,
		`      └─ Params`,
		`         └─ Param "p"`,
		`            └─ TypeDef ptr(p)`,
		``,
	}, "\n")
	if got := spanSuffix.ReplaceAllString(buf.String(), ""); got != want {
		t.Errorf("tree mismatch:\n%s\nwant:\n%s", got, want)
	}
	if !strings.HasPrefix(buf.String(), "Root (span: 1:1-") {
		t.Errorf("root span not resolved: %q", buf.String())
	}
}

func TestFormatASTJSON(t *testing.T) {
	fs := source.NewFileSet()
	tree, err := parser.ParseSource(fs, "m.idl", []byte(astSrc), parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := FormatASTJSON(&buf, tree); err != nil {
		t.Fatal(err)
	}
	var root ASTNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatal(err)
	}
	defs := root.Children[0]
	if root.Kind != "Root" || defs.Kind != "Defs" || len(defs.Children) != 3 {
		t.Fatalf("unexpected shape: %+v", root)
	}
	fn := defs.Children[2]
	param := fn.Children[1].Children[0]
	if fn.Value != "free" || param.Children[0].Type != "ptr" || param.Children[0].Value != "p" {
		t.Errorf("unexpected fn: %+v", fn)
	}
}

func TestFormatASTEmpty(t *testing.T) {
	if err := FormatASTTree(&bytes.Buffer{}, ast.NewTree(0), nil); err == nil {
		t.Error("expected error for tree without root")
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.idl", []byte("# c\nlibrary \"m\";"))
	toks := lexer.New(fs.Get(id), lexer.Options{}).All()

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("want 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `KwLibrary`) || !strings.Contains(lines[0], "(leading: Comment, Newline) # c") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.Contains(lines[1], `"\"m\"" at 2:9-2:12`) {
		t.Errorf("line 2 = %q", lines[1])
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 4 || out[3].Kind != "EOF" || out[0].Comments[0] != "# c" {
		t.Errorf("unexpected json tokens: %+v", out)
	}
}
