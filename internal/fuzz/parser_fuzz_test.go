package fuzztests

import (
	"errors"
	"testing"
	"time"

	"nlib/internal/commit"
	"nlib/internal/diag"
	"nlib/internal/parser"
	"nlib/internal/source"
	"nlib/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

// FuzzParserTreeInvariants checks that a successful parse yields a tree
// whose spans are consistent, and that a failure is a positioned error of
// a known class.
func FuzzParserTreeInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clip(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.idl", input))

		bag := diag.NewBag(128)
		tree, err := parser.ParseFile(fs, file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
		if err != nil {
			if !errors.Is(err, diag.ErrSyntax) {
				t.Fatalf("parse error of unexpected class: %v", err)
			}
			if de, ok := diag.AsError(err); !ok || de.Pos.Line == 0 {
				t.Fatalf("parse error without position: %v", err)
			}
			return
		}
		if err := testkit.CheckSpanInvariants(tree, file); err != nil {
			t.Fatal(err)
		}
		if err := commit.Validate(tree, commit.Options{FileSet: fs}); err != nil && !errors.Is(err, diag.ErrSemantic) {
			t.Fatalf("validation error of unexpected class: %v", err)
		}
	})
}

// FuzzParserNoHang tests that the parser returns on any input.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("# comment" + string(make([]byte, 64))))
	f.Add([]byte("library \"m\";\nvoid f(ptr(ptr(ptr(a) b) c) d);"))
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clip(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.idl", input))

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = parser.ParseFile(fs, file, parser.Options{})
		}()
		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("parser hung on %q", input)
		}
	})
}
