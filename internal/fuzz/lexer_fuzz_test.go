package fuzztests

import (
	"testing"

	"nlib/internal/diag"
	"nlib/internal/lexer"
	"nlib/internal/source"
	"nlib/internal/token"
)

func FuzzLexerTerminates(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clip(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.idl", input))

		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: diag.NewBag(128)}})
		toks := lx.All()
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream does not end with EOF: %v", toks)
		}
		// каждый токен, кроме EOF, продвигает позицию
		if len(toks) > len(input)+1 {
			t.Fatalf("%d tokens for %d bytes", len(toks), len(input))
		}
		var prev uint32
		for _, tok := range toks {
			if tok.Span.Start < prev || tok.Span.End < tok.Span.Start || int(tok.Span.End) > len(input) {
				t.Fatalf("bad span %v after offset %d", tok.Span, prev)
			}
			prev = tok.Span.End
		}
	})
}
