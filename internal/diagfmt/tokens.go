package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"nlib/internal/source"
	"nlib/internal/token"
)

type TokenOutput struct {
	Kind     string      `json:"kind"`
	Text     string      `json:"text,omitempty"`
	Span     source.Span `json:"span"`
	Leading  []string    `json:"leading,omitempty"`
	Comments []string    `json:"comments,omitempty"`
}

func leadingKinds(tok token.Token) (kinds, comments []string) {
	for _, tv := range tok.Leading {
		kinds = append(kinds, tv.Kind.String())
		if tv.Kind == token.TriviaComment {
			comments = append(comments, tv.Text)
		}
	}
	return kinds, comments
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)
		leading, comments := leadingKinds(tok)

		if _, err := fmt.Fprintf(w, "%3d: %-12s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)
		if len(leading) > 0 {
			fmt.Fprintf(w, " (leading: %s)", strings.Join(leading, ", "))
		}
		for _, c := range comments {
			fmt.Fprintf(w, " %s", c)
		}
		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		leading, comments := leadingKinds(tok)
		output = append(output, TokenOutput{
			Kind:     tok.Kind.String(),
			Text:     tok.Text,
			Span:     tok.Span,
			Leading:  leading,
			Comments: comments,
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	return encodeJSON(w, output)
}
