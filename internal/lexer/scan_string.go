package lexer

import (
	"nlib/internal/diag"
	"nlib/internal/token"
)

// scanString reads a library name: '"' any-char-except('"')* '"'.
// There are no escapes; the name may span lines.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == '"' {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated library name")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
