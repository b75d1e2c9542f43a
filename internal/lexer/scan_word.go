package lexer

import "nlib/internal/token"

// scanWord сканирует [A-Za-z_][A-Za-z0-9_]* и проверяет через LookupKeyword.
// Ограничения на имена параметров проверяет парсер.
func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isWordContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
