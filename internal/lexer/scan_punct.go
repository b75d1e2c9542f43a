package lexer

import (
	"fmt"

	"nlib/internal/diag"
	"nlib/internal/token"
)

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	kind := token.Invalid
	switch b {
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	default:
		// съедаем всю UTF-8 последовательность, чтобы не резать руну
		if b >= utf8RuneSelf {
			for !lx.cursor.EOF() && isContinuationByte(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if kind == token.Invalid {
		lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unexpected character '%s'", text))
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}
