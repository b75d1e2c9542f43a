package lexer

import "nlib/internal/token"

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ', '\t', '\r' коалесцируются в один TriviaSpace
//   - последовательные '\n' коалесцируются в один TriviaNewline
//   - '#' ... до '\n' или EOF -> TriviaComment ('\n' в комментарий не входит)
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		var kind token.TriviaKind
		switch b := lx.cursor.Peek(); {
		case isSpace(b):
			for isSpace(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			kind = token.TriviaSpace
		case b == '\n':
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			kind = token.TriviaNewline
		case b == '#':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			kind = token.TriviaComment
		default:
			return
		}
		sp := lx.cursor.SpanFrom(start)
		lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
	}
}
