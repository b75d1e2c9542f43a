package parser

import (
	"fmt"

	"nlib/internal/diag"
	"nlib/internal/source"
	"nlib/internal/token"
)

// lexFailure запоминает первую лексическую ошибку.
type lexFailure struct {
	code diag.Code
	span source.Span
	msg  string
	set  bool
}

func (l *lexFailure) Report(code diag.Code, sev diag.Severity, sp source.Span, msg string, _ []diag.Note) {
	if sev != diag.SevError || l.set {
		return
	}
	l.code, l.span, l.msg, l.set = code, sp, msg, true
}

// peek returns the next token without consuming it. It fails on lexical
// errors and on a comment that sits inside a definition.
func (p *Parser) peek() (token.Token, error) {
	tok := p.lx.Peek()
	if tok.Kind == token.Invalid {
		if p.lexErr.set {
			return tok, p.fail(p.lexErr.code, p.lexErr.span, p.lexErr.msg)
		}
		return tok, p.fail(diag.LexUnknownChar, tok.Span, "invalid token "+describe(tok))
	}
	if p.inDef && tok.HasComment() {
		return tok, p.fail(diag.SynCommentInsideDef, commentSpan(tok), "comment inside a definition")
	}
	return tok, nil
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// expect: ожидаем конкретный токен, иначе ошибка с кодом code.
func (p *Parser) expect(k token.Kind, code diag.Code, what string) (token.Token, error) {
	tok, err := p.peek()
	if err != nil {
		return tok, err
	}
	if tok.Kind != k {
		return tok, p.fail(code, p.errSpan(tok), fmt.Sprintf("expected %s, got %s", what, describe(tok)))
	}
	return p.advance(), nil
}

// errSpan на EOF указывает сразу за последним токеном.
func (p *Parser) errSpan(tok token.Token) source.Span {
	if tok.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return tok.Span
}

func (p *Parser) fail(code diag.Code, sp source.Span, msg string) error {
	return diag.At(p.fs, sp, diag.ErrSyntax, code, msg)
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.StringLit:
		return "string " + tok.Text
	}
	return fmt.Sprintf("'%s'", tok.Text)
}

func commentSpan(tok token.Token) source.Span {
	for _, tv := range tok.Leading {
		if tv.Kind == token.TriviaComment {
			return tv.Span
		}
	}
	return tok.Span
}

func startsFnDef(word string) bool {
	switch word[0] {
	case 'i', 'u', 'f', 's', 'p', 'c', 'v':
		return true
	}
	return false
}

// isParamName: alpha alnum*
func isParamName(s string) bool {
	if s == "" || !isAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isAlpha(s[i]) && (s[i] < '0' || s[i] > '9') {
			return false
		}
	}
	return true
}

func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
