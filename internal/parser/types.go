package parser

import (
	"nlib/internal/ast"
	"nlib/internal/diag"
	"nlib/internal/token"
)

// ctype   := "const" type | type
// ptrtype := "ptr" [ "(" paramname ")" ]
//
// The returned TypeDef carries the descriptor; the ptr binding name, when
// present, is kept in Value and has no registry effect.
func (p *Parser) parseCType() (ast.NodeID, error) {
	tok, err := p.peek()
	if err != nil {
		return ast.NoNodeID, err
	}
	start := tok.Span
	isConst := false
	if tok.Kind == token.KwConst {
		p.advance()
		isConst = true
		// "const" и тип: одно определение
		was := p.inDef
		p.inDef = true
		tok, err = p.peek()
		p.inDef = was
		if err != nil {
			return ast.NoNodeID, err
		}
	}
	if !tok.Kind.IsType() {
		if isConst && tok.Kind != token.Ident {
			return ast.NoNodeID, p.fail(diag.SynExpectType, p.errSpan(tok), "expected type after 'const', got "+describe(tok))
		}
		return ast.NoNodeID, p.badType(tok)
	}
	p.advance()

	typ, ok := tok.TypeOf()
	if !ok {
		return ast.NoNodeID, p.fail(diag.SynUnknownType, tok.Span, "unknown type "+describe(tok))
	}
	typ = typ.WithConst(isConst)
	sp := start.Cover(tok.Span)

	binding := ""
	if tok.Kind == token.KwPtr {
		was := p.inDef
		p.inDef = true
		next, err := p.peek()
		if err == nil && next.Kind == token.LParen {
			p.advance()
			var name token.Token
			if name, err = p.parseParamName(); err == nil {
				var closing token.Token
				if closing, err = p.expect(token.RParen, diag.SynExpectRParen, "')' after pointer binding"); err == nil {
					binding = name.Text
					sp = sp.Cover(closing.Span)
				}
			}
		}
		p.inDef = was
		if err != nil {
			return ast.NoNodeID, err
		}
	}
	return p.tree.NewType(sp, typ, binding), nil
}

// badType объясняет, почему токен не тип. Слова на 'c' разбираются
// по второй букве: 'o' -> const, 'p' -> cplx.
func (p *Parser) badType(tok token.Token) error {
	sp := p.errSpan(tok)
	if tok.Kind != token.Ident {
		return p.fail(diag.SynExpectType, sp, "expected type, got "+describe(tok))
	}
	if tok.Text[0] == 'c' {
		msg := "expected 'const' or 'cplx', got " + describe(tok)
		if len(tok.Text) > 1 {
			switch tok.Text[1] {
			case 'o':
				msg = "expected 'const', got " + describe(tok)
			case 'p':
				msg = "expected 'cplx', got " + describe(tok)
			}
		}
		return p.fail(diag.SynExpectConstOrCplx, sp, msg)
	}
	return p.fail(diag.SynUnknownType, sp, "unknown type "+describe(tok))
}
