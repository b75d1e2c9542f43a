package parser

import (
	"fmt"

	"nlib/internal/ast"
	"nlib/internal/diag"
	"nlib/internal/token"
)

// fndef := ctype fname "(" params ")" ";"
func (p *Parser) parseFnDef() (ast.NodeID, error) {
	start := p.lx.Peek().Span
	ret, err := p.parseCType()
	if err != nil {
		return ast.NoNodeID, err
	}
	p.inDef = true
	defer func() { p.inDef = false }()

	nameTok, err := p.peek()
	if err != nil {
		return ast.NoNodeID, err
	}
	if !nameTok.IsWord() {
		return ast.NoNodeID, p.fail(diag.SynExpectFnName, p.errSpan(nameTok),
			"expected function name, got "+describe(nameTok))
	}
	p.advance()

	params, err := p.parseParams()
	if err != nil {
		return ast.NoNodeID, err
	}
	semi, err := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'")
	if err != nil {
		return ast.NoNodeID, err
	}

	fn := p.tree.New(ast.FnDef, start.Cover(semi.Span), nameTok.Text)
	p.tree.AddChild(fn, ret)
	p.tree.AddChild(fn, params)
	return fn, nil
}

// "(" params ")"
// params := param ("," param)* | ε
func (p *Parser) parseParams() (ast.NodeID, error) {
	open, err := p.expect(token.LParen, diag.SynExpectLParen, "'('")
	if err != nil {
		return ast.NoNodeID, err
	}
	var list []ast.NodeID
	tok, err := p.peek()
	if err != nil {
		return ast.NoNodeID, err
	}
	for tok.Kind != token.RParen {
		param, err := p.parseParam()
		if err != nil {
			return ast.NoNodeID, err
		}
		list = append(list, param)

		if tok, err = p.peek(); err != nil {
			return ast.NoNodeID, err
		}
		switch tok.Kind {
		case token.Comma:
			p.advance()
			// после запятой обязателен параметр: "f(i32 a,)": ошибка
			if tok, err = p.peek(); err != nil {
				return ast.NoNodeID, err
			}
			if tok.Kind == token.RParen {
				return ast.NoNodeID, p.fail(diag.SynExpectType, tok.Span, "expected parameter type after ','")
			}
		case token.RParen:
		default:
			return ast.NoNodeID, p.fail(diag.SynExpectRParen, p.errSpan(tok),
				"expected ',' or ')', got "+describe(tok))
		}
	}
	closing := p.advance()

	params := p.tree.New(ast.Params, open.Span.Cover(closing.Span), "")
	for _, id := range list {
		p.tree.AddChild(params, id)
	}
	return params, nil
}

// param := ctype paramname
func (p *Parser) parseParam() (ast.NodeID, error) {
	start := p.lx.Peek().Span
	typ, err := p.parseCType()
	if err != nil {
		return ast.NoNodeID, err
	}
	name, err := p.parseParamName()
	if err != nil {
		return ast.NoNodeID, err
	}
	param := p.tree.New(ast.Param, start.Cover(name.Span), name.Text)
	p.tree.AddChild(param, typ)
	return param, nil
}

func (p *Parser) parseParamName() (token.Token, error) {
	tok, err := p.peek()
	if err != nil {
		return tok, err
	}
	if !tok.IsWord() || !isParamName(tok.Text) {
		msg := "expected parameter name, got " + describe(tok)
		if tok.IsWord() {
			msg = fmt.Sprintf("invalid parameter name '%s': letters and digits only, starting with a letter", tok.Text)
		}
		return tok, p.fail(diag.SynExpectParamName, p.errSpan(tok), msg)
	}
	return p.advance(), nil
}
