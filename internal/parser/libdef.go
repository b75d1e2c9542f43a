package parser

import (
	"nlib/internal/ast"
	"nlib/internal/diag"
	"nlib/internal/token"
)

// libdef := "library" libname ";"
func (p *Parser) parseLibDef() (ast.NodeID, error) {
	kw := p.advance()
	p.inDef = true
	defer func() { p.inDef = false }()

	name, err := p.expect(token.StringLit, diag.SynExpectLibraryName, "library name in quotes")
	if err != nil {
		return ast.NoNodeID, err
	}
	semi, err := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'")
	if err != nil {
		return ast.NoNodeID, err
	}
	return p.tree.New(ast.LibDef, kw.Span.Cover(semi.Span), name.StringValue()), nil
}
