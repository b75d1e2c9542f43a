// Package parser turns IDL source into an ast.Tree.
//
// The parser is a hand-written recursive descent over lexer tokens. It
// stops at the first lexical or grammatical violation and returns a
// positioned *diag.Error of class diag.ErrSyntax; there is no recovery.
package parser

import (
	"nlib/internal/ast"
	"nlib/internal/diag"
	"nlib/internal/lexer"
	"nlib/internal/source"
	"nlib/internal/token"
)

type Options struct {
	// Reporter receives the syntax error as a diagnostic. May be nil.
	Reporter diag.Reporter
}

// Parser: состояние парсера на один файл
type Parser struct {
	fs       *source.FileSet
	file     *source.File
	lx       *lexer.Lexer
	lexErr   *lexFailure
	tree     *ast.Tree
	opts     Options
	inDef    bool        // внутри определения комментарии запрещены
	lastSpan source.Span // span последнего съеденного токена
}

// ParseFile parses one IDL file. On failure the tree is nil and err is a *diag.Error.
func ParseFile(fs *source.FileSet, file *source.File, opts Options) (*ast.Tree, error) {
	lf := &lexFailure{}
	p := &Parser{
		fs:     fs,
		file:   file,
		lx:     lexer.New(file, lexer.Options{Reporter: lf}),
		lexErr: lf,
		tree:   ast.NewTree(estimateNodes(len(file.Content))),
		opts:   opts,
	}
	if err := p.parseIDL(); err != nil {
		de, _ := diag.AsError(err)
		if p.opts.Reporter != nil && de != nil {
			d := de.Diagnostic()
			p.opts.Reporter.Report(d.Code, d.Severity, d.Primary, d.Message, nil)
		}
		return nil, err
	}
	return p.tree, nil
}

// ParseSource registers src as a virtual file in fs and parses it.
func ParseSource(fs *source.FileSet, name string, src []byte, opts Options) (*ast.Tree, error) {
	id := fs.AddVirtual(name, src)
	return ParseFile(fs, fs.Get(id), opts)
}

// idl := defs
func (p *Parser) parseIDL() error {
	sp := source.Span{File: p.file.ID}
	root := p.tree.New(ast.Root, sp, "")
	defs := p.tree.New(ast.Defs, sp, "")
	p.tree.AddChild(root, defs)
	p.tree.SetRoot(root)

	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
		def, err := p.parseDef(tok)
		if err != nil {
			return err
		}
		p.tree.AddChild(defs, def)
	}

	sp.End = p.lastSpan.End
	p.tree.Get(root).Span = sp
	p.tree.Get(defs).Span = sp
	return nil
}

// parseDef выбирает распознаватель по первому токену.
func (p *Parser) parseDef(tok token.Token) (ast.NodeID, error) {
	switch {
	case tok.Kind == token.KwLibrary:
		return p.parseLibDef()
	case tok.IsTypeStart():
		return p.parseFnDef()
	case tok.Kind == token.Ident && startsFnDef(tok.Text):
		// i/u/f/s/p/c/v ведут в fndef; там же и упадём с точной ошибкой
		return ast.NoNodeID, p.badType(tok)
	default:
		return ast.NoNodeID, p.fail(diag.SynUnexpectedTopLevel, tok.Span,
			"expected 'library', a type or a comment, got "+describe(tok))
	}
}

func estimateNodes(n int) uint {
	// грубо: одно определение на ~24 байта, ~6 узлов на определение
	return uint(n/4 + 2)
}
