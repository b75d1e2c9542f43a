package commit

import (
	"nlib/internal/abi"
	"nlib/internal/ast"
	"nlib/internal/diag"
)

// validate checks the whole tree without side effects.
func (c *committer) validate() ([]function, error) {
	t := c.tree
	if t == nil {
		return nil, diag.Errorf(diag.ErrSemantic, diag.SemaUnknownDefinition, "no tree to commit")
	}
	root := t.Get(t.Root())
	if root == nil || root.Kind != ast.Root || len(root.Children) != 1 || t.Get(root.Children[0]) == nil ||
		t.Get(root.Children[0]).Kind != ast.Defs {
		return nil, diag.Errorf(diag.ErrSemantic, diag.SemaUnknownDefinition, "malformed tree: root must hold exactly one Defs node")
	}

	var (
		fns     []function
		library string
		haveLib bool
	)
	for _, id := range t.Definitions() {
		n := t.Get(id)
		switch n.Kind {
		case ast.LibDef:
			library, haveLib = n.Value, true
		case ast.FnDef:
			if !haveLib {
				return nil, c.fail(diag.SemaNoLibrary, n.Span,
					"function %q is declared before any library", n.Value)
			}
			fn, err := c.function(n)
			if err != nil {
				return nil, err
			}
			fn.library = library
			fns = append(fns, fn)
		default:
			return nil, c.fail(diag.SemaUnknownDefinition, n.Span, "unknown definition type %v", n.Kind)
		}
	}
	return fns, nil
}

// FnDef: [TypeDef, Params?]
func (c *committer) function(n *ast.Node) (function, error) {
	fn := function{name: n.Value, span: n.Span}
	if len(n.Children) == 0 {
		return fn, c.fail(diag.SemaInvalidFnDef, n.Span, "invalid function definition %q: missing return type", n.Value)
	}
	if len(n.Children) > 2 {
		return fn, c.fail(diag.SemaInvalidFnDef, n.Span, "invalid function definition %q: %d children", n.Value, len(n.Children))
	}
	ret, err := c.typeOf(n.Children[0], n)
	if err != nil {
		return fn, err
	}
	fn.ret = ret

	if len(n.Children) == 1 {
		return fn, nil
	}
	params := c.tree.Get(n.Children[1])
	if params == nil {
		return fn, c.fail(diag.SemaMalformedParams, n.Span, "invalid function definition %q: dangling parameters", n.Value)
	}
	if params.Kind != ast.Params {
		return fn, c.fail(diag.SemaMalformedParams, params.Span,
			"invalid function definition %q: expected parameters, found %v", n.Value, params.Kind)
	}
	for _, pid := range params.Children {
		p := c.tree.Get(pid)
		if p == nil {
			return fn, c.fail(diag.SemaMalformedParams, params.Span, "malformed parameters of %q", n.Value)
		}
		if p.Kind != ast.Param || len(p.Children) != 1 {
			return fn, c.fail(diag.SemaMalformedParams, p.Span,
				"malformed parameter of %q: expected one typed Param, found %v with %d children", n.Value, p.Kind, len(p.Children))
		}
		arg, err := c.typeOf(p.Children[0], n)
		if err != nil {
			return fn, err
		}
		fn.args = append(fn.args, arg)
	}
	return fn, nil
}

func (c *committer) typeOf(id ast.NodeID, fn *ast.Node) (abi.Type, error) {
	tn := c.tree.Get(id)
	sp := fn.Span
	if tn != nil {
		sp = tn.Span
	}
	if tn == nil || tn.Kind != ast.TypeDef {
		return abi.Type{}, c.fail(diag.SemaInvalidFnDef, sp, "invalid function definition %q: expected a type", fn.Value)
	}
	if !tn.Type.Valid() {
		return abi.Type{}, c.fail(diag.SemaInvalidFnDef, sp,
			"invalid function definition %q: bad type descriptor %+v", fn.Value, tn.Type)
	}
	return tn.Type, nil
}
