package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"nlib/internal/ast"
	"nlib/internal/source"
)

// CheckSpanInvariants checks a parsed tree against its file:
//  1. every span points at sf and lies within its content
//  2. every definition span is non-empty
//  3. a child's span lies within its parent's (Root/Defs included)
func CheckSpanInvariants(tree *ast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var failure error
	tree.Walk(tree.Root(), func(id ast.NodeID, n *ast.Node, _ int) {
		if failure != nil {
			return
		}
		sp := n.Span
		switch {
		case sp.File != sf.ID:
			failure = fmt.Errorf("node %d (%v): span in file %d, want %d", id, n.Kind, sp.File, sf.ID)
		case sp.End < sp.Start || sp.End > size:
			failure = fmt.Errorf("node %d (%v): span %v outside content of %d bytes", id, n.Kind, sp, size)
		case (n.Kind == ast.LibDef || n.Kind == ast.FnDef) && sp.Empty():
			failure = fmt.Errorf("node %d (%v): empty definition span", id, n.Kind)
		}
		for _, c := range n.Children {
			csp := tree.Get(c).Span
			if failure == nil && (csp.Start < sp.Start || csp.End > sp.End) {
				failure = fmt.Errorf("node %d span %v escapes parent %d span %v", c, csp, id, sp)
			}
		}
	})
	return failure
}
