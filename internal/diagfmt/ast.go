package diagfmt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"nlib/internal/ast"
	"nlib/internal/source"
)

type ASTNodeOutput struct {
	Kind     string          `json:"kind"`
	Value    string          `json:"value,omitempty"`
	Type     string          `json:"type,omitempty"`
	Span     source.Span     `json:"span"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

var errEmptyTree = errors.New("tree has no root")

// formatSpan возвращает "line:col-line:col" или "span(start-end)" без FileSet.
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil && fs.Get(span.File) != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

func nodeLabel(n *ast.Node) string {
	var sb strings.Builder
	sb.WriteString(n.Kind.String())
	switch n.Kind {
	case ast.TypeDef:
		sb.WriteByte(' ')
		sb.WriteString(n.Type.String())
		if n.Value != "" {
			fmt.Fprintf(&sb, "(%s)", n.Value)
		}
	case ast.LibDef, ast.FnDef, ast.Param:
		fmt.Fprintf(&sb, " %q", n.Value)
	}
	return sb.String()
}

// FormatASTTree печатает дерево с отступами:
//
//	Root (span: 1:1-2:24)
//	└─ Defs (span: 1:1-2:24)
//	   ├─ LibDef "libm.so.6" (span: 1:1-1:20)
//	   └─ FnDef "sin" (span: 2:1-2:24)
func FormatASTTree(w io.Writer, tree *ast.Tree, fs *source.FileSet) error {
	root := tree.Get(tree.Root())
	if root == nil {
		return errEmptyTree
	}
	if _, err := fmt.Fprintf(w, "%s (span: %s)\n", nodeLabel(root), formatSpan(root.Span, fs)); err != nil {
		return err
	}
	return formatChildren(w, tree, root, fs, "")
}

func formatChildren(w io.Writer, tree *ast.Tree, n *ast.Node, fs *source.FileSet, prefix string) error {
	for i, id := range n.Children {
		child := tree.Get(id)
		if child == nil {
			continue
		}
		branch, next := "├─ ", "│  "
		if i == len(n.Children)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s (span: %s)\n", prefix, branch, nodeLabel(child), formatSpan(child.Span, fs)); err != nil {
			return err
		}
		if err := formatChildren(w, tree, child, fs, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

// BuildASTOutput превращает дерево в вложенную структуру для JSON.
func BuildASTOutput(tree *ast.Tree) (ASTNodeOutput, error) {
	if tree.Get(tree.Root()) == nil {
		return ASTNodeOutput{}, errEmptyTree
	}
	return buildNode(tree, tree.Root()), nil
}

func buildNode(tree *ast.Tree, id ast.NodeID) ASTNodeOutput {
	n := tree.Get(id)
	out := ASTNodeOutput{
		Kind:  n.Kind.String(),
		Value: n.Value,
		Span:  n.Span,
	}
	if n.Kind == ast.TypeDef {
		out.Type = n.Type.String()
	}
	for _, c := range n.Children {
		if tree.Get(c) != nil {
			out.Children = append(out.Children, buildNode(tree, c))
		}
	}
	return out
}

func FormatASTJSON(w io.Writer, tree *ast.Tree) error {
	out, err := BuildASTOutput(tree)
	if err != nil {
		return err
	}
	return encodeJSON(w, out)
}
