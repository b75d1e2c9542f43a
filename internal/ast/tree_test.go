package ast

import (
	"testing"

	"nlib/internal/abi"
	"nlib/internal/source"

	"github.com/google/go-cmp/cmp"
)

func buildSample() *Tree {
	t := NewTree(8)
	root := t.New(Root, source.Span{}, "")
	defs := t.New(Defs, source.Span{}, "")
	t.AddChild(root, defs)
	t.SetRoot(root)

	lib := t.New(LibDef, source.Span{Start: 0, End: 10}, "libm.so")
	t.AddChild(defs, lib)

	fn := t.New(FnDef, source.Span{Start: 11, End: 30}, "sin")
	t.AddChild(fn, t.NewType(source.Span{}, abi.MustNew(abi.Float, 64, false), ""))
	params := t.New(Params, source.Span{}, "")
	p := t.New(Param, source.Span{}, "x")
	t.AddChild(p, t.NewType(source.Span{}, abi.MustNew(abi.Float, 64, false), ""))
	t.AddChild(params, p)
	t.AddChild(fn, params)
	t.AddChild(defs, fn)
	return t
}

func TestTreeShape(t *testing.T) {
	tree := buildSample()
	defs := tree.Definitions()
	if len(defs) != 2 {
		t.Fatalf("definitions = %d", len(defs))
	}
	fn := tree.Get(defs[1])
	if fn.Kind != FnDef || fn.Value != "sin" {
		t.Fatalf("fn = %+v", fn)
	}
	params := tree.Get(tree.Child(defs[1], 1))
	if params.Kind != Params || len(params.Children) != 1 {
		t.Fatalf("params = %+v", params)
	}
	if tree.Child(defs[1], 5) != NoNodeID || tree.Get(NoNodeID) != nil || tree.Get(999) != nil {
		t.Error("out-of-range lookups must miss")
	}

	var got []string
	tree.Walk(tree.Root(), func(_ NodeID, n *Node, _ int) {
		got = append(got, n.Kind.String())
	})
	want := []string{"Root", "Defs", "LibDef", "FnDef", "TypeDef", "Params", "Param", "TypeDef"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("walk order (-want +got):\n%s", diff)
	}
}

func TestFromNodesRoundTrip(t *testing.T) {
	tree := buildSample()
	copied := append([]Node(nil), tree.Nodes()...)
	back, err := FromNodes(copied, tree.Root())
	if err != nil {
		t.Fatalf("FromNodes: %v", err)
	}
	if diff := cmp.Diff(tree.Nodes(), back.Nodes()); diff != "" {
		t.Errorf("nodes differ (-want +got):\n%s", diff)
	}
}

func TestFromNodesRejectsSharing(t *testing.T) {
	nodes := []Node{
		{Kind: Root, Children: []NodeID{2, 3}},
		{Kind: Defs, Children: []NodeID{3}},
		{Kind: LibDef},
	}
	if _, err := FromNodes(nodes, 1); err == nil {
		t.Fatal("shared child must be rejected")
	}
	if _, err := FromNodes([]Node{{Kind: Root, Children: []NodeID{7}}}, 1); err == nil {
		t.Fatal("dangling child must be rejected")
	}
	if _, err := FromNodes([]Node{{Kind: Root, Children: []NodeID{1}}}, 1); err == nil {
		t.Fatal("cycle through root must be rejected")
	}
	cyclic := []Node{
		{Kind: Root},
		{Kind: FnDef, Children: []NodeID{3}},
		{Kind: Params, Children: []NodeID{2}},
	}
	if _, err := FromNodes(cyclic, 1); err == nil {
		t.Fatal("detached cycle must be rejected")
	}
	if _, err := FromNodes(nil, 1); err == nil {
		t.Fatal("missing root must be rejected")
	}
}
