package ast

import (
	"fmt"

	"nlib/internal/abi"
	"nlib/internal/source"
)

// Tree is an arena of nodes. Every node except the root has exactly one parent.
type Tree struct {
	nodes *Arena[Node]
	root  NodeID
}

// NewTree creates an empty tree; capHint sizes the arena.
func NewTree(capHint uint) *Tree {
	return &Tree{nodes: NewArena[Node](capHint)}
}

// New allocates a detached node.
func (t *Tree) New(kind Kind, sp source.Span, value string) NodeID {
	return NodeID(t.nodes.Allocate(Node{Kind: kind, Span: sp, Value: value}))
}

// NewType allocates a detached TypeDef node.
func (t *Tree) NewType(sp source.Span, typ abi.Type, binding string) NodeID {
	return NodeID(t.nodes.Allocate(Node{Kind: TypeDef, Span: sp, Value: binding, Type: typ}))
}

// AddChild appends child to parent's children.
func (t *Tree) AddChild(parent, child NodeID) {
	p := t.Get(parent)
	if p == nil || t.Get(child) == nil {
		panic(fmt.Sprintf("ast: AddChild(%d, %d): unknown node", parent, child))
	}
	p.Children = append(p.Children, child)
}

// Get returns the node or nil for an unknown id.
func (t *Tree) Get(id NodeID) *Node {
	return t.nodes.Get(uint32(id))
}

func (t *Tree) SetRoot(id NodeID) { t.root = id }
func (t *Tree) Root() NodeID      { return t.root }
func (t *Tree) Len() int          { return len(t.nodes.Slice()) }

// Child returns the i-th child of id or NoNodeID.
func (t *Tree) Child(id NodeID, i int) NodeID {
	n := t.Get(id)
	if n == nil || i < 0 || i >= len(n.Children) {
		return NoNodeID
	}
	return n.Children[i]
}

// Definitions returns the children of the root's Defs node.
func (t *Tree) Definitions() []NodeID {
	defs := t.Get(t.Child(t.root, 0))
	if defs == nil || defs.Kind != Defs {
		return nil
	}
	return defs.Children
}

// Nodes exposes the flat node slice (index i holds NodeID i+1). Read only.
func (t *Tree) Nodes() []Node {
	return t.nodes.Slice()
}

// FromNodes rebuilds a tree from a flat slice, checking ids and single ownership.
func FromNodes(nodes []Node, root NodeID) (*Tree, error) {
	t := &Tree{nodes: &Arena[Node]{data: nodes}, root: root}
	if t.Get(root) == nil {
		return nil, fmt.Errorf("ast: root %d out of range", root)
	}
	parent := make([]NodeID, len(nodes)+1)
	for i := range nodes {
		id := NodeID(i + 1)
		for _, c := range nodes[i].Children {
			if t.Get(c) == nil {
				return nil, fmt.Errorf("ast: node %d: child %d out of range", id, c)
			}
			if c == root || parent[c] != NoNodeID {
				return nil, fmt.Errorf("ast: node %d has more than one parent", c)
			}
			parent[c] = id
		}
		if !nodes[i].Kind.Valid() {
			return nil, fmt.Errorf("ast: node %d: bad kind %d", id, nodes[i].Kind)
		}
	}
	// с одним родителем у каждого узла обход от корня конечен
	seen := 0
	t.Walk(root, func(NodeID, *Node, int) { seen++ })
	if seen != len(nodes) {
		return nil, fmt.Errorf("ast: %d nodes unreachable from root", len(nodes)-seen)
	}
	return t, nil
}

// Walk visits id and its descendants depth-first, pre-order.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, n *Node, depth int)) {
	t.walk(id, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, *Node, int)) {
	n := t.Get(id)
	if n == nil {
		return
	}
	fn(id, n, depth)
	for _, c := range n.Children {
		t.walk(c, depth+1, fn)
	}
}
