package ast

import (
	"nlib/internal/abi"
	"nlib/internal/source"
)

// NodeID addresses a node in a Tree; ids are 1-based.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Node is one AST node.
//
//	LibDef:  Value = library name
//	FnDef:   Value = function name; Children = [TypeDef, Params]
//	Param:   Value = parameter name; Children = [TypeDef]
//	TypeDef: Type  = descriptor; Value = ptr binding name, if any
type Node struct {
	Kind     Kind        `json:"kind" msgpack:"k"`
	Span     source.Span `json:"span" msgpack:"s"`
	Value    string      `json:"value,omitempty" msgpack:"v,omitempty"`
	Type     abi.Type    `json:"type" msgpack:"t"`
	Children []NodeID    `json:"children,omitempty" msgpack:"c,omitempty"`
}
