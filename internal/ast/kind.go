package ast

import "fmt"

// Kind tags an AST node.
type Kind uint8

const (
	Root Kind = iota
	Defs
	LibDef
	// CcDef, Attrs and Attr are reserved; the parser never emits them.
	CcDef
	FnDef
	TypeDef
	Params
	Param
	Attrs
	Attr
)

var kindNames = [...]string{
	Root:    "Root",
	Defs:    "Defs",
	LibDef:  "LibDef",
	CcDef:   "CcDef",
	FnDef:   "FnDef",
	TypeDef: "TypeDef",
	Params:  "Params",
	Param:   "Param",
	Attrs:   "Attrs",
	Attr:    "Attr",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k is a known node kind.
func (k Kind) Valid() bool { return int(k) < len(kindNames) }
