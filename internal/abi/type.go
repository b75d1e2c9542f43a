// Package abi models the argument and return types of redirectable native
// functions.
//
// A Type is pure data: a Class, a bit width and a const flag. Widths are
// constrained per class:
//
//   - Void, Complex: 0
//   - String, MemoryPointer, FunctionPointer, FileDescriptor: 64
//   - SignedInt, UnsignedInt: 1, 8, 16, 32, 64
//   - Float: 32, 64
//
// New is the only validating constructor; Lookup maps IDL type keywords to
// already valid descriptors.
package abi

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

var (
	// ErrInvalidClass is returned for a class outside the closed set.
	ErrInvalidClass = errors.New("invalid type class")
	// ErrInvalidWidth is returned for a width outside the class's domain.
	ErrInvalidWidth = errors.New("invalid type width")
)

// PointerWidth is the width carried by every pointer-like class.
const PointerWidth = 64

// Type describes one argument or return value.
type Type struct {
	Class Class `msgpack:"c"`
	Width uint8 `msgpack:"w"`
	Const bool  `msgpack:"k"`
}

// New validates (class, width) and builds a Type.
func New(class Class, width int, isConst bool) (Type, error) {
	if !class.Valid() {
		return Type{}, fmt.Errorf("%w: %d", ErrInvalidClass, uint8(class))
	}
	if !WidthAllowed(class, width) {
		return Type{}, fmt.Errorf("%w: %s cannot be %d bits wide", ErrInvalidWidth, class, width)
	}
	w, err := safecast.Conv[uint8](width)
	if err != nil {
		return Type{}, fmt.Errorf("%w: %w", ErrInvalidWidth, err)
	}
	return Type{Class: class, Width: w, Const: isConst}, nil
}

// MustNew is New for constant tables; it panics on an invalid combination.
func MustNew(class Class, width int, isConst bool) Type {
	t, err := New(class, width, isConst)
	if err != nil {
		panic(err)
	}
	return t
}

// WidthAllowed reports whether width is in the domain of class.
func WidthAllowed(class Class, width int) bool {
	switch class {
	case Void, Complex:
		return width == 0
	case String, MemoryPointer, FunctionPointer, FileDescriptor:
		return width == PointerWidth
	case SignedInt, UnsignedInt:
		return width == 1 || width == 8 || width == 16 || width == 32 || width == 64
	case Float:
		return width == 32 || width == 64
	default:
		return false
	}
}

// Valid reports whether t could have been produced by New.
func (t Type) Valid() bool {
	return t.Class.Valid() && WidthAllowed(t.Class, int(t.Width))
}

// WithConst returns a copy of t with the const flag set to c.
func (t Type) WithConst(c bool) Type {
	t.Const = c
	return t
}

// Keyword returns the canonical IDL spelling without the const qualifier.
func (t Type) Keyword() string {
	switch t.Class {
	case Void:
		return "void"
	case SignedInt:
		return fmt.Sprintf("i%d", t.Width)
	case UnsignedInt:
		return fmt.Sprintf("u%d", t.Width)
	case Float:
		return fmt.Sprintf("f%d", t.Width)
	case String:
		return "string"
	case MemoryPointer:
		return "ptr"
	case FunctionPointer:
		return "fnptr"
	case FileDescriptor:
		return "fd"
	case Complex:
		return "cplx"
	}
	return t.Class.String()
}

func (t Type) String() string {
	if t.Const {
		return "const " + t.Keyword()
	}
	return t.Keyword()
}
