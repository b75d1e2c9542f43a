package abi

import "fmt"

// Class is the ABI-relevant kind of a value crossing the guest/host boundary.
type Class uint8

const (
	// Void has no value.
	Void Class = iota
	// SignedInt is a two's complement integer of Width bits.
	SignedInt
	// UnsignedInt is an unsigned integer of Width bits (u1 is a boolean).
	UnsignedInt
	// Float is an IEEE-754 binary32 or binary64 value.
	Float
	// String is a pointer to a NUL-terminated byte string in guest memory.
	String
	// MemoryPointer is an untyped pointer into guest memory.
	MemoryPointer
	// FunctionPointer is a guest code address.
	FunctionPointer
	// FileDescriptor is a guest file descriptor number.
	FileDescriptor
	// Complex is an aggregate passed by reference whose layout is opaque here.
	Complex

	classCount
)

var classNames = [...]string{
	Void:            "void",
	SignedInt:       "sint",
	UnsignedInt:     "uint",
	Float:           "float",
	String:          "string",
	MemoryPointer:   "memptr",
	FunctionPointer: "fnptr",
	FileDescriptor:  "fd",
	Complex:         "cplx",
}

// Valid reports whether c is one of the known classes.
func (c Class) Valid() bool { return c < classCount }

func (c Class) String() string {
	if !c.Valid() {
		return fmt.Sprintf("class(%d)", uint8(c))
	}
	return classNames[c]
}

// IsPointer reports whether values of the class are 64-bit addresses or handles.
func (c Class) IsPointer() bool {
	switch c {
	case String, MemoryPointer, FunctionPointer, FileDescriptor:
		return true
	default:
		return false
	}
}
