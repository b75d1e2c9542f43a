package registry

import (
	"fmt"
	"slices"
	"strings"

	"nlib/internal/abi"
)

// Handle is a descriptor's registry index, stable for the registry's lifetime.
type Handle int

// NoHandle is returned alongside errors.
const NoHandle Handle = -1

// Descriptor describes one resolved native function.
type Descriptor struct {
	Index   Handle     `json:"index"`
	Name    string     `json:"name"`
	Library string     `json:"library"`
	Module  uintptr    `json:"-"` // native module handle, shared between descriptors
	Entry   uintptr    `json:"entry"`
	Return  abi.Type   `json:"return"`
	Args    []abi.Type `json:"args"`
}

// clone returns a copy whose Args do not alias d.Args.
func (d Descriptor) clone() Descriptor {
	d.Args = slices.Clone(d.Args)
	return d
}

// Signature renders "const i32 (ptr, u64)".
func (d Descriptor) Signature() string {
	return d.Return.String() + " (" + joinTypes(d.Args) + ")"
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s %s(%s) in %q", d.Return, d.Name, joinTypes(d.Args), d.Library)
}

func joinTypes(ts []abi.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
