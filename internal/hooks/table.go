// Package hooks maps guest virtual addresses to registered native functions.
package hooks

import (
	"fmt"
	"sort"
	"sync"

	"nlib/internal/registry"
	"nlib/internal/trace"
)

// Resolver is the registry surface the table needs.
type Resolver interface {
	Find(name string) (registry.Handle, bool)
	Lookup(h registry.Handle) (registry.Descriptor, bool)
}

// Entry is one address binding.
type Entry struct {
	Address uint64
	Handle  registry.Handle
}

// Table is safe for concurrent Register and Get. Entries are published
// under the write lock, so a reader sees either no entry or a whole one.
//
// Entries hold raw registry handles and are not invalidated by
// Registry.Truncate or Registry.Close: after either, Get on a dropped
// handle misses, and a handle reused by a later Add resolves to the new
// function. Hosts that reset the registry re-register their hooks.
type Table struct {
	mu      sync.RWMutex
	entries map[uint64]registry.Handle
	res     Resolver
	tracer  trace.Tracer
}

func New(res Resolver, tracer trace.Tracer) *Table {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Table{
		entries: make(map[uint64]registry.Handle),
		res:     res,
		tracer:  tracer,
	}
}

// Register binds addr to the first function named name. An unknown name is
// a soft miss: the table is unchanged and false is returned. Registering an
// address again replaces its binding.
func (t *Table) Register(addr uint64, name string) bool {
	h, ok := t.res.Find(name)
	if !ok {
		trace.Point(t.tracer, trace.ScopeEntry, "hook-miss:"+name, "", "address", FormatAddress(addr))
		return false
	}
	t.mu.Lock()
	t.entries[addr] = h
	t.mu.Unlock()
	trace.Point(t.tracer, trace.ScopeEntry, "hook:"+name, "", "address", FormatAddress(addr))
	return true
}

// Handle returns the registry handle bound to addr.
func (t *Table) Handle(addr uint64) (registry.Handle, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.entries[addr]
	return h, ok
}

// Get returns the descriptor bound to addr.
func (t *Table) Get(addr uint64) (registry.Descriptor, bool) {
	h, ok := t.Handle(addr)
	if !ok {
		return registry.Descriptor{}, false
	}
	return t.res.Lookup(h)
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Entries returns all bindings sorted by address.
func (t *Table) Entries() []Entry {
	t.mu.RLock()
	out := make([]Entry, 0, len(t.entries))
	for addr, h := range t.entries {
		out = append(out, Entry{Address: addr, Handle: h})
	}
	t.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// FormatAddress renders addr as 0x-prefixed hex.
func FormatAddress(addr uint64) string {
	return fmt.Sprintf("%#x", addr)
}
