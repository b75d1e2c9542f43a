// Package registry holds the ordered list of native function descriptors.
//
// Add opens the descriptor's library (once per library name, shared by
// every descriptor that names it) and resolves the function symbol. Any
// failure is a resolution error and leaves the registry unchanged.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"nlib/internal/abi"
	"nlib/internal/diag"
	"nlib/internal/trace"
)

type Options struct {
	Loader Loader       // nil means &DynamicLoader{}
	Tracer trace.Tracer // nil means trace.Nop
}

type module struct {
	handle uintptr
	refs   int
}

// Registry is safe for concurrent use; reads share an RWMutex.
type Registry struct {
	mu      sync.RWMutex
	loader  Loader
	tracer  trace.Tracer
	descs   []Descriptor
	modules map[string]*module // по имени библиотеки из IDL
}

func New(opts Options) *Registry {
	if opts.Loader == nil {
		opts.Loader = &DynamicLoader{}
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	return &Registry{
		loader:  opts.Loader,
		tracer:  opts.Tracer,
		modules: make(map[string]*module),
	}
}

// Add loads library, resolves name in it and appends a descriptor with a
// void return type and no arguments.
func (r *Registry) Add(name, library string) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mod, opened, err := r.acquire(library)
	if err != nil {
		return NoHandle, err
	}
	entry, err := r.loader.Symbol(mod.handle, name)
	if err == nil && entry == 0 {
		err = errors.New("symbol resolved to nil")
	}
	if err != nil {
		r.release(library, mod, opened)
		return NoHandle, &diag.Error{
			Class:   diag.ErrResolution,
			Code:    diag.ResSymbolNotFound,
			Message: fmt.Sprintf("could not resolve function %q in %q", name, library),
			Cause:   err,
		}
	}

	mod.refs++
	h := Handle(len(r.descs))
	r.descs = append(r.descs, Descriptor{
		Index:   h,
		Name:    name,
		Library: library,
		Module:  mod.handle,
		Entry:   entry,
		Return:  abi.Type{Class: abi.Void},
	})
	trace.Point(r.tracer, trace.ScopeEntry, "register:"+name, "",
		"library", library, "index", fmt.Sprint(h))
	return h, nil
}

// acquire returns the shared module for library, opening it on first use.
func (r *Registry) acquire(library string) (*module, bool, error) {
	if m, ok := r.modules[library]; ok {
		return m, false, nil
	}
	span := trace.Begin(r.tracer, trace.ScopeFile, "open:"+library, 0)
	h, err := r.loader.Open(library)
	if err != nil {
		span.End("failed")
		return nil, false, &diag.Error{
			Class:   diag.ErrResolution,
			Code:    diag.ResModuleOpen,
			Message: fmt.Sprintf("could not open module %q", library),
			Cause:   err,
		}
	}
	span.End("")
	m := &module{handle: h}
	r.modules[library] = m
	return m, true, nil
}

// release closes a module opened for a failed Add.
func (r *Registry) release(library string, m *module, opened bool) {
	if !opened || m.refs > 0 {
		return
	}
	delete(r.modules, library)
	_ = r.loader.Close(m.handle) //nolint:errcheck
}

// SetReturnType replaces the return type of h.
func (r *Registry) SetReturnType(h Handle, t abi.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, err := r.mutable(h, t)
	if err != nil {
		return err
	}
	d.Return = t
	return nil
}

// AddArgType appends an argument type to h; call order is argument order.
func (r *Registry) AddArgType(h Handle, t abi.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, err := r.mutable(h, t)
	if err != nil {
		return err
	}
	d.Args = append(d.Args, t)
	return nil
}

func (r *Registry) mutable(h Handle, t abi.Type) (*Descriptor, error) {
	if h < 0 || int(h) >= len(r.descs) {
		return nil, diag.Errorf(diag.ErrResolution, diag.ResBadHandle, "no function with index %d", h)
	}
	if !t.Valid() {
		return nil, diag.Errorf(diag.ErrResolution, diag.ResInvalidType, "invalid type %+v for %q", t, r.descs[h].Name)
	}
	return &r.descs[h], nil
}

// Lookup returns a copy of descriptor h; out-of-range handles miss.
func (r *Registry) Lookup(h Handle) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h < 0 || int(h) >= len(r.descs) {
		return Descriptor{}, false
	}
	return r.descs[h].clone(), true
}

// Find returns the first descriptor registered under name.
func (r *Registry) Find(name string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.descs {
		if r.descs[i].Name == name {
			return Handle(i), true
		}
	}
	return NoHandle, false
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descs)
}

// Descriptors returns copies of all descriptors in index order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, len(r.descs))
	for i := range r.descs {
		out[i] = r.descs[i].clone()
	}
	return out
}

// Libraries returns the names of the open modules, sorted.
func (r *Registry) Libraries() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.modules)
}

// Truncate drops descriptors with index >= n and closes modules no
// longer referenced. Commit uses it to undo a load that failed midway.
func (r *Registry) Truncate(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 0 || n >= len(r.descs) {
		return nil
	}
	var errs []error
	for _, d := range r.descs[n:] {
		m := r.modules[d.Library]
		if m == nil {
			continue
		}
		m.refs--
		if m.refs == 0 {
			delete(r.modules, d.Library)
			if err := r.loader.Close(m.handle); err != nil {
				errs = append(errs, fmt.Errorf("close %q: %w", d.Library, err))
			}
		}
	}
	clear(r.descs[n:])
	r.descs = r.descs[:n]
	return errors.Join(errs...)
}

// Close releases every module and empties the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, name := range sortedKeys(r.modules) {
		if err := r.loader.Close(r.modules[name].handle); err != nil {
			errs = append(errs, fmt.Errorf("close %q: %w", name, err))
		}
	}
	r.modules = make(map[string]*module)
	r.descs = nil
	return errors.Join(errs...)
}

func sortedKeys(m map[string]*module) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
