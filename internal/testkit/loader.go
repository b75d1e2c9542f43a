// Package testkit holds helpers shared by package tests.
package testkit

import (
	"fmt"
	"sort"
	"sync"
)

// FakeLoader is an in-memory registry.Loader. Libs maps a library name
// to its exported symbols; every symbol gets a distinct non-zero address.
type FakeLoader struct {
	mu     sync.Mutex
	Libs   map[string][]string
	handle map[string]uintptr
	names  map[uintptr]string
	opens  map[string]int
	closes map[string]int
}

// NewFakeLoader creates a loader exporting libs.
func NewFakeLoader(libs map[string][]string) *FakeLoader {
	return &FakeLoader{
		Libs:   libs,
		handle: make(map[string]uintptr),
		names:  make(map[uintptr]string),
		opens:  make(map[string]int),
		closes: make(map[string]int),
	}
}

func (f *FakeLoader) Open(library string) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Libs[library]; !ok {
		return 0, fmt.Errorf("%s: cannot open shared object file: No such file or directory", library)
	}
	f.opens[library]++
	h, ok := f.handle[library]
	if !ok {
		h = uintptr(len(f.handle)+1) << 16
		f.handle[library] = h
		f.names[h] = library
	}
	return h, nil
}

func (f *FakeLoader) Symbol(module uintptr, name string) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lib, ok := f.names[module]
	if !ok {
		return 0, fmt.Errorf("bad module handle %#x", module)
	}
	for i, sym := range f.Libs[lib] {
		if sym == name {
			return module + uintptr(i+1)*0x10, nil
		}
	}
	return 0, fmt.Errorf("%s: undefined symbol: %s", lib, name)
}

func (f *FakeLoader) Close(module uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lib, ok := f.names[module]
	if !ok {
		return fmt.Errorf("bad module handle %#x", module)
	}
	f.closes[lib]++
	return nil
}

// Opens returns how many times library was opened.
func (f *FakeLoader) Opens(library string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens[library]
}

// Closes returns how many times library was closed.
func (f *FakeLoader) Closes(library string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes[library]
}

// Balanced reports libraries whose open and close counts differ.
func (f *FakeLoader) Balanced() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for lib, n := range f.opens {
		if f.closes[lib] != n {
			out = append(out, lib)
		}
	}
	sort.Strings(out)
	return out
}
