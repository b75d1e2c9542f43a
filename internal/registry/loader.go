package registry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Loader opens native modules and resolves their exported symbols.
type Loader interface {
	Open(library string) (uintptr, error)
	Symbol(module uintptr, name string) (uintptr, error)
	Close(module uintptr) error
}

// ErrUnsupported is returned by DynamicLoader on platforms without dlopen.
var ErrUnsupported = errors.New("dynamic loading is not supported on this platform")

// DynamicLoader loads modules through the system dynamic linker.
// A bare library name ("libm.so.6") is first looked up in SearchPaths,
// then handed to the system loader as is; a name with a path separator is
// used verbatim.
type DynamicLoader struct {
	SearchPaths []string
}

// Candidates lists the paths Open tries, in order.
func (l *DynamicLoader) Candidates(library string) []string {
	if strings.ContainsRune(library, '/') || strings.ContainsRune(library, filepath.Separator) {
		return []string{library}
	}
	out := make([]string, 0, len(l.SearchPaths)+1)
	for _, dir := range l.SearchPaths {
		p := filepath.Join(dir, library)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			out = append(out, p)
		}
	}
	return append(out, library)
}

// Open tries every candidate and returns the first module that loads.
func (l *DynamicLoader) Open(library string) (uintptr, error) {
	var errs []error
	for _, path := range l.Candidates(library) {
		h, err := dlopen(path)
		if err == nil {
			return h, nil
		}
		errs = append(errs, err)
	}
	return 0, errors.Join(errs...)
}

func (l *DynamicLoader) Symbol(module uintptr, name string) (uintptr, error) {
	return dlsym(module, name)
}

func (l *DynamicLoader) Close(module uintptr) error {
	return dlclose(module)
}
