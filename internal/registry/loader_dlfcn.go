//go:build (darwin || freebsd || linux || netbsd) && !android && !faketime

package registry

import "github.com/ebitengine/purego"

func dlopen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
}

func dlsym(module uintptr, name string) (uintptr, error) {
	return purego.Dlsym(module, name)
}

func dlclose(module uintptr) error {
	return purego.Dlclose(module)
}
