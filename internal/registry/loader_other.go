//go:build !((darwin || freebsd || linux || netbsd) && !android && !faketime)

package registry

func dlopen(string) (uintptr, error)         { return 0, ErrUnsupported }
func dlsym(uintptr, string) (uintptr, error) { return 0, ErrUnsupported }
func dlclose(uintptr) error                  { return ErrUnsupported }
