//go:build linux && !android && !faketime && (amd64 || arm64)

package registry_test

import (
	"errors"
	"runtime"
	"testing"
	"unsafe"

	"nlib/internal/abi"
	"nlib/internal/diag"
	"nlib/internal/registry"

	"github.com/ebitengine/purego"
)

func TestDynamicLoaderStrlen(t *testing.T) {
	loader := &registry.DynamicLoader{}
	libc, err := loader.Open("libc.so.6")
	if err != nil {
		t.Skipf("libc.so.6 not loadable: %v", err)
	}
	_ = loader.Close(libc)

	r := registry.New(registry.Options{Loader: loader})
	defer r.Close()

	h, err := r.Add("strlen", "libc.so.6")
	if err != nil {
		t.Fatalf("Add(strlen): %v", err)
	}
	_ = r.SetReturnType(h, abi.MustNew(abi.UnsignedInt, 64, false))
	_ = r.AddArgType(h, abi.MustNew(abi.String, 64, true))

	d, _ := r.Lookup(h)
	buf := []byte("native\x00")
	n, _, _ := purego.SyscallN(d.Entry, uintptr(unsafe.Pointer(&buf[0])))
	runtime.KeepAlive(buf)
	if n != 6 {
		t.Errorf("strlen = %d, want 6", n)
	}

	_, err = r.Add("nlib_no_such_symbol", "libc.so.6")
	if !errors.Is(err, diag.ErrResolution) {
		t.Errorf("missing symbol: %v", err)
	}
}
