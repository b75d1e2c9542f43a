package abi

import (
	"errors"
	"testing"
)

func TestNewRoundTrip(t *testing.T) {
	domain := map[Class][]int{
		Void:            {0},
		SignedInt:       {1, 8, 16, 32, 64},
		UnsignedInt:     {1, 8, 16, 32, 64},
		Float:           {32, 64},
		String:          {64},
		MemoryPointer:   {64},
		FunctionPointer: {64},
		FileDescriptor:  {64},
		Complex:         {0},
	}
	for class, widths := range domain {
		for _, w := range widths {
			for _, c := range []bool{false, true} {
				got, err := New(class, w, c)
				if err != nil {
					t.Fatalf("New(%s, %d, %v) error: %v", class, w, c, err)
				}
				if got.Class != class || int(got.Width) != w || got.Const != c {
					t.Fatalf("New(%s, %d, %v) = %+v", class, w, c, got)
				}
				if !got.Valid() {
					t.Fatalf("%+v reported invalid", got)
				}
			}
		}
	}
}

func TestNewRejectsWidth(t *testing.T) {
	cases := []struct {
		class Class
		width int
	}{
		{SignedInt, 2},
		{SignedInt, 128},
		{UnsignedInt, 2},
		{Float, 16},
		{Void, 8},
		{Complex, 64},
		{MemoryPointer, 32},
		{String, 0},
		{FileDescriptor, 32},
		{SignedInt, -8},
	}
	for _, tc := range cases {
		if _, err := New(tc.class, tc.width, false); !errors.Is(err, ErrInvalidWidth) {
			t.Errorf("New(%s, %d) err = %v, want ErrInvalidWidth", tc.class, tc.width, err)
		}
	}
}

func TestNewRejectsClass(t *testing.T) {
	if _, err := New(Class(42), 0, false); !errors.Is(err, ErrInvalidClass) {
		t.Fatalf("err = %v, want ErrInvalidClass", err)
	}
}

func TestLookupSynonyms(t *testing.T) {
	pairs := [][2]string{{"ilong", "i64"}, {"ulong", "u64"}}
	for _, p := range pairs {
		a, okA := Lookup(p[0])
		b, okB := Lookup(p[1])
		if !okA || !okB || a != b {
			t.Errorf("Lookup(%q)=%v,%v Lookup(%q)=%v,%v", p[0], a, okA, p[1], b, okB)
		}
	}
	for _, kw := range Keywords() {
		typ, _ := Lookup(kw)
		if !typ.Valid() {
			t.Errorf("keyword %q maps to invalid %+v", kw, typ)
		}
	}
	if _, ok := Lookup("I32"); ok {
		t.Error("keywords must be case-sensitive")
	}
}

func TestTypeString(t *testing.T) {
	cases := map[string]Type{
		"i32":       MustNew(SignedInt, 32, false),
		"const u1":  MustNew(UnsignedInt, 1, true),
		"ptr":       MustNew(MemoryPointer, 64, false),
		"void":      {},
	}
	for want, typ := range cases {
		if got := typ.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
