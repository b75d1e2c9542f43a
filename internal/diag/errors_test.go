package diag

import (
	"errors"
	"io/fs"
	"testing"

	"nlib/internal/source"
)

func TestErrorClassAndCause(t *testing.T) {
	err := error(&Error{Class: ErrIO, Code: IOLoadFileError, Message: "unable to open idl file", Path: "x.idl", Cause: fs.ErrNotExist})
	if !errors.Is(err, ErrIO) {
		t.Error("expected ErrIO class")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected cause to be reachable")
	}
	if errors.Is(err, ErrSyntax) {
		t.Error("unexpected ErrSyntax")
	}
	want := "x.idl: IO4001: unable to open idl file: file does not exist"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestPositioned(t *testing.T) {
	fset := source.NewFileSet()
	id := fset.AddVirtual("a.idl", []byte("library \"l\";\n  i32 f();"))
	err := At(fset, source.Span{File: id, Start: 15, End: 18}, ErrSyntax, SynUnknownType, "unknown type")
	if err.Pos != (source.LineCol{Line: 2, Col: 3}) {
		t.Fatalf("Pos = %+v", err.Pos)
	}
	if got := err.Error(); got != "a.idl:2:3: SYN2007: unknown type" {
		t.Errorf("Error() = %q", got)
	}
	// already positioned errors keep their first position
	again := err.Positioned(fset, source.Span{File: id, Start: 0, End: 1})
	if again.Pos.Line != 2 {
		t.Errorf("position was overwritten: %+v", again.Pos)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(Diagnostic{Severity: SevWarning, Code: SemaDuplicateFunction, Primary: source.Span{Start: 9}}) {
		t.Fatal("first Add rejected")
	}
	bag.Add(Diagnostic{Severity: SevError, Code: SynUnknownType, Primary: source.Span{Start: 1}})
	if bag.Add(Diagnostic{Severity: SevError}) {
		t.Fatal("Add beyond the limit accepted")
	}
	bag.Sort()
	items := bag.Items()
	if items[0].Code != SynUnknownType {
		t.Errorf("sort order = %v", items)
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Error("HasErrors/HasWarnings")
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:     "LEX1001",
		SynUnexpectedToken: "SYN2001",
		SemaNoLibrary:      "SEM3001",
		IOLoadFileError:    "IO4001",
		ResSymbolNotFound:  "RES5002",
		Code(9999):         "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}
