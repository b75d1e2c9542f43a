package diagfmt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"nlib/internal/diag"
	"nlib/internal/source"
)

const prettySrc = "library \"libc.so.6\";\ni32 abs(i32 x,);\n"

// rparenSpan указывает на ')' во второй строке prettySrc.
func rparenSpan(id source.FileID) source.Span {
	return source.Span{File: id, Start: 35, End: 36}
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/src/test.idl", []byte(prettySrc))

	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynExpectParamName,
		Message:  "expected parameter type",
		Primary:  rparenSpan(fileID),
	})

	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.idl:2:15:"},
		{"Relative path", PathModeRelative, "src/test.idl:2:15:"},
		{"Basename only", PathModeBasename, "test.idl:2:15:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			output := buf.String()

			if !strings.HasPrefix(output, tt.want) {
				t.Errorf("output should start with %q, got:\n%s", tt.want, output)
			}
			if !strings.Contains(output, "ERROR SYN2010: expected parameter type") {
				t.Errorf("missing severity/code/message:\n%s", output)
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"test.idl", "test.idl"},
		{"/very/long/absolute/path/to/some/nested/directory/file.idl", "file.idl"},
		{"/short/x.idl", "/short/x.idl"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path, PathModeAuto, ""); got != tt.want {
			t.Errorf("formatPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPrettySnippetAndCaret(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.idl", []byte(prettySrc))
	bag := diag.NewBag(4)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynExpectParamName,
		Message:  "expected parameter type",
		Primary:  rparenSpan(id),
	})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	want := "x.idl:2:15: ERROR SYN2010: expected parameter type\n" +
		"  2 | i32 abs(i32 x,);\n" +
		"    | " + strings.Repeat(" ", 14) + "^\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})
	if !strings.Contains(buf.String(), "  1 | library \"libc.so.6\";\n  2 | i32") {
		t.Errorf("context line missing:\n%s", buf.String())
	}
}

func TestPrettyUnderlineWidth(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.idl", []byte(prettySrc))
	bag := diag.NewBag(4)
	// "abs" в строке 2
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.SemaDuplicateFunction,
		Message: "duplicate", Primary: source.Span{File: id, Start: 25, End: 28}})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if !strings.Contains(buf.String(), "    |     ^~~\n") {
		t.Errorf("underline wrong:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "WARNING SEM3004") {
		t.Errorf("severity wrong:\n%s", buf.String())
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.idl", []byte(prettySrc))
	bag := diag.NewBag(4)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.SemaDuplicateFunction,
		Message:  "duplicate function \"abs\"",
		Primary:  source.Span{File: id, Start: 25, End: 28},
		Notes:    []diag.Note{{Span: source.Span{File: id, Start: 0, End: 7}, Msg: "first declared here"}},
	})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if strings.Contains(buf.String(), "note:") {
		t.Errorf("notes printed without ShowNotes:\n%s", buf.String())
	}
	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	if !strings.Contains(buf.String(), "  note: x.idl:1:1: first declared here\n") {
		t.Errorf("note missing:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.idl", []byte(prettySrc))
	bag := diag.NewBag(1)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.SynExpectParamName, Message: "m", Primary: rparenSpan(id)})

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("plain output contains escapes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("colored output has no escapes")
	}
}

func TestPrettyError(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.idl", []byte(prettySrc))

	positioned := diag.At(fs, rparenSpan(id), diag.ErrSyntax, diag.SynExpectParamName, "expected parameter type")
	unpositioned := diag.Errorf(diag.ErrResolution, diag.ResModuleOpen, "could not open module %q", "libnope.so")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"positioned", positioned, "x.idl:2:15: ERROR SYN2010: expected parameter type\n  2 | "},
		{"unpositioned", unpositioned, "ERROR RES5001: could not open module \"libnope.so\"\n"},
		{"plain", errors.New("boom"), "error: boom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrettyError(&buf, tt.err, fs, PrettyOpts{})
			if !strings.HasPrefix(buf.String(), tt.want) {
				t.Errorf("got %q, want prefix %q", buf.String(), tt.want)
			}
		})
	}
}

func TestCaretPad(t *testing.T) {
	tests := []struct{ in, want string }{
		{"abc", "   "},
		{"\ta", "\t "},
		{"日本", "    "},
	}
	for _, tt := range tests {
		if got := caretPad(tt.in); got != tt.want {
			t.Errorf("caretPad(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
