package lexer

import (
	"testing"

	"nlib/internal/source"
)

func newCursor(content string) Cursor {
	fs := source.NewFileSet()
	id := fs.AddVirtual("c.idl", []byte(content))
	return NewCursor(fs.Get(id))
}

func TestCursorWalk(t *testing.T) {
	c := newCursor("ab\n")
	for _, want := range []byte("ab\n") {
		if c.EOF() {
			t.Fatalf("early EOF before %q", want)
		}
		if got := c.Bump(); got != want {
			t.Fatalf("Bump = %q, want %q", got, want)
		}
	}
	if !c.EOF() || c.Peek() != 0 || c.Bump() != 0 {
		t.Error("cursor must stay at EOF")
	}
}

func TestCursorMarkSpanEat(t *testing.T) {
	c := newCursor("void f")
	m := c.Mark()
	for range 4 {
		c.Bump()
	}
	sp := c.SpanFrom(m)
	if sp.Start != 0 || sp.End != 4 {
		t.Errorf("span = %v", sp)
	}
	if !c.Eat(' ') || c.Eat('x') {
		t.Error("Eat mismatch")
	}
	if sp := c.SpanFrom(m); sp.End != 5 {
		t.Errorf("span after Eat = %v", sp)
	}
}
