package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"nlib/internal/driver"
)

func TestProgressModelTracksStages(t *testing.T) {
	events := make(chan driver.ProgressEvent)
	m := NewProgressModel("loading", []string{"a.idl", "b.idl"}, events).(*progressModel)

	steps := []driver.ProgressEvent{
		{File: "a.idl", Stage: driver.StageParsed, Cached: true},
		{File: "b.idl", Stage: driver.StageParsing},
		{File: "a.idl", Stage: driver.StageCommitted, Functions: 3},
		{File: "unknown.idl", Stage: driver.StageFailed},
	}
	for _, ev := range steps {
		m.Update(eventMsg(ev))
	}

	if got := m.items[0].label(); got != "done" {
		t.Errorf("a.idl label = %q", got)
	}
	if got := m.items[1].label(); got != "parsing" {
		t.Errorf("b.idl label = %q", got)
	}
	if m.functions != 3 {
		t.Errorf("functions = %d", m.functions)
	}
	if got, want := m.percent(), (1.0+0.2)/2; got != want {
		t.Errorf("percent = %v, want %v", got, want)
	}

	view := m.View()
	for _, want := range []string{"loading (3 functions)", "a.idl (3)", "b.idl"} {
		if !strings.Contains(view, want) {
			t.Errorf("view misses %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(doneMsg{})
	if cmd == nil || !m.done {
		t.Fatal("doneMsg must quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("doneMsg did not return tea.Quit")
	}
	if !strings.Contains(m.View(), "done: loading") {
		t.Errorf("final view:\n%s", m.View())
	}
}

func TestCachedLabel(t *testing.T) {
	it := fileItem{stage: driver.StageParsed, cached: true}
	if it.label() != "cached" {
		t.Errorf("label = %q", it.label())
	}
	it.cached = false
	if it.label() != "parsed" {
		t.Errorf("label = %q", it.label())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.idl", 20, "short.idl"},
		{"very/long/path/to/file.idl", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
