package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	p := tm.Begin("parse")
	time.Sleep(time.Millisecond)
	tm.End(p, "2 files")
	c := tm.Begin("commit")
	tm.End(c, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "parse" || r.Phases[0].Note != "2 files" {
		t.Fatalf("report = %+v", r)
	}
	if r.Phases[0].DurationMS <= 0 || r.TotalMS < r.Phases[0].DurationMS {
		t.Errorf("durations: %+v", r)
	}
	s := tm.Summary()
	if !strings.Contains(s, "parse") || !strings.Contains(s, "// 2 files") || !strings.Contains(s, "total") {
		t.Errorf("summary:\n%s", s)
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("file"), "")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 16 {
		t.Errorf("phases = %d", n)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Errorf("nil timer report = %+v", r)
	}
}
