package trace

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Heartbeat is a Tracer wrapper that remembers which spans are still open
// and, every interval, emits a heartbeat naming the oldest of them. dlopen
// and dlsym have no timeout, so a run of heartbeats that keeps naming the
// same "open:<library>" span points at the stuck library.
//
// Library spans are file-scoped: at LevelPhase the heartbeat can only name
// the pass ("commit") that is stuck.
type Heartbeat struct {
	Tracer

	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	pending map[uint64]pendingSpan
	beats   uint64

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type pendingSpan struct {
	name  string
	since time.Time
}

// StartHeartbeat wraps tracer and starts the ticker. Spans must be begun
// through the returned Heartbeat for it to see them. Returns nil when
// tracing is off or interval <= 0.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := newHeartbeat(tracer, interval)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.beat()
			case <-h.stop:
				return
			}
		}
	}()
	return h
}

func newHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	return &Heartbeat{
		Tracer:   tracer,
		interval: interval,
		now:      time.Now,
		pending:  make(map[uint64]pendingSpan),
		stop:     make(chan struct{}),
	}
}

// Emit records span begin/end and forwards ev unchanged.
func (h *Heartbeat) Emit(ev *Event) {
	switch ev.Kind {
	case KindSpanBegin:
		h.mu.Lock()
		h.pending[ev.SpanID] = pendingSpan{name: ev.Name, since: ev.Time}
		h.mu.Unlock()
	case KindSpanEnd:
		h.mu.Lock()
		delete(h.pending, ev.SpanID)
		h.mu.Unlock()
	}
	h.Tracer.Emit(ev)
}

// beat emits one heartbeat event. Detail is "#N idle" when nothing is open,
// otherwise "#N <oldest span> for <age>"; Extra["open"] counts open spans.
func (h *Heartbeat) beat() {
	now := h.now()

	h.mu.Lock()
	h.beats++
	seq := h.beats
	var oldest pendingSpan
	for _, sp := range h.pending {
		// ровесники: берём лексикографически меньший, чтобы вывод не скакал
		if oldest.name == "" || sp.since.Before(oldest.since) ||
			(sp.since.Equal(oldest.since) && sp.name < oldest.name) {
			oldest = sp
		}
	}
	open := len(h.pending)
	h.mu.Unlock()

	detail := fmt.Sprintf("#%d idle", seq)
	if open > 0 {
		detail = fmt.Sprintf("#%d %s for %s", seq, oldest.name, now.Sub(oldest.since).Round(time.Millisecond))
	}
	h.Tracer.Emit(&Event{
		Time:   now,
		Seq:    NextSeq(),
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		GID:    getGoroutineID(),
		Name:   "heartbeat",
		Detail: detail,
		Extra:  map[string]string{"open": strconv.Itoa(open)},
	})
}

// Stop stops the ticker and waits for it. Safe on nil and on repeated calls.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.stop) })
	h.wg.Wait()
}
