package trace

import (
	"fmt"
	"io"
	"sync"
)

// DefaultRingSize fits a few rebuilds of a noisy build at line level.
const DefaultRingSize = 1024

// RingTracer remembers the latest events so a crash report can show what
// the session was doing. Once full, the oldest event is overwritten and
// counted as dropped.
type RingTracer struct {
	mu      sync.RWMutex
	buf     []Event
	start   int // oldest stored event
	n       int
	dropped uint64
	level   Level
}

// NewRingTracer creates a ring holding up to size events.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingTracer{buf: make([]Event, size), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.accepts(ev) {
		return
	}
	stored := *ev
	stored.Seq = NextSeq()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.n < len(t.buf) {
		t.buf[(t.start+t.n)%len(t.buf)] = stored
		t.n++
		return
	}
	t.buf[t.start] = stored
	t.start = (t.start + 1) % len(t.buf)
	t.dropped++
}

// Dropped reports how many events were overwritten.
func (t *RingTracer) Dropped() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dropped
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Event, t.n)
	for i := range out {
		out[i] = t.buf[(t.start+i)%len(t.buf)]
	}
	return out
}

// Since returns the stored events starting at the latest span opened at
// scope, e.g. everything the last shell command did. When that span has
// already been overwritten, or none was opened, the whole ring is returned.
func (t *RingTracer) Since(scope Scope) []Event {
	events := t.Snapshot()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Kind == KindSpanBegin && events[i].Scope == scope {
			return events[i:]
		}
	}
	return events
}

// Dump writes every stored event to w after a one-line header.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return t.dump(w, format, t.Snapshot())
}

// DumpSince is Dump limited to Since(scope).
func (t *RingTracer) DumpSince(w io.Writer, format Format, scope Scope) error {
	return t.dump(w, format, t.Since(scope))
}

func (t *RingTracer) dump(w io.Writer, format Format, events []Event) error {
	// ndjson stays machine-readable
	if format == FormatText {
		if _, err := fmt.Fprintf(w, "# %d events, %d dropped\n", len(events), t.Dropped()); err != nil {
			return err
		}
	}
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }

func (t *RingTracer) Close() error { return nil }

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
