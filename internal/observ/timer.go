package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed step of a rebuild.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string // short outcome, e.g. "exit 2"
}

// Timer collects the phases of one numbered rebuild. Not goroutine-safe:
// a rebuild runs its phases one after another.
type Timer struct {
	rebuild int
	phases  []Phase
	now     func() time.Time
}

// NewTimer starts timing rebuild number n (1 for the initial build).
func NewTimer(n int) *Timer {
	return &Timer{rebuild: n, now: time.Now}
}

// Start opens a phase and returns the function that closes it. Calling the
// returned function again does not change the recorded duration.
func (t *Timer) Start(name string) func(note string) {
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	idx := len(t.phases) - 1
	stopped := false
	return func(note string) {
		if stopped {
			return
		}
		stopped = true
		p := &t.phases[idx]
		p.Dur = t.now().Sub(p.Start)
		p.Note = note
	}
}

// Summary renders the phases with their share of the rebuild, one per line.
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	fmt.Fprintf(&b, "rebuild #%d timings:\n", r.Rebuild)
	for _, p := range r.Phases {
		share := 0.0
		if r.TotalMS > 0 {
			share = 100 * p.DurationMS / r.TotalMS
		}
		fmt.Fprintf(&b, "  %-9s %8.2f ms %3.0f%%", p.Name, p.DurationMS, share)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-9s %8.2f ms\n", "total", r.TotalMS)
	return b.String()
}

// PhaseReport — фаза в виде, пригодном для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report — тайминги одной пересборки.
type Report struct {
	Rebuild int           `json:"rebuild"`
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report returns the phases in milliseconds, in the order they started.
func (t *Timer) Report() Report {
	r := Report{Rebuild: t.rebuild}
	if len(t.phases) == 0 {
		return r
	}
	r.Phases = make([]PhaseReport, len(t.phases))
	var total time.Duration
	for i, p := range t.phases {
		total += p.Dur
		r.Phases[i] = PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note}
	}
	r.TotalMS = millis(total)
	return r
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
