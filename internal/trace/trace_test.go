package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if lvl.String() != s {
			t.Errorf("round trip %q -> %q", s, lvl.String())
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLevelScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeSession, false},
		{LevelError, ScopeSession, false},
		{LevelPhase, ScopeCommand, true},
		{LevelPhase, ScopeStage, false},
		{LevelDetail, ScopeStage, true},
		{LevelDetail, ScopeLine, false},
		{LevelDebug, ScopeLine, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamTracerSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, session := Start(ctx, ScopeSession, "session")
	cmdCtx, cmd := Start(ctx, ScopeCommand, "make")
	_, stage := Start(cmdCtx, ScopeStage, "capture") // filtered at phase level
	stage.End("")
	cmd.WithExtra("records", "2").End("ok")
	session.End("")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "→ make") {
		t.Errorf("line 2 = %q, want nested make begin", lines[1])
	}
	if !strings.Contains(lines[2], "← make (ok) {records=2}") {
		t.Errorf("line 3 = %q", lines[2])
	}
	if strings.Contains(out, "capture") {
		t.Errorf("stage span leaked through phase level:\n%s", out)
	}
}

func TestErrorEventsPassEveryLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	Point(ctx, ScopeSession, "ignored", "")
	Error(ctx, "make", errors.New("sh: not found"))

	var ev jsonEvent
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("expected exactly one NDJSON event, got %q: %v", buf.String(), err)
	}
	if ev.Kind != "error" || ev.Name != "make" || ev.Detail != "sh: not found" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeLine, Name: name})
	}
	var names []string
	for _, ev := range r.Snapshot() {
		names = append(names, ev.Name)
	}
	if strings.Join(names, ",") != "c,d,e" {
		t.Fatalf("snapshot = %v, want [c d e]", names)
	}
	if r.Dropped() != 2 {
		t.Fatalf("Dropped() = %d, want 2", r.Dropped())
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 || lines[0] != "# 3 events, 2 dropped" {
		t.Fatalf("dump = %q", buf.String())
	}

	buf.Reset()
	if err := r.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(buf.String(), "#") || strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("ndjson dump = %q", buf.String())
	}
}

func TestRingTracerSinceCommand(t *testing.T) {
	r := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	for _, cmd := range []string{"list", "make"} {
		cctx, span := Start(ctx, ScopeCommand, cmd)
		Point(cctx, ScopeLine, "line", cmd+" output")
		span.End("")
	}

	var got []string
	for _, ev := range r.Since(ScopeCommand) {
		got = append(got, ev.Kind.String()+":"+ev.Name)
	}
	if strings.Join(got, " ") != "begin:make point:line end:make" {
		t.Fatalf("Since(command) = %v", got)
	}
	if n := len(r.Since(ScopeSession)); n != 6 {
		t.Fatalf("Since without a matching span returned %d events, want all 6", n)
	}

	var buf bytes.Buffer
	if err := r.DumpSince(&buf, FormatText, ScopeCommand); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "list") || !strings.HasPrefix(buf.String(), "# 3 events, 0 dropped\n") {
		t.Fatalf("DumpSince = %q", buf.String())
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("off tracer reports enabled")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context should yield Nop")
	}
}

func TestNewBothHasRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Mode: ModeBoth, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatal(err)
	}
	m, ok := tr.(*MultiTracer)
	if !ok || m.Ring() == nil {
		t.Fatalf("expected a MultiTracer with a ring, got %T", tr)
	}
	tr.Emit(&Event{Kind: KindPoint, Scope: ScopeStage, Name: "classify"})
	if len(m.Ring().Snapshot()) != 1 || !strings.Contains(buf.String(), "classify") {
		t.Fatal("event did not reach both tracers")
	}
}

func TestHeartbeatReportsRunningBuild(t *testing.T) {
	r := NewRingTracer(64, LevelPhase)
	var running atomic.Bool
	status := func() string {
		if !running.Load() {
			return ""
		}
		return "rebuild #1 running"
	}
	h := StartHeartbeat(r, 2*time.Millisecond, status)

	time.Sleep(20 * time.Millisecond)
	if n := len(r.Snapshot()); n != 0 {
		t.Fatalf("idle heartbeat emitted %d events", n)
	}

	running.Store(true)
	deadline := time.Now().Add(2 * time.Second)
	for len(r.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	h.Stop()
	h.Stop()

	snap := r.Snapshot()
	if len(snap) == 0 {
		t.Fatal("no heartbeat recorded")
	}
	ev := snap[0]
	if ev.Kind != KindHeartbeat || ev.Detail != "rebuild #1 running" || ev.Extra["beat"] != "1" {
		t.Fatalf("unexpected heartbeat %+v", ev)
	}
}

func TestHeartbeatDisabled(t *testing.T) {
	status := func() string { return "x" }
	ring := NewRingTracer(4, LevelPhase)
	if StartHeartbeat(Nop, time.Millisecond, status) != nil {
		t.Fatal("heartbeat started on a disabled tracer")
	}
	if StartHeartbeat(ring, 0, status) != nil {
		t.Fatal("heartbeat started without an interval")
	}
	if StartHeartbeat(ring, time.Millisecond, nil) != nil {
		t.Fatal("heartbeat started without a status")
	}
	var h *Heartbeat
	h.Stop()
}
