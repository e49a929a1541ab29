package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"errorless/internal/trace"
)

func TestDumpTraceOnPanicShowsLastCommand(t *testing.T) {
	ring := trace.NewRingTracer(8, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	for _, name := range []string{"list", "make"} {
		cctx, span := trace.Start(ctx, trace.ScopeCommand, name)
		trace.Point(cctx, trace.ScopeStage, "capture", "started")
		if name == "list" {
			span.End("")
		}
	}

	var out bytes.Buffer
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("recovered %v, want the first panic", r)
		}
		dump := out.String()
		if !strings.HasPrefix(dump, "trace: last command before panic:\n# 2 events, 0 dropped\n") {
			t.Fatalf("unexpected dump header:\n%s", dump)
		}
		if !strings.Contains(dump, "make") || strings.Contains(dump, "list") {
			t.Fatalf("dump is not limited to the last command:\n%s", dump)
		}
	}()
	func() {
		defer dumpTraceOnPanic(ring, &out)
		panic("boom")
	}()
}

func TestRingOf(t *testing.T) {
	ring := trace.NewRingTracer(4, trace.LevelPhase)
	if ringOf(ring) != ring {
		t.Fatal("ring tracer not found")
	}
	multi := trace.NewMultiTracer(trace.LevelPhase, trace.Nop, ring)
	if ringOf(multi) != ring {
		t.Fatal("ring inside multi tracer not found")
	}
	if ringOf(trace.Nop) != nil {
		t.Fatal("nop tracer has no ring")
	}
}
