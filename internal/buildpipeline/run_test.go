package buildpipeline

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSink struct {
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.events = append(s.events, ev)
}

func (s *recordingSink) lines() []string {
	var out []string
	for _, ev := range s.events {
		if ev.Line != "" {
			out = append(out, ev.Line)
		}
	}
	return out
}

func TestRunCapturesBothStreams(t *testing.T) {
	sink := &recordingSink{}
	res, err := Run(context.Background(), &Request{
		Command:  `echo built; printf 'a.c:1: error: boom\nnote\n' >&2; exit 3`,
		Progress: sink,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stdout != "built\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if res.Diagnostics() != "a.c:1: error: boom\nnote\n" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
	if res.ExitCode != 3 || !res.Failed() {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if diff := cmp.Diff([]string{"a.c:1: error: boom", "note"}, sink.lines()); diff != "" {
		t.Errorf("progress lines mismatch (-want +got):\n%s", diff)
	}
	last := sink.events[len(sink.events)-1]
	if last.Stage != StageCapture || last.Status != StatusDone {
		t.Errorf("last event = %+v, want capture/done", last)
	}
}

func TestRunSuccessfulBuild(t *testing.T) {
	res, err := Run(context.Background(), &Request{Command: "true"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Failed() || res.Stdout != "" || res.Stderr != "" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRunPartialLineWithoutNewline(t *testing.T) {
	sink := &recordingSink{}
	res, err := Run(context.Background(), &Request{Command: `printf 'warning: tail' >&2`, Progress: sink})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stderr != "warning: tail" {
		t.Fatalf("Stderr = %q", res.Stderr)
	}
	if diff := cmp.Diff([]string{"warning: tail"}, sink.lines()); diff != "" {
		t.Fatalf("progress lines mismatch (-want +got):\n%s", diff)
	}
}

func TestRunEnvAndDir(t *testing.T) {
	dir := t.TempDir()
	res, err := Run(context.Background(), &Request{
		Command: `printf '%s|%s' "$ERRORLESS_TEST" "$(basename "$PWD")"`,
		Dir:     dir,
		Env:     []string{"ERRORLESS_TEST=yes"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stdout == "" || res.Stdout[:4] != "yes|" {
		t.Fatalf("Stdout = %q", res.Stdout)
	}
}

func TestRunLaunchFailure(t *testing.T) {
	sink := &recordingSink{}
	_, err := Run(context.Background(), &Request{
		Command:  "true",
		Shell:    "/nonexistent/errorless-shell",
		Progress: sink,
	})
	if err == nil {
		t.Fatal("expected an error for a missing shell")
	}
	last := sink.events[len(sink.events)-1]
	if last.Status != StatusError {
		t.Fatalf("last event = %+v, want error status", last)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, &Request{Command: "true"}); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}

func TestRunRejectsEmptyRequest(t *testing.T) {
	if _, err := Run(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a nil request")
	}
	if _, err := Run(context.Background(), &Request{Command: "   "}); err == nil {
		t.Fatal("expected an error for a blank command")
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	MultiSink{a, nil, b}.OnEvent(Event{Stage: StageCapture, Line: "x"})
	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("events: a=%d b=%d", len(a.events), len(b.events))
	}
}
