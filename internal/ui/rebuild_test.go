package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"errorless/internal/buildpipeline"
)

func TestRebuildModelTracksLastLine(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewRebuildModel("make -j4", events)

	m, _ = m.Update(eventMsg{Stage: buildpipeline.StageCapture, Status: buildpipeline.StatusWorking})
	m, _ = m.Update(eventMsg{Stage: buildpipeline.StageCapture, Status: buildpipeline.StatusWorking, Line: "a.c:1: error: boom"})
	m, _ = m.Update(eventMsg{Stage: buildpipeline.StageCapture, Status: buildpipeline.StatusWorking, Line: "  context"})

	view := m.View()
	if !strings.Contains(view, "make -j4") || !strings.Contains(view, "context") {
		t.Fatalf("unexpected view:\n%s", view)
	}

	m, cmd := m.Update(doneMsg{})
	if cmd == nil {
		t.Fatal("done should quit the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("done should return tea.Quit")
	}
	if view := m.View(); !strings.Contains(view, "done: make -j4") || !strings.Contains(view, "(2 diagnostic lines)") {
		t.Fatalf("unexpected final view:\n%s", view)
	}
}

func TestRebuildModelFailure(t *testing.T) {
	m := NewRebuildModel("make", nil)
	m, _ = m.Update(eventMsg{Stage: buildpipeline.StageCapture, Status: buildpipeline.StatusError})
	m, _ = m.Update(doneMsg{})
	if !strings.Contains(m.View(), "failed: make") {
		t.Fatalf("unexpected view:\n%s", m.View())
	}
}

func TestListenForEventClosedChannel(t *testing.T) {
	events := make(chan buildpipeline.Event)
	close(events)
	m := NewRebuildModel("make", events).(*rebuildModel)
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Fatal("closed channel should produce doneMsg")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefghijkl", 8, "abcde..."},
		{"abcdef", 3, "abc"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
