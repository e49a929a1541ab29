package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"errorless/internal/buildpipeline"
	"errorless/internal/diag"
)

type rebuildModel struct {
	command string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	last    string
	lines   int
	failed  bool
	width   int
	done    bool
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewRebuildModel returns a Bubble Tea model that shows a spinner and the
// most recent diagnostic line while command runs. The program quits once
// events is closed.
func NewRebuildModel(command string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return &rebuildModel{
		command: command,
		events:  events,
		spinner: sp,
		width:   80,
	}
}

func (m *rebuildModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *rebuildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.applyEvent(buildpipeline.Event(msg))
		return m, m.listenForEvent()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	}
	return m, nil
}

func (m *rebuildModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	lineStyle := lipgloss.NewStyle().Faint(true)

	width := m.width - 4
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	if m.done {
		status := "done"
		if m.failed {
			status = "failed"
		}
		b.WriteString(titleStyle.Render(fmt.Sprintf("%s: %s", status, truncate(m.command, width))))
		b.WriteString(lineStyle.Render(fmt.Sprintf(" (%d diagnostic lines)", m.lines)))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(titleStyle.Render(truncate(m.command, width-2)))
	b.WriteString("\n")
	if m.last != "" {
		b.WriteString("  ")
		b.WriteString(styleLine(m.last).Render(truncate(m.last, width)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *rebuildModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *rebuildModel) applyEvent(ev buildpipeline.Event) {
	if ev.Status == buildpipeline.StatusError {
		m.failed = true
	}
	if ev.Line == "" {
		return
	}
	m.last = ev.Line
	m.lines++
}

func styleLine(line string) lipgloss.Style {
	for _, m := range diag.DefaultMarkers() {
		if _, ok := m.Find(line); !ok {
			continue
		}
		if m.Kind == diag.KindError {
			return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Faint(true)
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
