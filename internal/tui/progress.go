package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"fmd/internal/core"
)

// EventMsg wraps a downloader progress event for the view. The command
// layer forwards core.ProgressFunc callbacks here via Program.Send.
type EventMsg core.ProgressEvent

// DoneMsg ends the view once the whole run has finished.
type DoneMsg struct{}

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// maxLines caps the completion log so long batches don't scroll the bar away.
const maxLines = 10

// Model renders download progress: a completion log, a bar across the
// plan, and a live byte counter.
type Model struct {
	spinner spinner.Model
	bar     progress.Model

	planned   int
	completed int
	failed    int
	bytes     int64
	lines     []string
	finished  bool
}

// New creates the progress view.
func New() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	return Model{
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 8
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		return m.applyEvent(core.ProgressEvent(msg)), nil

	case DoneMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) applyEvent(ev core.ProgressEvent) Model {
	switch ev.Kind {
	case core.ProgressPlanned:
		m.planned = ev.Planned

	case core.ProgressDone:
		m.completed++
		if ev.Err != nil {
			m.failed++
			m.lines = append(m.lines, failStyle.Render("✗ ")+ev.ModName+dimStyle.Render(" ("+ev.Err.Error()+")"))
		} else {
			m.bytes += ev.Downloaded
			m.lines = append(m.lines, okStyle.Render("✓ ")+ev.ModName+dimStyle.Render(" ("+humanize.Bytes(uint64(ev.Downloaded))+")"))
		}
		if len(m.lines) > maxLines {
			m.lines = m.lines[len(m.lines)-maxLines:]
		}
	}
	return m
}

// Completed returns how many plan entries have finished (either way).
func (m Model) Completed() int { return m.completed }

// Failed returns how many plan entries failed.
func (m Model) Failed() int { return m.failed }

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.finished {
		return b.String()
	}

	if m.planned == 0 {
		b.WriteString(fmt.Sprintf("%s Resolving dependencies...\n", m.spinner.View()))
		return b.String()
	}

	frac := float64(m.completed) / float64(m.planned)
	b.WriteString(fmt.Sprintf("%s Downloading %d/%d (%s)\n",
		m.spinner.View(), m.completed, m.planned, humanize.Bytes(uint64(m.bytes))))
	b.WriteString(m.bar.ViewAs(frac))
	b.WriteString("\n")
	return b.String()
}
