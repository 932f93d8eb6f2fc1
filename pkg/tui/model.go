// Package tui is the interactive module browser: a scrollable compliance
// list over the analysis snapshot with a per-module detail view.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DrSkyle/tagaudit/pkg/analyzer"
	"github.com/DrSkyle/tagaudit/pkg/report"
)

type analysisDoneMsg struct {
	snapshot *analyzer.Snapshot
	err      error
}

type Model struct {
	spinner  spinner.Model
	root     string
	options  []analyzer.Option
	scanning bool
	quitting bool
	err      error

	snapshot *analyzer.Snapshot
	stats    []report.ModuleStats
	totals   report.Stats

	cursor         int
	showingDetails bool
	width          int
	height         int
}

// NewModel prepares the browser; the analysis itself starts on Init so
// the spinner is visible while directories are walked.
func NewModel(root string, opts ...analyzer.Option) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = highlight

	return Model{
		spinner:  s,
		root:     root,
		options:  opts,
		scanning: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runAnalysis())
}

func (m Model) runAnalysis() tea.Cmd {
	return func() tea.Msg {
		a, err := analyzer.New(m.root, m.options...)
		if err != nil {
			return analysisDoneMsg{err: err}
		}
		snap, err := a.Analyze(context.Background())
		return analysisDoneMsg{snapshot: snap, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.stats)-1 {
				m.cursor++
			}
		case "enter", " ":
			if !m.scanning && len(m.stats) > 0 {
				m.showingDetails = !m.showingDetails
			}
		case "esc":
			m.showingDetails = false
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case analysisDoneMsg:
		m.scanning = false
		m.err = msg.err
		m.snapshot = msg.snapshot
		if msg.snapshot != nil {
			m.stats, m.totals = report.Summarize(msg.snapshot)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return danger.Render("Analysis failed: "+m.err.Error()) + "\n"
	}
	if m.scanning {
		return "\n " + m.spinner.View() + " Analyzing Terraform modules...\n\n " +
			helpStyle("Press q to quit")
	}
	if m.showingDetails {
		return m.viewDetails()
	}
	return m.viewList()
}

// Run starts the browser over the given analysis root.
func Run(root string, opts ...analyzer.Option) error {
	_, err := tea.NewProgram(NewModel(root, opts...), tea.WithAltScreen()).Run()
	return err
}
