package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorIndigo   = lipgloss.Color("#6366F1") // headers
	colorEmerald  = lipgloss.Color("#10B981") // compliant
	colorAmber    = lipgloss.Color("#F59E0B") // partial
	colorRose     = lipgloss.Color("#F43F5E") // missing tags
	colorTextMain = lipgloss.Color("#E2E8F0")
	colorTextSub  = lipgloss.Color("#64748B")

	subtle    = lipgloss.NewStyle().Foreground(colorTextSub)
	dimStyle  = lipgloss.NewStyle().Foreground(colorTextSub)
	highlight = lipgloss.NewStyle().Foreground(colorIndigo).Bold(true)
	special   = lipgloss.NewStyle().Foreground(colorEmerald).Bold(true)
	danger    = lipgloss.NewStyle().Foreground(colorRose).Bold(true)
	warning   = lipgloss.NewStyle().Foreground(colorAmber)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorIndigo).
			Bold(true).
			Padding(0, 1)

	listSelectedStyle = lipgloss.NewStyle().
				Foreground(colorTextMain).
				Bold(true)

	listNormalStyle = lipgloss.NewStyle().
			Foreground(colorTextSub)

	detailsHeaderStyle = lipgloss.NewStyle().
				Foreground(colorIndigo).
				Bold(true).
				Underline(true)

	detailsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorTextSub).
			Padding(1, 2)

	helpStyle = dimStyle.Render
)
