package tui

import (
	"fmt"
	"strings"
)

func (m Model) viewList() string {
	s := strings.Builder{}

	s.WriteString(titleStyle.Render("TAGAUDIT"))
	s.WriteString("\n")
	s.WriteString(subtle.Render(fmt.Sprintf(" %s", m.root)))
	s.WriteString("\n\n")

	if len(m.stats) == 0 {
		return s.String() + dimStyle.Render("  No Terraform modules found.") + "\n\n " +
			helpStyle("Press q to quit")
	}

	header := fmt.Sprintf("  %-36s | %9s | %8s | %6s | %7s",
		"MODULE PATH", "RESOURCES", "TAGGABLE", "TAGGED", "MISSING")
	s.WriteString(dimStyle.Render(header) + "\n")
	s.WriteString(dimStyle.Render("  "+strings.Repeat("─", len(header)-2)) + "\n")

	start, end := m.calculateWindow(len(m.stats))
	for i := start; i < end; i++ {
		ms := m.stats[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		path := ms.Path
		if len(path) > 36 {
			path = "..." + path[len(path)-33:]
		}

		line := fmt.Sprintf("%-36s | %9d | %8d | %6d | %7d",
			path, ms.Resources, ms.Taggable, ms.Tagged, ms.Missing)

		switch {
		case ms.Missing > 0:
			line = danger.Render(line)
		case ms.Taggable > 0 && ms.Tagged < ms.Taggable:
			line = warning.Render(line)
		}

		if i == m.cursor {
			s.WriteString(listSelectedStyle.Render(cursor+line) + "\n")
		} else {
			s.WriteString(listNormalStyle.Render(cursor+line) + "\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(special.Render(fmt.Sprintf(" Compliance: %.1f%%", m.totals.CompliancePercent())))
	s.WriteString(subtle.Render(fmt.Sprintf("  (%d modules, %d resources, %d missing tags)",
		m.totals.Modules, m.totals.Resources, m.totals.Missing)))
	s.WriteString("\n\n ")
	s.WriteString(helpStyle("↑/↓ navigate · enter details · q quit"))
	return s.String()
}

func (m Model) calculateWindow(total int) (int, int) {
	windowSize := m.height - 10
	if windowSize < 5 {
		windowSize = 5
	}

	start := m.cursor - windowSize/2
	if start < 0 {
		start = 0
	}

	end := start + windowSize
	if end > total {
		end = total
		start = end - windowSize
		if start < 0 {
			start = 0
		}
	}
	return start, end
}
