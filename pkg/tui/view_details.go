package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) viewDetails() string {
	if m.cursor < 0 || m.cursor >= len(m.stats) {
		return "No module selected"
	}
	path := m.stats[m.cursor].Path

	rep, err := m.snapshot.ModuleReport(path)
	if err != nil {
		return danger.Render(err.Error())
	}

	header := detailsHeaderStyle.Render(fmt.Sprintf("MODULE : %s", rep.Name))

	summary := lipgloss.JoinVertical(lipgloss.Left,
		special.Render(fmt.Sprintf("COMPLEXITY:  %.2f", rep.ComplexityScore)),
		subtle.Render(fmt.Sprintf("VARIABLES:   %d", rep.Summary.VariablesCount)),
		subtle.Render(fmt.Sprintf("OUTPUTS:     %d", rep.Summary.OutputsCount)),
		subtle.Render(fmt.Sprintf("RESOURCES:   %d", rep.Summary.ResourcesCount)),
		subtle.Render(fmt.Sprintf("SUBMODULES:  %d", rep.Summary.SubmodulesCount)),
	)

	tagLine := fmt.Sprintf("TAGGING:     %d taggable, %d tagged, %d missing",
		rep.TagSummary.TaggableResources, rep.TagSummary.TaggedResources, rep.TagSummary.MissingTags)
	tagStyle := special
	if rep.TagSummary.MissingTags > 0 {
		tagStyle = danger
	}

	var issueLines []string
	addrs := make([]string, 0, len(rep.TagSummary.Issues))
	for addr := range rep.TagSummary.Issues {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	for _, addr := range addrs {
		issueLines = append(issueLines,
			fmt.Sprintf("%-36s : %s", addr, strings.Join(rep.TagSummary.Issues[addr], "; ")))
	}
	issues := dimStyle.Render("No tag issues.")
	if len(issueLines) > 0 {
		issues = warning.Render(strings.Join(issueLines, "\n"))
	}

	var similarBlock string
	if similar, err := m.snapshot.FindSimilar(path, 0.7); err == nil && len(similar) > 0 {
		var lines []string
		for _, hit := range similar {
			lines = append(lines, fmt.Sprintf("%-36s : %.4f", hit.Path, hit.Score))
		}
		similarBlock = highlight.Render("SIMILAR MODULES:") + "\n" + dimStyle.Render(strings.Join(lines, "\n"))
	}

	parts := []string{
		header,
		"",
		summary,
		tagStyle.Render(tagLine),
		"",
		highlight.Render("TAG ISSUES:"),
		issues,
	}
	if similarBlock != "" {
		parts = append(parts, "", similarBlock)
	}
	parts = append(parts, "", strings.Repeat("─", 50), helpStyle("esc back · q quit"))

	return detailsBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
