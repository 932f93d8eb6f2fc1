package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/DrSkyle/tagaudit/pkg/analyzer"
	"github.com/DrSkyle/tagaudit/pkg/report"
	"github.com/DrSkyle/tagaudit/pkg/resource"
	"github.com/DrSkyle/tagaudit/pkg/telemetry"
	"github.com/DrSkyle/tagaudit/pkg/version"
)

var analyzeOutput string

var AnalyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Analyze Terraform modules and report tag compliance",
	Long: `Walks a Terraform codebase, resolves nested modules, and reports
tag compliance per module.

Example:
  tagaudit analyze ./infrastructure
  tagaudit analyze ./infrastructure -v --required-tags Name,Owner`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := runAnalysis(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printSummary(snap)
		if verbose {
			printDetails(snap)
		}

		if err := os.MkdirAll(analyzeOutput, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		csvPath := filepath.Join(analyzeOutput, "tag_analysis.csv")
		if err := report.GenerateCSV(snap, csvPath); err != nil {
			return err
		}
		fmt.Printf("\nTag analysis written to: %s\n", csvPath)
		return nil
	},
}

func init() {
	AnalyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "./output", "Output directory for analysis results")
}

// runAnalysis wires telemetry and executes one analysis run.
func runAnalysis(ctx context.Context, root string) (*analyzer.Snapshot, error) {
	logger := newLogger(os.Stderr)

	shutdown, err := telemetry.Init(ctx, "tagaudit", version.Current, cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}
	defer shutdown(ctx)

	a, err := analyzer.New(root,
		analyzer.WithLogger(logger),
		analyzer.WithRequiredTags(cfg.RequiredTags),
		analyzer.WithMaxDepth(cfg.MaxDepth),
	)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx)
}

var (
	summaryHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6366F1"))
	summaryOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	summaryBadStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F43F5E"))
	summaryDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
)

func printSummary(snap *analyzer.Snapshot) {
	perModule, total := report.Summarize(snap)

	fmt.Println(summaryHeaderStyle.Render("Module Analysis Summary"))
	header := fmt.Sprintf("%-40s %9s %9s %7s %8s", "MODULE PATH", "RESOURCES", "TAGGABLE", "TAGGED", "MISSING")
	fmt.Println(summaryDimStyle.Render(header))
	fmt.Println(summaryDimStyle.Render(strings.Repeat("─", len(header))))

	for _, ms := range perModule {
		line := fmt.Sprintf("%-40s %9d %9d %7d %8d",
			ms.Path, ms.Resources, ms.Taggable, ms.Tagged, ms.Missing)
		if ms.Missing > 0 {
			fmt.Println(summaryBadStyle.Render(line))
		} else {
			fmt.Println(line)
		}
	}

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Overall Statistics"))
	fmt.Printf("Total Modules: %d\n", total.Modules)
	fmt.Printf("Total Resources: %d\n", total.Resources)
	fmt.Printf("Taggable Resources: %d\n", total.Taggable)
	fmt.Printf("Tagged Resources: %d\n", total.Tagged)
	fmt.Printf("Missing Tags: %d\n", total.Missing)
	if total.Taggable > 0 {
		line := fmt.Sprintf("Tag Compliance: %.1f%%", total.CompliancePercent())
		if total.Missing == 0 {
			fmt.Println(summaryOKStyle.Render(line))
		} else {
			fmt.Println(summaryBadStyle.Render(line))
		}
	}

	if len(snap.Warnings) > 0 {
		fmt.Println()
		fmt.Println(summaryHeaderStyle.Render("Warnings"))
		for _, w := range snap.Warnings {
			fmt.Println(summaryDimStyle.Render("  " + w.String()))
		}
	}
}

// printDetails lists every flagged resource per module and suggests
// fixes for modules without a tags variable.
func printDetails(snap *analyzer.Snapshot) {
	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Detailed Tag Analysis"))

	snap.WalkModules(func(path string, mod *analyzer.ModuleRecord) {
		flagged := mod.ResourceAddresses()
		var lines []string
		for _, addr := range flagged {
			res := mod.Resources[addr]
			issues := analyzer.AnalyzeTags(res, mod, snap.RequiredTags).Issues
			if len(issues) == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("  • %s: %s", addr, strings.Join(issues, "; ")))
		}
		if len(lines) == 0 {
			return
		}

		fmt.Printf("\n%s:\n", summaryHeaderStyle.Render(path))
		for _, line := range lines {
			fmt.Println(summaryBadStyle.Render(line))
		}

		if !mod.HasTagsVar {
			for _, fix := range resource.SuggestFixes(nil, snap.RequiredTags, mod.HasTagsVar) {
				fmt.Println(summaryDimStyle.Render("  fix: " + fix))
			}
		}
	})
}
