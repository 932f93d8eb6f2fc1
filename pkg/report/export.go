// Package report renders analysis snapshots into persisted artifacts:
// the canonical tag-analysis CSV, a JSON dump of the same rows, and a
// Markdown compliance summary. The CSV column set and order are a
// compatibility surface; downstream tooling consumes them positionally.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DrSkyle/tagaudit/pkg/analyzer"
)

// Row is one exported resource, flat for CSV/JSON.
type Row struct {
	ModulePath          string   `json:"module_path"`
	SubmoduleSource     string   `json:"submodule_source,omitempty"`
	ResourceType        string   `json:"resource_type"`
	ResourceName        string   `json:"resource_name"`
	FullResourceID      string   `json:"full_resource_id"`
	SupportsTags        bool     `json:"supports_tags"`
	HasTags             bool     `json:"has_tags"`
	TagVariablesUsed    []string `json:"tag_variables_used,omitempty"`
	Issues              []string `json:"issues,omitempty"`
	HasTagsVariable     bool     `json:"has_tags_variable"`
	LocalTagsVariable   string   `json:"local_tags_variable,omitempty"`
	InheritedTags       []string `json:"inherited_tags,omitempty"`
	MissingRequiredTags []string `json:"missing_required_tags,omitempty"`
	ExtraTags           []string `json:"extra_tags,omitempty"`
}

var csvHeader = []string{
	"Module Path",
	"Submodule Source",
	"Resource Type",
	"Resource Name",
	"Full Resource ID",
	"Supports Tags",
	"Has Tags",
	"Tag Variables Used",
	"Issues",
	"Has Tags Variable",
	"Local Tags Variable",
	"Inherited Tags",
	"Missing Required Tags",
	"Extra Tags",
}

// BuildRows flattens the snapshot into one row per resource, visiting
// nested submodules depth-first after their parent. Order is
// deterministic: sorted module paths, then sorted resource addresses.
func BuildRows(snap *analyzer.Snapshot) []Row {
	var rows []Row
	snap.WalkModules(func(path string, mod *analyzer.ModuleRecord) {
		for _, addr := range mod.ResourceAddresses() {
			res := mod.Resources[addr]
			ta := analyzer.AnalyzeTags(res, mod, snap.RequiredTags)
			rows = append(rows, Row{
				ModulePath:          path,
				SubmoduleSource:     res.SubmoduleSource,
				ResourceType:        res.Type,
				ResourceName:        res.Name,
				FullResourceID:      res.Address(),
				SupportsTags:        res.SupportsTags,
				HasTags:             res.HasTags,
				TagVariablesUsed:    res.TagVariables,
				Issues:              ta.Issues,
				HasTagsVariable:     mod.HasTagsVar,
				LocalTagsVariable:   ta.LocalTagsVar,
				InheritedTags:       ta.InheritedTags,
				MissingRequiredTags: ta.MissingRequiredTags,
				ExtraTags:           ta.ExtraTags,
			})
		}
	})
	return rows
}

// WriteCSV renders the canonical tag-analysis table.
func WriteCSV(snap *analyzer.Snapshot, out io.Writer) error {
	return RenderCSV(BuildRows(snap), out)
}

// RenderCSV writes prebuilt rows, for callers that post-process them
// (policy annotation) before export.
func RenderCSV(rows []Row, out io.Writer) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.ModulePath,
			row.SubmoduleSource,
			row.ResourceType,
			row.ResourceName,
			row.FullResourceID,
			yesNo(row.SupportsTags),
			yesNo(row.HasTags),
			strings.Join(row.TagVariablesUsed, ", "),
			strings.Join(row.Issues, "; "),
			yesNo(row.HasTagsVariable),
			row.LocalTagsVariable,
			strings.Join(row.InheritedTags, ", "),
			strings.Join(row.MissingRequiredTags, ", "),
			strings.Join(row.ExtraTags, ", "),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteJSON renders the same rows as indented JSON.
func WriteJSON(snap *analyzer.Snapshot, out io.Writer) error {
	return RenderJSON(BuildRows(snap), out)
}

// RenderJSON writes prebuilt rows as indented JSON.
func RenderJSON(rows []Row, out io.Writer) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// GenerateCSV writes the tag-analysis CSV to a file.
func GenerateCSV(snap *analyzer.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(snap, f)
}

// GenerateJSON writes the row dump to a file.
func GenerateJSON(snap *analyzer.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(snap, f)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Stats is the aggregate compliance block shown by the console summary
// and the Markdown report. Tagged counts every resource carrying a tags
// attribute, taggable or not, matching the tabular report's Has Tags
// column.
type Stats struct {
	Modules   int
	Resources int
	Taggable  int
	Tagged    int
	Missing   int
}

// CompliancePercent is tagged-over-taggable, or 0 with no taggables.
func (s Stats) CompliancePercent() float64 {
	if s.Taggable == 0 {
		return 0
	}
	return float64(s.Tagged) / float64(s.Taggable) * 100
}

// ModuleStats is one module's line in the summary table.
type ModuleStats struct {
	Path      string
	Resources int
	Taggable  int
	Tagged    int
	Missing   int
}

// Summarize computes per-module and overall compliance counts over the
// top-level modules.
func Summarize(snap *analyzer.Snapshot) ([]ModuleStats, Stats) {
	var perModule []ModuleStats
	total := Stats{Modules: len(snap.Modules)}

	for _, path := range snap.ModulePaths() {
		mod := snap.Modules[path]
		ms := ModuleStats{Path: path, Resources: len(mod.Resources)}
		for _, res := range mod.Resources {
			if res.SupportsTags {
				ms.Taggable++
				if !res.HasTags {
					ms.Missing++
				}
			}
			if res.HasTags {
				ms.Tagged++
			}
		}
		perModule = append(perModule, ms)

		total.Resources += ms.Resources
		total.Taggable += ms.Taggable
		total.Tagged += ms.Tagged
		total.Missing += ms.Missing
	}
	return perModule, total
}

// WriteMarkdown renders a compliance summary document: the per-module
// table plus overall statistics.
func WriteMarkdown(snap *analyzer.Snapshot, out io.Writer) error {
	perModule, total := Summarize(snap)

	var b strings.Builder
	b.WriteString("# Tag Compliance Summary\n\n")
	b.WriteString("| Module Path | Resources | Taggable | Tagged | Missing Tags |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, ms := range perModule {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %d |\n",
			ms.Path, ms.Resources, ms.Taggable, ms.Tagged, ms.Missing)
	}

	b.WriteString("\n## Overall Statistics\n\n")
	fmt.Fprintf(&b, "- Total Modules: %d\n", total.Modules)
	fmt.Fprintf(&b, "- Total Resources: %d\n", total.Resources)
	fmt.Fprintf(&b, "- Taggable Resources: %d\n", total.Taggable)
	fmt.Fprintf(&b, "- Tagged Resources: %d\n", total.Tagged)
	fmt.Fprintf(&b, "- Missing Tags: %d\n", total.Missing)
	if total.Taggable > 0 {
		fmt.Fprintf(&b, "- Tag Compliance: %.1f%%\n", total.CompliancePercent())
	}

	if len(snap.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range snap.Warnings {
			fmt.Fprintf(&b, "- **%s** `%s`: %s\n", w.Kind, w.Path, w.Detail)
		}
	}

	_, err := out.Write([]byte(b.String()))
	return err
}

// GenerateMarkdown writes the compliance summary to a file.
func GenerateMarkdown(snap *analyzer.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteMarkdown(snap, f)
}
