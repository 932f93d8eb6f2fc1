package analyzer

import "sort"

// ModuleSummary is the count block of a module report.
type ModuleSummary struct {
	VariablesCount    int `json:"variables_count"`
	OutputsCount      int `json:"outputs_count"`
	ResourcesCount    int `json:"resources_count"`
	DependenciesCount int `json:"dependencies_count"`
	SubmodulesCount   int `json:"submodules_count"`
}

// TagSummary aggregates the tagging posture of one module.
type TagSummary struct {
	TaggableResources int                 `json:"taggable_resources"`
	TaggedResources   int                 `json:"tagged_resources"`
	MissingTags       int                 `json:"missing_tags"`
	HasTagsVariable   bool                `json:"has_tags_variable"`
	Issues            map[string][]string `json:"issues,omitempty"`
}

// ModuleReport is the structured per-module summary exposed to reporting
// and visualization collaborators.
type ModuleReport struct {
	Name            string        `json:"name"`
	Summary         ModuleSummary `json:"summary"`
	ComplexityScore float64       `json:"complexity_score"`
	Variables       []string      `json:"variables"`
	Outputs         []string      `json:"outputs"`
	Resources       []string      `json:"resources"`
	Dependencies    []string      `json:"dependencies"`
	TagSummary      TagSummary    `json:"tag_summary"`
	Submodules      []string      `json:"submodules,omitempty"`
}

// ModuleReport builds the structured summary for one top-level module.
func (s *Snapshot) ModuleReport(path string) (*ModuleReport, error) {
	mod, ok := s.Modules[path]
	if !ok {
		return nil, &ConfigurationError{Path: path, Reason: "module not found"}
	}
	return buildReport(path, mod, s.RequiredTags), nil
}

func buildReport(path string, mod *ModuleRecord, required map[string]struct{}) *ModuleReport {
	deps := make([]string, 0, len(mod.Dependencies))
	for d := range mod.Dependencies {
		deps = append(deps, d)
	}
	sort.Strings(deps)

	subs := make([]string, 0, len(mod.Submodules))
	for n := range mod.Submodules {
		subs = append(subs, n)
	}
	sort.Strings(subs)

	tags := TagSummary{
		HasTagsVariable: mod.HasTagsVar,
		Issues:          make(map[string][]string),
	}
	for addr, res := range mod.Resources {
		if res.SupportsTags {
			tags.TaggableResources++
			if res.HasTags {
				tags.TaggedResources++
			} else {
				tags.MissingTags++
			}
		}
		if issues := AnalyzeTags(res, mod, required).Issues; len(issues) > 0 {
			tags.Issues[addr] = issues
		}
	}

	return &ModuleReport{
		Name: path,
		Summary: ModuleSummary{
			VariablesCount:    len(mod.Variables),
			OutputsCount:      len(mod.Outputs),
			ResourcesCount:    len(mod.Resources),
			DependenciesCount: len(mod.Dependencies),
			SubmodulesCount:   len(mod.Submodules),
		},
		ComplexityScore: ComplexityScore(mod),
		Variables:       mod.VariableNames(),
		Outputs:         mod.OutputNames(),
		Resources:       mod.ResourceAddresses(),
		Dependencies:    deps,
		TagSummary:      tags,
		Submodules:      subs,
	}
}
