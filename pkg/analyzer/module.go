package analyzer

import (
	"sort"

	"github.com/DrSkyle/tagaudit/pkg/hclconf"
)

// ResourceRecord is one declared infrastructure resource. Created once
// during module loading, immutable afterward.
type ResourceRecord struct {
	Type       string        `json:"type"`
	Name       string        `json:"name"`
	Attributes hclconf.Value `json:"-"`

	// SupportsTags is the classifier's answer for the type. HasTags
	// records the literal presence of a tags attribute in source; the two
	// are independent, and HasTags without SupportsTags (tags declared on
	// a non-taggable type) is itself a reportable condition.
	SupportsTags bool     `json:"supports_tags"`
	HasTags      bool     `json:"has_tags"`
	TagVariables []string `json:"tag_variables"`

	ModulePath string `json:"module_path"`
	// SubmoduleSource identifies the child-module call that introduced
	// this resource; empty for resources of directly discovered modules.
	SubmoduleSource string `json:"submodule_source,omitempty"`
}

// Address is the qualified "type.name" identifier, unique per module.
func (r *ResourceRecord) Address() string {
	return r.Type + "." + r.Name
}

// ModuleRecord is one module directory, top-level or nested. The
// Submodules map forms a strict tree owned by this record; cross-module
// links live only in the dependency graph.
type ModuleRecord struct {
	Path string `json:"path"` // relative to the analysis root
	Dir  string `json:"-"`    // absolute directory

	Variables map[string]hclconf.Value   `json:"-"`
	Outputs   map[string]hclconf.Value   `json:"-"`
	Resources map[string]*ResourceRecord `json:"resources"`

	// Dependencies is the union of submodule source strings and resource
	// addresses referenced through interpolations.
	Dependencies map[string]struct{} `json:"-"`

	// Source is the concatenated module text, used only for the
	// size-based complexity factor.
	Source string `json:"-"`

	HasTagsVar bool                     `json:"has_tags_var"`
	TagIssues  map[string][]string      `json:"tag_issues"`
	Submodules map[string]*ModuleRecord `json:"submodules"`

	// Provenance, set only when loaded through a child-module call.
	SubmoduleName   string `json:"submodule_name,omitempty"`
	SubmoduleSource string `json:"submodule_source,omitempty"`
}

// VariableNames returns declared variable names, sorted.
func (m *ModuleRecord) VariableNames() []string {
	names := make([]string, 0, len(m.Variables))
	for n := range m.Variables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// OutputNames returns declared output names, sorted.
func (m *ModuleRecord) OutputNames() []string {
	names := make([]string, 0, len(m.Outputs))
	for n := range m.Outputs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ResourceAddresses returns qualified resource names, sorted.
func (m *ModuleRecord) ResourceAddresses() []string {
	addrs := make([]string, 0, len(m.Resources))
	for a := range m.Resources {
		addrs = append(addrs, a)
	}
	sort.Strings(addrs)
	return addrs
}

// ResourceTypes returns the set of distinct resource types.
func (m *ModuleRecord) ResourceTypes() map[string]struct{} {
	types := make(map[string]struct{}, len(m.Resources))
	for _, r := range m.Resources {
		types[r.Type] = struct{}{}
	}
	return types
}

// SourceLineCount counts lines in the concatenated module text.
func (m *ModuleRecord) SourceLineCount() int {
	if m.Source == "" {
		return 0
	}
	lines := 1
	for _, c := range m.Source {
		if c == '\n' {
			lines++
		}
	}
	return lines
}
