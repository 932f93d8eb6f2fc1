package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/DrSkyle/tagaudit/pkg/hclconf"
)

// Recognized reference syntaxes for tag values. All patterns are applied
// to the serialized attribute text and the captures unioned; this is
// deliberately a textual match rather than an expression evaluation, so
// deeply nested expressions can produce false positives or negatives.
// That tolerance is the contract, not a bug to fix with guessed semantics.
var tagVarPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{var\.([^}]+)\}`),            // "${var.xxx}"
	regexp.MustCompile(`var\.([a-zA-Z0-9_-]+)`),         // var.xxx
	regexp.MustCompile(`merge\s*\(\s*var\.([^,\)]+)`),   // merge(var.xxx, ...)
	regexp.MustCompile(`lookup\s*\(\s*var\.([^,\)]+)`),  // lookup(var.xxx, ...)
}

// ExtractTagVariables returns the variable names referenced by an
// attribute value, sorted and deduplicated. Literal values yield an
// empty result.
func ExtractTagVariables(v hclconf.Value) []string {
	text := v.String()
	seen := make(map[string]struct{})
	for _, pat := range tagVarPatterns {
		for _, match := range pat.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(match[1])
			if name != "" {
				seen[name] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// TagAnalysis is the derived tag-propagation verdict for one resource.
// It is a pure function of (resource, owning module, required set) and is
// recomputed on demand; required sets are configurable per run.
type TagAnalysis struct {
	LocalTagsVar        string   `json:"local_tags_var,omitempty"`
	InheritedTags       []string `json:"inherited_tags,omitempty"`
	MissingRequiredTags []string `json:"missing_required_tags,omitempty"`
	ExtraTags           []string `json:"extra_tags,omitempty"`
	HasValidPropagation bool     `json:"has_valid_propagation"`
	Issues              []string `json:"issues,omitempty"`
}

// AnalyzeTags classifies each tag-variable reference as local (declared
// in the owning module) or inherited (presumed passed from a parent; no
// cross-module resolution is attempted to confirm it). Required/extra
// tags are computed only when the tags attribute is a literal key-value
// structure; a pure variable reference reports both sets empty rather
// than guessed.
func AnalyzeTags(res *ResourceRecord, mod *ModuleRecord, required map[string]struct{}) TagAnalysis {
	var a TagAnalysis

	for _, v := range res.TagVariables {
		if _, ok := mod.Variables[v]; ok {
			a.LocalTagsVar = v
		} else {
			a.InheritedTags = append(a.InheritedTags, v)
		}
	}

	if res.HasTags {
		if tags, ok := res.Attributes.Attr("tags"); ok && tags.IsMap() {
			actual := make(map[string]struct{}, len(tags.Map))
			for k := range tags.Map {
				actual[k] = struct{}{}
			}
			for tag := range required {
				if _, ok := actual[tag]; !ok {
					a.MissingRequiredTags = append(a.MissingRequiredTags, tag)
				}
			}
			for tag := range actual {
				if _, ok := required[tag]; !ok {
					a.ExtraTags = append(a.ExtraTags, tag)
				}
			}
			sort.Strings(a.MissingRequiredTags)
			sort.Strings(a.ExtraTags)
		}
	}

	a.HasValidPropagation = a.LocalTagsVar != "" || len(a.InheritedTags) > 0

	if !res.HasTags && res.SupportsTags {
		a.Issues = append(a.Issues, "Missing tags")
	}
	if len(a.MissingRequiredTags) > 0 {
		a.Issues = append(a.Issues,
			fmt.Sprintf("Missing required tags: %s", strings.Join(a.MissingRequiredTags, ", ")))
	}
	if !a.HasValidPropagation && res.HasTags {
		a.Issues = append(a.Issues, "Tags not properly propagated from variables")
	}

	return a
}
