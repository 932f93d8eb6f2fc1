package analyzer

import (
	"reflect"
	"testing"

	"github.com/DrSkyle/tagaudit/pkg/hclconf"
	"github.com/DrSkyle/tagaudit/pkg/resource"
)

func TestExtractTagVariables(t *testing.T) {
	cases := []struct {
		name  string
		value hclconf.Value
		want  []string
	}{
		{
			name:  "direct reference",
			value: hclconf.RefVal("var.tags"),
			want:  []string{"tags"},
		},
		{
			name:  "interpolated reference",
			value: hclconf.MapVal(map[string]hclconf.Value{"Name": hclconf.RefVal(`"${var.name_prefix}-web"`)}),
			want:  []string{"name_prefix"},
		},
		{
			name:  "merge call",
			value: hclconf.RefVal(`merge(var.common_tags, { Name = "web" })`),
			want:  []string{"common_tags"},
		},
		{
			name:  "lookup call",
			value: hclconf.RefVal(`lookup(var.env_tags, "prod", {})`),
			want:  []string{"env_tags"},
		},
		{
			name: "mixed map",
			value: hclconf.MapVal(map[string]hclconf.Value{
				"Name":        hclconf.RefVal("var.name"),
				"Environment": hclconf.StringVal("prod"),
				"Extra":       hclconf.RefVal("merge(var.base_tags, local.more)"),
			}),
			want: []string{"base_tags", "name"},
		},
		{
			name: "literal only",
			value: hclconf.MapVal(map[string]hclconf.Value{
				"Name": hclconf.StringVal("static"),
			}),
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractTagVariables(tc.value)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExtractTagVariablesIdempotent(t *testing.T) {
	// Extraction from a value and from a structurally identical
	// reconstruction must agree.
	build := func() hclconf.Value {
		return hclconf.MapVal(map[string]hclconf.Value{
			"tags": hclconf.RefVal("var.common"),
		})
	}
	first := ExtractTagVariables(build())
	second := ExtractTagVariables(build())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not idempotent: %v vs %v", first, second)
	}
}

func testModule(vars ...string) *ModuleRecord {
	m := &ModuleRecord{
		Path:      "modules/test",
		Variables: make(map[string]hclconf.Value),
		Resources: make(map[string]*ResourceRecord),
		TagIssues: make(map[string][]string),
	}
	for _, v := range vars {
		m.Variables[v] = hclconf.MapVal(nil)
	}
	return m
}

func TestAnalyzeTagsLocalVersusInherited(t *testing.T) {
	mod := testModule("tags")
	res := &ResourceRecord{
		Type:         "aws_instance",
		Name:         "web",
		SupportsTags: true,
		HasTags:      true,
		TagVariables: []string{"tags", "parent_tags"},
		Attributes: hclconf.MapVal(map[string]hclconf.Value{
			"tags": hclconf.RefVal("merge(var.tags, var.parent_tags)"),
		}),
	}

	a := AnalyzeTags(res, mod, resource.DefaultRequiredTags())
	if a.LocalTagsVar != "tags" {
		t.Errorf("LocalTagsVar = %q, want tags", a.LocalTagsVar)
	}
	if !reflect.DeepEqual(a.InheritedTags, []string{"parent_tags"}) {
		t.Errorf("InheritedTags = %v", a.InheritedTags)
	}
	if !a.HasValidPropagation {
		t.Error("expected valid propagation")
	}
	// Tags expressed purely through references: required/extra stay empty
	// rather than guessed.
	if len(a.MissingRequiredTags) != 0 || len(a.ExtraTags) != 0 {
		t.Errorf("non-literal tags should not produce required/extra sets: %v / %v",
			a.MissingRequiredTags, a.ExtraTags)
	}
	if len(a.Issues) != 0 {
		t.Errorf("unexpected issues: %v", a.Issues)
	}
}

func TestAnalyzeTagsLiteralOnly(t *testing.T) {
	mod := testModule()
	res := &ResourceRecord{
		Type:         "aws_s3_bucket",
		Name:         "data",
		SupportsTags: true,
		HasTags:      true,
		Attributes: hclconf.MapVal(map[string]hclconf.Value{
			"tags": hclconf.MapVal(map[string]hclconf.Value{
				"Name":  hclconf.StringVal("data"),
				"Squad": hclconf.StringVal("storage"),
			}),
		}),
	}

	a := AnalyzeTags(res, mod, resource.RequiredTagSet([]string{"Name", "Environment"}))
	if !reflect.DeepEqual(a.MissingRequiredTags, []string{"Environment"}) {
		t.Errorf("MissingRequiredTags = %v", a.MissingRequiredTags)
	}
	if !reflect.DeepEqual(a.ExtraTags, []string{"Squad"}) {
		t.Errorf("ExtraTags = %v", a.ExtraTags)
	}
	if a.HasValidPropagation {
		t.Error("literal-only tags must not count as propagation")
	}

	// Literal tags satisfy nothing about propagation even if every
	// required key were present.
	found := false
	for _, issue := range a.Issues {
		if issue == "Tags not properly propagated from variables" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected propagation issue, got %v", a.Issues)
	}
}

func TestAnalyzeTagsMissingTags(t *testing.T) {
	mod := testModule()
	res := &ResourceRecord{
		Type:         "aws_instance",
		Name:         "bare",
		SupportsTags: true,
		HasTags:      false,
		Attributes:   hclconf.MapVal(nil),
	}

	a := AnalyzeTags(res, mod, resource.DefaultRequiredTags())
	if !reflect.DeepEqual(a.Issues, []string{"Missing tags"}) {
		t.Errorf("Issues = %v, want [Missing tags]", a.Issues)
	}
	if a.HasValidPropagation {
		t.Error("no tags means no propagation")
	}
}
