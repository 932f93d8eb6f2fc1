package analyzer

import (
	"strings"
	"testing"

	"github.com/DrSkyle/tagaudit/pkg/hclconf"
)

func scoreModule(path string, varNames []string, resources map[string]*ResourceRecord) *ModuleRecord {
	m := &ModuleRecord{
		Path:         path,
		Variables:    make(map[string]hclconf.Value),
		Outputs:      make(map[string]hclconf.Value),
		Resources:    resources,
		Dependencies: make(map[string]struct{}),
		TagIssues:    make(map[string][]string),
		Submodules:   make(map[string]*ModuleRecord),
	}
	for _, v := range varNames {
		m.Variables[v] = hclconf.MapVal(nil)
	}
	if resources == nil {
		m.Resources = make(map[string]*ResourceRecord)
	}
	return m
}

func TestComplexityScore(t *testing.T) {
	m := scoreModule("modules/app", []string{"tags", "region"}, map[string]*ResourceRecord{
		"aws_instance.web": {Type: "aws_instance", Name: "web"},
	})
	m.Outputs["id"] = hclconf.StringVal("x")
	m.HasTagsVar = true
	m.TagIssues["aws_instance.web"] = []string{"Missing tags"}
	m.Source = strings.Repeat("x\n", 9) + "x" // ten lines

	// raw = 2*1.0 + 1*0.8 + 1*1.5 = 4.3
	// factor = 1 + (10/100)*0.5 + (0.2 + 0.1) = 1.35
	got := ComplexityScore(m)
	if got != 5.81 {
		t.Errorf("ComplexityScore = %v, want 5.81", got)
	}
}

func TestComplexityScoreIncludesChildren(t *testing.T) {
	child := scoreModule("modules/app/child", []string{"tags"}, nil)
	childScore := ComplexityScore(child)
	if childScore != 1.0 {
		t.Fatalf("child score = %v, want 1", childScore)
	}

	parent := scoreModule("modules/app", nil, nil)
	parent.Submodules["child"] = child

	// Parent has no elements of its own, so its score is exactly half
	// the child's.
	if got := ComplexityScore(parent); got != 0.5 {
		t.Errorf("parent score = %v, want 0.5", got)
	}
}

func TestSimilarityHandComputed(t *testing.T) {
	a := scoreModule("modules/a", []string{"tags", "region"}, map[string]*ResourceRecord{
		"aws_instance.web": {Type: "aws_instance", Name: "web", TagVariables: []string{"tags"}},
		"aws_s3_bucket.b":  {Type: "aws_s3_bucket", Name: "b"},
	})
	b := scoreModule("modules/b", []string{"tags"}, map[string]*ResourceRecord{
		"aws_instance.app": {Type: "aws_instance", Name: "app", TagVariables: []string{"tags", "env"}},
	})

	// resources: {aws_instance, aws_s3_bucket} vs {aws_instance} = 1/2
	// variables: {tags, region} vs {tags}                        = 1/2
	// tag refs over the shared type: {tags} vs {tags, env}       = 1/2
	// 0.5*0.4 + 0.5*0.2 + 0.5*0.4 = 0.5
	if got := Similarity(a, b); got != 0.5 {
		t.Errorf("Similarity = %v, want 0.5", got)
	}
	if Similarity(a, b) != Similarity(b, a) {
		t.Error("similarity is not symmetric")
	}
}

func TestSimilarityIdentical(t *testing.T) {
	a := scoreModule("modules/a", []string{"tags"}, map[string]*ResourceRecord{
		"aws_instance.web": {Type: "aws_instance", Name: "web", TagVariables: []string{"tags"}},
	})
	b := scoreModule("modules/b", []string{"tags"}, map[string]*ResourceRecord{
		"aws_instance.app": {Type: "aws_instance", Name: "app", TagVariables: []string{"tags"}},
	})
	if got := Similarity(a, b); got != 1.0 {
		t.Errorf("Similarity of structurally identical modules = %v, want 1", got)
	}
}

func TestSimilarityEmptyModules(t *testing.T) {
	a := scoreModule("modules/a", nil, nil)
	b := scoreModule("modules/b", nil, nil)
	if got := Similarity(a, b); got != 0 {
		t.Errorf("Similarity of empty modules = %v, want 0", got)
	}
}

func TestFindSimilarOrdering(t *testing.T) {
	target := scoreModule("t", []string{"tags"}, map[string]*ResourceRecord{
		"aws_instance.x": {Type: "aws_instance", Name: "x", TagVariables: []string{"tags"}},
	})
	twin := scoreModule("twin", []string{"tags"}, map[string]*ResourceRecord{
		"aws_instance.y": {Type: "aws_instance", Name: "y", TagVariables: []string{"tags"}},
	})
	cousin := scoreModule("cousin", []string{"tags", "region"}, map[string]*ResourceRecord{
		"aws_instance.z": {Type: "aws_instance", Name: "z", TagVariables: []string{"tags"}},
	})
	stranger := scoreModule("stranger", []string{"zone"}, map[string]*ResourceRecord{
		"aws_lambda_function.f": {Type: "aws_lambda_function", Name: "f"},
	})

	snap := &Snapshot{Modules: map[string]*ModuleRecord{
		"t": target, "twin": twin, "cousin": cousin, "stranger": stranger,
	}}

	hits, err := snap.FindSimilar("t", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2: %+v", len(hits), hits)
	}
	if hits[0].Path != "twin" || hits[1].Path != "cousin" {
		t.Errorf("hit order = [%s %s], want [twin cousin]", hits[0].Path, hits[1].Path)
	}
	if hits[0].Score < hits[1].Score {
		t.Error("hits not sorted by descending score")
	}

	if _, err := snap.FindSimilar("nope", 0.5); err == nil {
		t.Error("expected error for unknown module path")
	}
}
