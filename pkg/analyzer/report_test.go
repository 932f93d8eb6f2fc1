package analyzer

import (
	"reflect"
	"testing"
)

func TestModuleReport(t *testing.T) {
	snap := analyze(t, map[string]string{
		"modules/app/main.tf": `
variable "tags" {
  type = map(string)
}

variable "name" {
  type = string
}

output "instance_id" {
  value = aws_instance.app.id
}

resource "aws_instance" "app" {
  ami  = "ami-123456"
  tags = var.tags
}

resource "aws_instance" "bare" {
  ami = "ami-654321"
}
`,
	})

	rep, err := snap.ModuleReport("modules/app")
	if err != nil {
		t.Fatal(err)
	}

	if rep.Name != "modules/app" {
		t.Errorf("Name = %q", rep.Name)
	}
	if rep.Summary.VariablesCount != 2 || rep.Summary.OutputsCount != 1 || rep.Summary.ResourcesCount != 2 {
		t.Errorf("summary = %+v", rep.Summary)
	}
	if !reflect.DeepEqual(rep.Variables, []string{"name", "tags"}) {
		t.Errorf("Variables = %v", rep.Variables)
	}
	if !reflect.DeepEqual(rep.Resources, []string{"aws_instance.app", "aws_instance.bare"}) {
		t.Errorf("Resources = %v", rep.Resources)
	}
	if rep.ComplexityScore <= 0 {
		t.Errorf("ComplexityScore = %v, want > 0", rep.ComplexityScore)
	}

	ts := rep.TagSummary
	if ts.TaggableResources != 2 || ts.TaggedResources != 1 || ts.MissingTags != 1 {
		t.Errorf("tag summary = %+v", ts)
	}
	if !ts.HasTagsVariable {
		t.Error("expected HasTagsVariable")
	}
	if got := ts.Issues["aws_instance.bare"]; !reflect.DeepEqual(got, []string{"Missing tags"}) {
		t.Errorf("bare issues = %v", got)
	}
	if _, flagged := ts.Issues["aws_instance.app"]; flagged {
		t.Errorf("app should be clean: %v", ts.Issues["aws_instance.app"])
	}

	if _, err := snap.ModuleReport("nope"); err == nil {
		t.Error("expected error for unknown module")
	}
}
