package resource

import "testing"

func TestSupportsTags(t *testing.T) {
	cases := []struct {
		resourceType string
		want         bool
	}{
		{"aws_instance", true},
		{"aws_s3_bucket", true},
		{"aws_eks_node_group", true},
		{"aws_iam_role", true},
		{"aws_route53_record", false},
		{"aws_iam_role_policy_attachment", false},
		{"google_compute_instance", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := SupportsTags(tc.resourceType); got != tc.want {
			t.Errorf("SupportsTags(%q) = %v, want %v", tc.resourceType, got, tc.want)
		}
	}
}

func TestDefaultRequiredTags(t *testing.T) {
	set := DefaultRequiredTags()
	for _, want := range []string{"Name", "Environment", "Project", "Owner", "Cost-Center", "Terraform"} {
		if _, ok := set[want]; !ok {
			t.Errorf("default required set missing %q", want)
		}
	}
	if len(set) != 6 {
		t.Errorf("default required set has %d entries, want 6", len(set))
	}

	// Returned set must be a fresh copy, not shared state.
	delete(set, "Name")
	if _, ok := DefaultRequiredTags()["Name"]; !ok {
		t.Error("mutating a returned set leaked into the registry")
	}
}

func TestRequiredTagSetOverride(t *testing.T) {
	set := RequiredTagSet([]string{"Team", " CostCode ", ""})
	if len(set) != 2 {
		t.Fatalf("override set has %d entries, want 2", len(set))
	}
	if _, ok := set["CostCode"]; !ok {
		t.Error("override entries should be trimmed")
	}
}

func TestProviderAndService(t *testing.T) {
	if got := ProviderOf("aws_ecs_cluster"); got != "aws" {
		t.Errorf("ProviderOf = %q", got)
	}
	if got := ServiceOf("aws_ecs_cluster"); got != "ecs" {
		t.Errorf("ServiceOf = %q", got)
	}
	if got := ServiceOf("aws"); got != "" {
		t.Errorf("ServiceOf(aws) = %q, want empty", got)
	}
}
