package config

import (
	"testing"
)

func TestDefaultAnalysisConfig(t *testing.T) {
	cfg := DefaultAnalysisConfig()

	if cfg.MaxDepth != 32 {
		t.Errorf("Expected MaxDepth 32, got %d", cfg.MaxDepth)
	}
	if cfg.OutputDir != "./output" {
		t.Errorf("Expected OutputDir ./output, got %s", cfg.OutputDir)
	}

	foundOwner := false
	for _, tag := range cfg.RequiredTags {
		if tag == "Owner" {
			foundOwner = true
			break
		}
	}
	if !foundOwner {
		t.Error("Expected 'Owner' to be in RequiredTags")
	}
}

func TestDefaultRequiredTagsIsolated(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	cfg.RequiredTags[0] = "Mutated"

	if DefaultRequiredTags[0] != "Name" {
		t.Error("DefaultRequiredTags must not alias per-run config slices")
	}
}
