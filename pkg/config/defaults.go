// Package config defines the analysis run configuration and its
// defaults. Values are bound from flags, environment, and an optional
// config file via viper in the command layer.
package config

// AnalysisConfig holds the knobs of one analysis run.
type AnalysisConfig struct {
	// RequiredTags is the governance tag set every taggable resource
	// must carry.
	RequiredTags []string `mapstructure:"required_tags"`
	// MaxDepth bounds nested module resolution.
	MaxDepth int `mapstructure:"max_depth"`
	// OutputDir receives generated report artifacts.
	OutputDir string `mapstructure:"output_dir"`
	// RulesFile is an optional YAML file of CEL policy rules.
	RulesFile string `mapstructure:"rules_file"`
	// OTLPEndpoint overrides the trace exporter endpoint.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// DefaultRequiredTags is the baseline governance tag set.
var DefaultRequiredTags = []string{
	"Name",
	"Environment",
	"Project",
	"Owner",
	"Cost-Center",
	"Terraform",
}

// DefaultAnalysisConfig returns the defaults applied before any
// flag/env/file binding.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		RequiredTags: append([]string(nil), DefaultRequiredTags...),
		MaxDepth:     32,
		OutputDir:    "./output",
	}
}
