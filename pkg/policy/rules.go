package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DrSkyle/tagaudit/pkg/report"
)

// RulesFile is the on-disk rule set shape.
type RulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads and validates a YAML rule set.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Rules))
	for i, r := range file.Rules {
		if r.ID == "" {
			return nil, fmt.Errorf("rule %d has no id", i)
		}
		if r.Condition == "" {
			return nil, fmt.Errorf("rule %s has no condition", r.ID)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("duplicate rule id %s", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return file.Rules, nil
}

// Annotate appends matched rule IDs to each row's issue list, prefixed
// so static classifier findings stay distinguishable.
func Annotate(rows []report.Row, engine *Engine) []report.Row {
	for i := range rows {
		for _, id := range engine.EvaluateRow(rows[i]) {
			rows[i].Issues = append(rows[i].Issues, "Policy violation: "+id)
		}
	}
	return rows
}
