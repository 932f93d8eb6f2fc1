// Package policy evaluates user-defined compliance rules against
// exported resource rows. Rules are CEL expressions over the row's tag
// facts; a rule that evaluates to true is a finding and its ID is
// appended to the resource's issue list.
package policy

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"

	"github.com/DrSkyle/tagaudit/pkg/report"
)

// Rule is one user-defined compliance rule, typically loaded from YAML.
type Rule struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Condition is a CEL expression over the row variables, e.g.
	// `supports_tags && !has_tags && resource_type.startsWith("aws_db")`.
	Condition string `json:"condition" yaml:"condition"`
	Action    string `json:"action,omitempty" yaml:"action,omitempty"` // "warn" or "block"
}

// Engine compiles rules once and evaluates them per resource row.
type Engine struct {
	env      *cel.Env
	programs map[string]cel.Program
}

// NewEngine declares the row variables available to rule conditions.
func NewEngine() (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("id", decls.String),
			decls.NewVar("resource_type", decls.String),
			decls.NewVar("module", decls.String),
			decls.NewVar("supports_tags", decls.Bool),
			decls.NewVar("has_tags", decls.Bool),
			decls.NewVar("has_tags_variable", decls.Bool),
			decls.NewVar("tag_variables", decls.NewListType(decls.String)),
			decls.NewVar("issues", decls.NewListType(decls.String)),
			decls.NewVar("missing_required_tags", decls.NewListType(decls.String)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	return &Engine{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// Compile compiles a list of rules into executable programs. A rule that
// fails to compile rejects the whole set; a half-loaded policy is worse
// than none.
func (e *Engine) Compile(rules []Rule) error {
	for _, r := range rules {
		ast, issues := e.env.Compile(r.Condition)
		if issues != nil && issues.Err() != nil {
			return fmt.Errorf("rule %s compilation error: %w", r.ID, issues.Err())
		}

		prg, err := e.env.Program(ast)
		if err != nil {
			return fmt.Errorf("rule %s program creation error: %w", r.ID, err)
		}

		e.programs[r.ID] = prg
	}
	return nil
}

// EvaluateRow returns the IDs of every rule matching the row. Runtime
// evaluation errors are logged and treated as non-matches.
func (e *Engine) EvaluateRow(row report.Row) []string {
	vars := map[string]interface{}{
		"id":                    row.FullResourceID,
		"resource_type":         row.ResourceType,
		"module":                row.ModulePath,
		"supports_tags":         row.SupportsTags,
		"has_tags":              row.HasTags,
		"has_tags_variable":     row.HasTagsVariable,
		"tag_variables":         emptyIfNil(row.TagVariablesUsed),
		"issues":                emptyIfNil(row.Issues),
		"missing_required_tags": emptyIfNil(row.MissingRequiredTags),
	}

	var matches []string
	for id, prg := range e.programs {
		out, _, err := prg.Eval(vars)
		if err != nil {
			slog.Error("Rule evaluation failed", "rule_id", id, "error", err)
			continue
		}
		if match, ok := out.Value().(bool); ok && match {
			matches = append(matches, id)
		}
	}
	sort.Strings(matches)
	return matches
}

// emptyIfNil keeps CEL list variables non-null.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
