package analyzer

import "fmt"

// WarningKind classifies recoverable analysis conditions. All of these
// are accumulated on the Snapshot and surfaced in the final report; none
// of them aborts a run.
type WarningKind string

const (
	// WarnParse: one file failed to parse; the file is skipped and the
	// rest of the module continues.
	WarnParse WarningKind = "parse"
	// WarnModuleLoad: one module directory failed; the module is skipped
	// and the run continues.
	WarnModuleLoad WarningKind = "module_load"
	// WarnUnresolvedDependency: a submodule source does not exist on disk
	// or resolves outside the analysis root. Recorded as a graph edge to
	// an unresolved node.
	WarnUnresolvedDependency WarningKind = "unresolved_dependency"
)

// Warning is one recoverable analysis condition.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Path   string      `json:"path"`
	Detail string      `json:"detail"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s: %s", w.Kind, w.Path, w.Detail)
}

// ConfigurationError is fatal: the run is rejected before any analysis
// starts (invalid root path, unreadable output location).
type ConfigurationError struct {
	Path   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Path, e.Reason)
}
