// Package analyzer is the recursive module-resolution and tag-propagation
// engine. It discovers module directories under a root, parses their
// declarations into a uniform model, resolves nested module references
// with cycle-safe memoization, classifies tag-variable provenance, and
// aggregates everything into an immutable Snapshot for reporting.
package analyzer

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/DrSkyle/tagaudit/pkg/graph"
	"github.com/DrSkyle/tagaudit/pkg/resource"
)

// Analyzer drives one analysis run. It is not safe for concurrent use;
// the memoization set and warning collector are scoped to a single run.
// If module loading is ever parallelized across top-level directories,
// the memo set must become a concurrent map and recursion within one
// module tree must stay sequential to keep provenance deterministic.
type Analyzer struct {
	root     string
	logger   *slog.Logger
	required map[string]struct{}
	maxDepth int
	tracer   trace.Tracer

	graph    *graph.Graph
	memo     map[string]struct{}
	warnings []Warning
}

// Option overrides one Analyzer default.
type Option func(*Analyzer)

func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

func WithRequiredTags(tags []string) Option {
	return func(a *Analyzer) { a.required = resource.RequiredTagSet(tags) }
}

func WithMaxDepth(depth int) Option {
	return func(a *Analyzer) {
		if depth > 0 {
			a.maxDepth = depth
		}
	}
}

// New validates the analysis root and prepares a run. An invalid root is
// a fatal *ConfigurationError; nothing is analyzed.
func New(root string, opts ...Option) (*Analyzer, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &ConfigurationError{Path: root, Reason: err.Error()}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &ConfigurationError{Path: root, Reason: "path does not exist"}
	}
	if !info.IsDir() {
		return nil, &ConfigurationError{Path: root, Reason: "path is not a directory"}
	}

	a := &Analyzer{
		root:     abs,
		logger:   slog.Default(),
		required: resource.DefaultRequiredTags(),
		maxDepth: DefaultMaxDepth,
		tracer:   otel.Tracer("tagaudit/analyzer"),
		graph:    graph.New(),
		memo:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Analyzer) warn(kind WarningKind, path, detail string) {
	a.warnings = append(a.warnings, Warning{Kind: kind, Path: path, Detail: detail})
}

// Analyze discovers and loads every module directory under the root and
// returns the assembled snapshot. Per-module failures are recorded as
// warnings and skipped; they never abort the run.
func (a *Analyzer) Analyze(ctx context.Context) (*Snapshot, error) {
	_, span := a.tracer.Start(ctx, "tagaudit.analyze",
		trace.WithAttributes(attribute.String("root", a.root)))
	defer span.End()

	dirs, err := a.discoverModuleDirs()
	if err != nil {
		return nil, err
	}
	a.logger.Info("Discovered module directories", "count", len(dirs))

	modules := make(map[string]*ModuleRecord, len(dirs))
	for _, dir := range dirs {
		rec, err := a.loadModule(dir, 0, "", "")
		if err != nil {
			a.warn(WarnModuleLoad, a.relPath(dir), err.Error())
			a.logger.Warn("Skipping module", "dir", dir, "error", err)
			continue
		}
		modules[rec.Path] = rec
	}

	span.SetAttributes(attribute.Int("modules", len(modules)))
	a.logger.Info("Analysis complete", "modules", len(modules), "graph", a.graph.DumpStats())

	return &Snapshot{
		Root:         a.root,
		Modules:      modules,
		Graph:        a.graph,
		Warnings:     a.warnings,
		RequiredTags: a.required,
	}, nil
}

// discoverModuleDirs finds the parent directories of all module files
// under the root. A directory with no module files is never a module,
// even when it holds submodules reachable elsewhere.
func (a *Analyzer) discoverModuleDirs() ([]string, error) {
	set := make(map[string]struct{})
	err := filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			a.warn(WarnModuleLoad, a.relPath(path), err.Error())
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".terraform" || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tf") {
			set[filepath.Dir(path)] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(set))
	for dir := range set {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// Snapshot is the immutable result of one analysis run. Reporting and
// visualization layers consume it read-only; there is no process-wide
// mutable results object.
type Snapshot struct {
	Root         string                   `json:"root"`
	Modules      map[string]*ModuleRecord `json:"modules"`
	Graph        *graph.Graph             `json:"-"`
	Warnings     []Warning                `json:"warnings,omitempty"`
	RequiredTags map[string]struct{}      `json:"-"`
}

// ModulePaths returns the top-level module paths, sorted.
func (s *Snapshot) ModulePaths() []string {
	paths := make([]string, 0, len(s.Modules))
	for p := range s.Modules {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Module looks up a top-level module record by path.
func (s *Snapshot) Module(path string) (*ModuleRecord, bool) {
	m, ok := s.Modules[path]
	return m, ok
}

// WalkModules visits every module record, top-level and nested, in
// deterministic order. The visit path for nested records joins the
// parent's visit path and the submodule call name.
func (s *Snapshot) WalkModules(fn func(path string, mod *ModuleRecord)) {
	for _, p := range s.ModulePaths() {
		walkModule(p, s.Modules[p], fn)
	}
}

func walkModule(path string, mod *ModuleRecord, fn func(string, *ModuleRecord)) {
	fn(path, mod)
	names := make([]string, 0, len(mod.Submodules))
	for n := range mod.Submodules {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		walkModule(path+"/"+n, mod.Submodules[n], fn)
	}
}
