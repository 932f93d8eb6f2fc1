package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DrSkyle/tagaudit/pkg/hclconf"
)

// DefaultMaxDepth bounds module nesting. Memoization already breaks
// cycles; the ceiling protects against deep-but-acyclic trees that would
// otherwise exhaust the call stack.
const DefaultMaxDepth = 32

// resolveSubmodules resolves every declared child-module call of one
// module, recursively loading local sources. Each (parent dir, source)
// pair is processed at most once per run: a module that directly or
// transitively includes itself is simply not expanded a second time
// along the repeated edge.
func (a *Analyzer) resolveSubmodules(parentDir string, calls map[string]hclconf.Value, depth int) map[string]*ModuleRecord {
	out := make(map[string]*ModuleRecord)
	if len(calls) == 0 {
		return out
	}

	names := make([]string, 0, len(calls))
	for name := range calls {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		src, ok := calls[name].Attr("source")
		source := src.AsString()
		if !ok || source == "" {
			continue
		}

		memoKey := parentDir + "::" + source
		if _, done := a.memo[memoKey]; done {
			continue
		}
		a.memo[memoKey] = struct{}{}

		// Remote sources (git::, URLs, known hosts) stay opaque dependency
		// identifiers; they are never filesystem-resolved.
		if isRemoteSource(source) {
			a.logger.Debug("Skipping remote module source", "module", name, "source", source)
			continue
		}

		resolved := filepath.Clean(filepath.Join(parentDir, source))

		if strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../") {
			rel, err := filepath.Rel(a.root, resolved)
			if err != nil || strings.HasPrefix(rel, "..") {
				a.warn(WarnUnresolvedDependency, a.relPath(parentDir),
					fmt.Sprintf("module %q source %q resolves outside the analysis root", name, source))
				continue
			}
		}

		info, err := os.Stat(resolved)
		if err != nil || !info.IsDir() {
			if looksLikeRegistrySource(source) {
				// Registry identifiers pass through as opaque graph nodes.
				a.logger.Debug("Skipping registry module source", "module", name, "source", source)
				continue
			}
			a.warn(WarnUnresolvedDependency, a.relPath(parentDir),
				fmt.Sprintf("module %q source %q does not exist", name, source))
			continue
		}

		if depth+1 > a.maxDepth {
			a.warn(WarnModuleLoad, a.relPath(resolved),
				fmt.Sprintf("module nesting exceeds the depth limit of %d", a.maxDepth))
			continue
		}

		child, err := a.loadModule(resolved, depth+1, name, source)
		if err != nil {
			a.warn(WarnModuleLoad, a.relPath(resolved),
				fmt.Sprintf("failed to analyze submodule %q: %v", name, err))
			continue
		}
		out[name] = child
	}

	return out
}

// isRemoteSource reports whether a module source is a non-local address:
// go-getter style prefixes, URLs, or well-known hosts.
func isRemoteSource(source string) bool {
	return strings.Contains(source, "::") ||
		strings.Contains(source, "://") ||
		strings.HasPrefix(source, "github.com/") ||
		strings.HasPrefix(source, "bitbucket.org/")
}

// looksLikeRegistrySource matches namespace/name/provider registry
// addresses. Only consulted after the path failed to resolve locally, so
// a real directory named like this still wins.
func looksLikeRegistrySource(source string) bool {
	if strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../") {
		return false
	}
	parts := strings.Split(source, "/")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return false
		}
	}
	return true
}
