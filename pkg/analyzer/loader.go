package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/DrSkyle/tagaudit/pkg/hclconf"
	"github.com/DrSkyle/tagaudit/pkg/resource"
)

// Reference shapes that contribute dependency identifiers: interpolated
// addresses and bare resource-type traversals (resource types always
// contain an underscore, which keeps variable and local references out).
var (
	interpRefPattern   = regexp.MustCompile(`\$\{([^}]+)\}`)
	resourceRefPattern = regexp.MustCompile(`\b([a-z][a-z0-9]*(?:_[a-z0-9_]+)+)\.([a-zA-Z_][a-zA-Z0-9_-]*)`)
)

// reservedRefPrefixes never identify a resource.
var reservedRefPrefixes = map[string]struct{}{
	"var": {}, "local": {}, "module": {}, "each": {}, "count": {},
	"path": {}, "terraform": {}, "self": {},
}

// loadModule reads every module file in one directory (non-recursive;
// nested directories are reached only through explicit child-module
// declarations), merges the parsed blocks with last-write-wins, and
// builds the ModuleRecord. Submodules are resolved synchronously before
// the record is returned; it is never mutated afterward.
func (a *Analyzer) loadModule(dir string, depth int, callName, callSource string) (*ModuleRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read module directory: %w", err)
	}

	combined := hclconf.Blocks{}
	var source strings.Builder

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tf") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			a.warn(WarnParse, path, err.Error())
			continue
		}
		source.Write(data)
		source.WriteByte('\n')

		blocks, pw := hclconf.Parse(path, data)
		if pw != nil {
			a.warn(WarnParse, path, pw.Detail)
			a.logger.Warn("Skipping unparseable file", "file", path, "detail", pw.Detail)
			continue
		}
		hclconf.Merge(combined, blocks)
	}

	mod := &ModuleRecord{
		Path:            a.relPath(dir),
		Dir:             dir,
		Variables:       make(map[string]hclconf.Value),
		Outputs:         make(map[string]hclconf.Value),
		Resources:       make(map[string]*ResourceRecord),
		Dependencies:    make(map[string]struct{}),
		Source:          source.String(),
		TagIssues:       make(map[string][]string),
		Submodules:      make(map[string]*ModuleRecord),
		SubmoduleName:   callName,
		SubmoduleSource: callSource,
	}

	for name, decl := range combined["variable"] {
		mod.Variables[name] = decl
		if name == "tags" || strings.HasSuffix(name, "_tags") {
			mod.HasTagsVar = true
		}
	}
	for name, decl := range combined["output"] {
		mod.Outputs[name] = decl
	}

	for addr, attrs := range combined["resource"] {
		typ, name, ok := strings.Cut(addr, ".")
		if !ok {
			continue
		}
		rec := &ResourceRecord{
			Type:            typ,
			Name:            name,
			Attributes:      attrs,
			SupportsTags:    resource.SupportsTags(typ),
			ModulePath:      mod.Path,
			SubmoduleSource: callSource,
		}
		tagsVal, hasTags := attrs.Attr("tags")
		rec.HasTags = hasTags
		if rec.SupportsTags && hasTags {
			rec.TagVariables = ExtractTagVariables(tagsVal)
		}
		mod.Resources[addr] = rec

		for _, ref := range extractResourceRefs(attrs) {
			if ref != addr {
				mod.Dependencies[ref] = struct{}{}
			}
		}

		switch {
		case rec.SupportsTags && !hasTags:
			mod.TagIssues[addr] = append(mod.TagIssues[addr], "Missing tags")
		case rec.SupportsTags && hasTags && len(rec.TagVariables) == 0:
			mod.TagIssues[addr] = append(mod.TagIssues[addr], "Tags not properly propagated from variables")
		}
	}

	// Child-module call sources are dependency identifiers even when the
	// target is remote or missing.
	for _, call := range combined["module"] {
		if src, ok := call.Attr("source"); ok && src.AsString() != "" {
			mod.Dependencies[src.AsString()] = struct{}{}
		}
	}

	mod.Submodules = a.resolveSubmodules(dir, combined["module"], depth)

	a.graph.AddNode(mod.Path)
	for dep := range mod.Dependencies {
		a.graph.AddEdge(mod.Path, dep)
	}

	return mod, nil
}

// relPath renders a directory relative to the analysis root, falling back
// to the base name when the directory lies outside it.
func (a *Analyzer) relPath(dir string) string {
	rel, err := filepath.Rel(a.root, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(dir)
	}
	return filepath.ToSlash(rel)
}

// extractResourceRefs pulls dependency identifiers out of a resource's
// serialized attributes: "type.name" pairs from interpolations plus bare
// resource traversals.
func extractResourceRefs(attrs hclconf.Value) []string {
	text := attrs.String()
	seen := make(map[string]struct{})

	for _, match := range interpRefPattern.FindAllStringSubmatch(text, -1) {
		parts := strings.Split(match[1], ".")
		if len(parts) < 2 {
			continue
		}
		if _, reserved := reservedRefPrefixes[parts[0]]; reserved {
			continue
		}
		seen[parts[0]+"."+parts[1]] = struct{}{}
	}

	for _, match := range resourceRefPattern.FindAllStringSubmatch(text, -1) {
		if _, reserved := reservedRefPrefixes[match[1]]; reserved {
			continue
		}
		seen[match[1]+"."+match[2]] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for ref := range seen {
		out = append(out, ref)
	}
	return out
}
