// Package hclconf wraps the HCL toolchain behind a uniform block model.
// It parses raw module text into blockType -> name -> attributes mappings
// with a closed-variant Value type, tolerating the block layout quirks of
// different writers. Malformed files degrade to an empty result plus a
// recoverable ParseWarning; this package never panics across its boundary.
package hclconf

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Blocks maps block type -> block name -> attribute structure.
// Two-label blocks (resource, data) are keyed "type.name".
type Blocks map[string]map[string]Value

// ParseWarning signals that one file could not be parsed. Callers log it
// and continue with the rest of the module.
type ParseWarning struct {
	File   string
	Detail string
}

func (w *ParseWarning) Error() string {
	return fmt.Sprintf("failed to parse %s: %s", w.File, w.Detail)
}

// Parse parses HCL source into the normalized block mapping.
// On malformed input it returns an empty (non-nil) Blocks and a
// *ParseWarning; it never returns a hard error.
func Parse(filename string, src []byte) (Blocks, *ParseWarning) {
	defer func() {
		// The HCL parser is robust, but we hold the no-panic contract at
		// the module boundary regardless.
		_ = recover()
	}()

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Blocks{}, &ParseWarning{File: filename, Detail: diags.Error()}
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return Blocks{}, &ParseWarning{File: filename, Detail: "unexpected body representation"}
	}

	out := Blocks{}
	for _, block := range body.Blocks {
		key := block.Type
		if len(block.Labels) > 0 {
			key = strings.Join(block.Labels, ".")
		}

		if block.Type == "locals" {
			// locals have no labels; each attribute is its own entry.
			if out["locals"] == nil {
				out["locals"] = make(map[string]Value)
			}
			for name, attr := range block.Body.Attributes {
				out["locals"][name] = exprValue(attr.Expr, src)
			}
			continue
		}

		if out[block.Type] == nil {
			out[block.Type] = make(map[string]Value)
		}
		// Last write wins on duplicate keys, both within a file and when
		// callers Merge results across files.
		out[block.Type][key] = bodyValue(block.Body, src)
	}

	return out, nil
}

// Merge folds src into dst with last-write-wins semantics at the block
// name level. Repeated block collections across files therefore collapse
// into one mapping, matching the adapter contract.
func Merge(dst, src Blocks) {
	for blockType, entries := range src {
		if dst[blockType] == nil {
			dst[blockType] = make(map[string]Value)
		}
		for name, v := range entries {
			dst[blockType][name] = v
		}
	}
}

// bodyValue flattens a block body into a map Value: attributes become
// entries, nested blocks become maps (or lists of maps when repeated).
func bodyValue(body *hclsyntax.Body, src []byte) Value {
	m := make(map[string]Value)

	for name, attr := range body.Attributes {
		m[name] = exprValue(attr.Expr, src)
	}

	for _, nested := range body.Blocks {
		nv := bodyValue(nested.Body, src)
		existing, ok := m[nested.Type]
		switch {
		case !ok:
			m[nested.Type] = nv
		case existing.Kind == KindList:
			existing.List = append(existing.List, nv)
			m[nested.Type] = existing
		default:
			m[nested.Type] = ListVal([]Value{existing, nv})
		}
	}

	return MapVal(m)
}

// exprValue lowers one expression to a Value. Literal structures are
// decomposed recursively so that map keys stay visible even when the
// leaf values are references; anything that cannot be evaluated without
// a scope becomes a KindRef carrying the raw source text.
func exprValue(expr hclsyntax.Expression, src []byte) Value {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		return fromCty(e.Val)

	case *hclsyntax.TupleConsExpr:
		items := make([]Value, 0, len(e.Exprs))
		for _, item := range e.Exprs {
			items = append(items, exprValue(item, src))
		}
		return ListVal(items)

	case *hclsyntax.ObjectConsExpr:
		m := make(map[string]Value, len(e.Items))
		for _, item := range e.Items {
			m[objectKey(item.KeyExpr, src)] = exprValue(item.ValueExpr, src)
		}
		return MapVal(m)

	case *hclsyntax.TemplateExpr:
		if e.IsStringLiteral() {
			if v, diags := e.Value(nil); !diags.HasErrors() {
				return fromCty(v)
			}
		}
		return RefVal(rawText(src, e.Range()))
	}

	// Constant folding covers parenthesized literals and similar shapes.
	if v, diags := expr.Value(nil); !diags.HasErrors() && v.IsWhollyKnown() {
		return fromCty(v)
	}
	return RefVal(rawText(src, expr.Range()))
}

// objectKey resolves an object item key: quoted strings and bare
// identifiers evaluate directly, computed keys fall back to raw text.
func objectKey(expr hclsyntax.Expression, src []byte) string {
	if key, ok := expr.(*hclsyntax.ObjectConsKeyExpr); ok {
		if name := hcl.ExprAsKeyword(key.Wrapped); name != "" {
			return name
		}
		if v, diags := key.Wrapped.Value(nil); !diags.HasErrors() && v.Type() == cty.String {
			return v.AsString()
		}
	}
	if v, diags := expr.Value(nil); !diags.HasErrors() && v.Type() == cty.String {
		return v.AsString()
	}
	return strings.Trim(rawText(src, expr.Range()), `"`)
}

func rawText(src []byte, rng hcl.Range) string {
	if rng.Start.Byte < 0 || rng.End.Byte > len(src) || rng.Start.Byte > rng.End.Byte {
		return ""
	}
	return string(src[rng.Start.Byte:rng.End.Byte])
}
