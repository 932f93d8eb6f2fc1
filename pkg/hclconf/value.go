package hclconf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Kind discriminates the closed set of shapes a parsed attribute can take.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
	// KindRef is an expression that references something outside the file
	// (variables, locals, function calls). Raw holds the original source text.
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindRef:
		return "ref"
	}
	return "invalid"
}

// Value is the tagged-variant representation of parsed block content.
// Exactly one payload field is meaningful for a given Kind.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	List []Value
	Map  map[string]Value
	Raw  string
}

func NullVal() Value               { return Value{Kind: KindNull} }
func StringVal(s string) Value     { return Value{Kind: KindString, Str: s} }
func NumberVal(n float64) Value    { return Value{Kind: KindNumber, Num: n} }
func BoolVal(b bool) Value         { return Value{Kind: KindBool, Bool: b} }
func ListVal(items []Value) Value  { return Value{Kind: KindList, List: items} }
func MapVal(m map[string]Value) Value {
	if m == nil {
		m = make(map[string]Value)
	}
	return Value{Kind: KindMap, Map: m}
}
func RefVal(raw string) Value { return Value{Kind: KindRef, Raw: raw} }

// IsMap reports whether the value is a literal key/value structure.
func (v Value) IsMap() bool { return v.Kind == KindMap }

// MapKeys returns the map keys in sorted order. Nil for non-maps.
func (v Value) MapKeys() []string {
	if v.Kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.Map))
	for k := range v.Map {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Attr fetches a map entry, reporting presence.
func (v Value) Attr(name string) (Value, bool) {
	if v.Kind != KindMap {
		return Value{}, false
	}
	av, ok := v.Map[name]
	return av, ok
}

// AsString returns the string payload, or the raw source for references.
// Empty for all other kinds.
func (v Value) AsString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindRef:
		return v.Raw
	}
	return ""
}

// String serializes the value in an HCL-like textual form. Map keys are
// emitted in sorted order so structurally identical values always
// serialize identically.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.Kind {
	case KindNull:
		b.WriteString("null")
	case KindString:
		b.WriteString(strconv.Quote(v.Str))
	case KindNumber:
		b.WriteString(strconv.FormatFloat(v.Num, 'f', -1, 64))
	case KindBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case KindList:
		b.WriteByte('[')
		for i, item := range v.List {
			if i > 0 {
				b.WriteString(", ")
			}
			item.write(b)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		for i, k := range v.MapKeys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(" = ")
			v.Map[k].write(b)
		}
		b.WriteByte('}')
	case KindRef:
		b.WriteString(v.Raw)
	default:
		b.WriteString("invalid")
	}
}

// fromCty converts a wholly-known cty value into the variant form.
func fromCty(v cty.Value) Value {
	if v.IsNull() {
		return NullVal()
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return StringVal(v.AsString())
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return NumberVal(f)
	case ty == cty.Bool:
		return BoolVal(v.True())
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var items []Value
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			items = append(items, fromCty(ev))
		}
		return ListVal(items)
	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]Value)
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			m[kv.AsString()] = fromCty(ev)
		}
		return MapVal(m)
	}
	// Capsule or other exotic types degrade to their textual form.
	return RefVal(fmt.Sprintf("%v", v))
}
