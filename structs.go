package tytx

import (
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/genropy/tytx/facet"
	"github.com/genropy/tytx/i18n"
)

// SchemaKind tags the three struct schema shapes. The shape is inferred once,
// at registration time, from the literal structure of the definition: object
// -> dict, one-element array -> homogeneous, longer array -> positional.
type SchemaKind int

const (
	DictSchema        SchemaKind = iota // name -> FieldSpec, applied to objects by key.
	PositionalSchema                    // []FieldSpec, zipped against arrays by index.
	HomogeneousSchema                   // one FieldSpec applied to every leaf, recursively.
)

// FieldSpec describes one struct field: a type code plus optional constraint
// and UI metadata. A bare string definition is shorthand for a FieldSpec
// holding only the type code.
type FieldSpec struct {
	// TypeCode is a scalar/custom code, a struct reference ("@NAME"), or an
	// array-of marker ("#X", "#@NAME"). Resolution happens at hydration
	// time, so forward references are legal here.
	TypeCode string
	// Validate carries constraint facets (len, reg, min, max, default,
	// required). Descriptive only: hydration never enforces them; the
	// rules package does, invoked separately by the caller.
	Validate map[string]string
	// UI carries presentation facets (label, hint, enum, ...).
	UI map[string]string
}

// Field pairs a field name with its spec. List-shaped schemas leave Name
// empty.
type Field struct {
	Name string
	Spec FieldSpec
}

// StructSchema is a named, reusable shape applied to hydrate or dehydrate
// structured data.
type StructSchema struct {
	Name   string
	Kind   SchemaKind
	Fields []Field
}

// FieldByName returns the spec for a named field of a dict schema.
func (s *StructSchema) FieldByName(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Spec, true
		}
	}
	return FieldSpec{}, false
}

// Constraint facet keys routed into FieldSpec.Validate; everything else in a
// shorthand facet block is UI metadata.
var constraintFacets = map[string]bool{
	"len": true, "reg": true, "min": true, "max": true,
	"default": true, "required": true,
}

// buildSchema classifies a raw struct definition into a StructSchema.
// Accepted forms: a prebuilt *StructSchema, a map (dict schema), a slice
// (positional or homogeneous by length), or a JSON-encoded string of either.
func buildSchema(name string, def any) (*StructSchema, error) {
	switch d := def.(type) {
	case *StructSchema:
		return d, nil
	case StructSchema:
		return &d, nil
	case string:
		return buildSchemaFromJSON(name, d)
	case map[string]any:
		return buildDictSchema(name, orderedFromMap(d))
	case []any:
		return buildListSchema(name, d)
	}
	return nil, malformedStruct(name, "definition is neither object, array nor JSON string", nil)
}

func buildSchemaFromJSON(name, src string) (*StructSchema, error) {
	trimmed := strings.TrimSpace(src)
	if strings.HasPrefix(trimmed, "{") {
		pairs, err := decodeOrderedObject(trimmed)
		if err != nil {
			return nil, malformedStruct(name, "invalid JSON", err)
		}
		return buildDictSchema(name, pairs)
	}
	var arr []any
	if err := json.Unmarshal([]byte(trimmed), &arr); err != nil {
		return nil, malformedStruct(name, "invalid JSON", err)
	}
	return buildListSchema(name, arr)
}

func buildDictSchema(name string, pairs []keyVal) (*StructSchema, error) {
	s := &StructSchema{Name: name, Kind: DictSchema}
	for _, kv := range pairs {
		spec, err := buildFieldSpec(name, kv.v)
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, Field{Name: kv.k, Spec: spec})
	}
	return s, nil
}

func buildListSchema(name string, items []any) (*StructSchema, error) {
	if len(items) == 0 {
		return nil, malformedStruct(name, "empty array definition", nil)
	}
	kind := PositionalSchema
	if len(items) == 1 {
		kind = HomogeneousSchema
	}
	s := &StructSchema{Name: name, Kind: kind}
	for _, it := range items {
		spec, err := buildFieldSpec(name, it)
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, Field{Spec: spec})
	}
	return s, nil
}

// buildFieldSpec accepts the bare-string shorthand (optionally carrying a
// facet block, e.g. `T[len:5, reg:"[A-Z]{2}"]`) or the object form
// {"type": ..., "validate": {...}, "ui": {...}}.
func buildFieldSpec(structName string, def any) (FieldSpec, error) {
	switch d := def.(type) {
	case FieldSpec:
		return d, nil
	case string:
		return fieldSpecFromShorthand(structName, d)
	case map[string]any:
		code, _ := d["type"].(string)
		if code == "" {
			return FieldSpec{}, malformedStruct(structName, "field spec object without 'type'", nil)
		}
		spec, err := fieldSpecFromShorthand(structName, code)
		if err != nil {
			return FieldSpec{}, err
		}
		if raw, ok := d["validate"].(map[string]any); ok {
			for k, v := range raw {
				if spec.Validate == nil {
					spec.Validate = map[string]string{}
				}
				spec.Validate[k] = facetString(v)
			}
		}
		if raw, ok := d["ui"].(map[string]any); ok {
			for k, v := range raw {
				if spec.UI == nil {
					spec.UI = map[string]string{}
				}
				spec.UI[k] = facetString(v)
			}
		}
		return spec, nil
	}
	return FieldSpec{}, malformedStruct(structName, "field definition is neither string nor object", nil)
}

func fieldSpecFromShorthand(structName, code string) (FieldSpec, error) {
	open := strings.IndexByte(code, '[')
	if open < 0 {
		return FieldSpec{TypeCode: strings.TrimSpace(code)}, nil
	}
	if !strings.HasSuffix(code, "]") {
		return FieldSpec{}, malformedStruct(structName, "unclosed facet block in "+code, nil)
	}
	m, err := facet.Parse(code[open+1 : len(code)-1])
	if err != nil {
		return FieldSpec{}, Issues{{
			Code:    CodeFacetSyntax,
			Message: i18n.T(CodeFacetSyntax, nil),
			Cause:   err,
			Params:  map[string]any{"struct": structName, "field": code},
		}}
	}
	spec := FieldSpec{TypeCode: strings.TrimSpace(code[:open])}
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		if constraintFacets[k] {
			if spec.Validate == nil {
				spec.Validate = map[string]string{}
			}
			spec.Validate[k] = v
		} else {
			if spec.UI == nil {
				spec.UI = map[string]string{}
			}
			spec.UI[k] = v
		}
	}
	return spec, nil
}

// ---- helpers ----

type keyVal struct {
	k string
	v any
}

// decodeOrderedObject decodes a top-level JSON object preserving key order,
// which a plain map unmarshal would scramble. Field order matters to
// consumers building UI from dict schemas.
func decodeOrderedObject(src string) ([]keyVal, error) {
	dec := json.NewDecoder(strings.NewReader(src))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, singleIssue(CodeParseError, "expected JSON object")
	}
	var pairs []keyVal
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		pairs = append(pairs, keyVal{k: key, v: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// orderedFromMap sorts keys for a deterministic field order; Go maps carry
// no order of their own.
func orderedFromMap(m map[string]any) []keyVal {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]keyVal, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, keyVal{k: k, v: m[k]})
	}
	return pairs
}

func facetString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case json.Number:
		return x.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func malformedStruct(name, detail string, cause error) error {
	return Issues{{
		Code:    CodeMalformedStruct,
		Message: i18n.T(CodeMalformedStruct, nil) + ": " + detail,
		Cause:   cause,
		Params:  map[string]any{"struct": name},
	}}
}
