package tytx

import (
	"strings"

	json "github.com/goccy/go-json"

	"github.com/genropy/tytx/i18n"
)

// FromText hydrates one tagged leaf string. The text is split on the last
// occurrence of "::" (values legitimately containing "::", such as URLs,
// only have their final segment tested as a code); a recognized suffix
// selects the conversion, an unknown suffix or the absence of "::" returns
// the text unchanged. Recognized forms:
//
//	value::CODE            scalar (or custom-class) parse
//	json::@NAME            struct-qualified subtree
//	json-array::#X         array-of, per element
//	json-array::#@NAME     array-of-structs
//	json-array::CODE       compact homogeneous array, one shared suffix
//
// Scalar parse failures propagate the underlying conversion error; unknown
// codes and unresolved struct references pass through by design.
func (e *Engine) FromText(text string, opts ...DecodeOpt) (any, error) {
	opt := lastDecodeOpt(opts)
	ov, err := resolveOverrides(opt.Structs)
	if err != nil {
		return nil, err
	}
	if opt.Code != "" {
		v, handled, err := e.decodeTagged(text, opt.Code, ov)
		if err != nil {
			return nil, err
		}
		if !handled {
			return text, nil
		}
		return v, nil
	}
	idx := strings.LastIndex(text, "::")
	if idx < 0 {
		return text, nil
	}
	v, handled, err := e.decodeTagged(text[:idx], text[idx+2:], ov)
	if err != nil {
		return nil, err
	}
	if !handled {
		return text, nil
	}
	return v, nil
}

func (e *Engine) decodeTagged(prefix, code string, ov overrides) (any, bool, error) {
	switch KindOf(code) {
	case KindStruct:
		s, ok := e.lookupStruct(code[1:], ov)
		if !ok {
			return nil, false, nil
		}
		var data any
		if err := json.Unmarshal([]byte(prefix), &data); err != nil {
			return nil, true, Issues{{
				Code:    CodeParseError,
				Message: i18n.T(CodeParseError, nil) + ": invalid JSON payload for @" + s.Name,
				Cause:   err,
			}}
		}
		return e.applySchema(s, data, Hydrate, ov), true, nil
	case KindArray:
		inner := Inner(code)
		if !e.resolvable(inner, ov) {
			return nil, false, nil
		}
		var arr []any
		if err := json.Unmarshal([]byte(prefix), &arr); err != nil {
			return nil, true, Issues{{
				Code:    CodeParseError,
				Message: i18n.T(CodeParseError, nil) + ": invalid JSON payload for " + code,
				Cause:   err,
			}}
		}
		return e.applyField(FieldSpec{TypeCode: code}, arr, Hydrate, ov), true, nil
	default:
		def, ok := e.Types.Get(code)
		if !ok {
			return nil, false, nil
		}
		if trimmed := strings.TrimSpace(prefix); strings.HasPrefix(trimmed, "[") {
			var arr []any
			if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
				// Compact homogeneous array: bare string elements, one suffix.
				return e.applyDeep(FieldSpec{TypeCode: code}, arr, Hydrate, ov), true, nil
			}
		}
		v, err := def.Parse(prefix)
		if err != nil {
			return nil, true, err
		}
		return v, true, nil
	}
}

// resolvable reports whether an inner code of an array marker can currently
// be resolved; unresolved markers leave the whole text untouched.
func (e *Engine) resolvable(code string, ov overrides) bool {
	switch KindOf(code) {
	case KindArray:
		return e.resolvable(Inner(code), ov)
	case KindStruct:
		_, ok := e.lookupStruct(code[1:], ov)
		return ok
	default:
		_, ok := e.Types.Get(code)
		return ok
	}
}

// AsTypedText dehydrates a native value to its tagged text form. Bare strings
// are returned unchanged (strings are the default, untyped interpretation).
// For other scalars the code is inferred from runtime shape; the date/time
// family is told apart by the midnight-UTC / epoch-day heuristic baked into
// the built-in Is predicates. Note that a genuine midnight timestamp is
// indistinguishable from a date-only value and round-trips as "D".
//
// Arrays serialize element-wise; with EncodeOpt.Compact and a homogeneous
// leaf type the whole array gets one trailing suffix and bare string
// elements, falling back to per-element tagging on any heterogeneity.
func (e *Engine) AsTypedText(v any, opts ...EncodeOpt) (string, error) {
	opt := lastEncodeOpt(opts)
	ov, err := resolveOverrides(opt.Structs)
	if err != nil {
		return "", err
	}
	if opt.Code != "" {
		return e.encodeTagged(v, opt.Code, ov)
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	// Classify leaves before probing for containers so custom classes backed
	// by slice-shaped value types stay scalars.
	if code := e.Types.classify(v); code != "" {
		def, _ := e.Types.Get(code)
		s, err := def.Serialize(v)
		if err != nil {
			return "", err
		}
		return s + "::" + code, nil
	}
	if arr := asAnySlice(v); arr != nil {
		if opt.Compact {
			if code := e.homogeneousCode(arr); code != "" {
				return e.encodeCompact(arr, code)
			}
		}
		return e.marshalTree(arr)
	}
	if m, ok := v.(map[string]any); ok {
		return e.marshalTree(m)
	}
	return "", typeMismatch("", v)
}

func (e *Engine) encodeTagged(v any, code string, ov overrides) (string, error) {
	switch KindOf(code) {
	case KindStruct:
		s, ok := e.lookupStruct(code[1:], ov)
		if !ok {
			return "", unknownCode(code)
		}
		out := e.applySchema(s, v, Dehydrate, ov)
		b, err := json.Marshal(out)
		if err != nil {
			return "", err
		}
		return string(b) + "::" + code, nil
	case KindArray:
		arr := asAnySlice(v)
		if arr == nil {
			return "", typeMismatch(code, v)
		}
		out := e.applyField(FieldSpec{TypeCode: code}, arr, Dehydrate, ov)
		b, err := json.Marshal(out)
		if err != nil {
			return "", err
		}
		return string(b) + "::" + code, nil
	default:
		def, ok := e.Types.Get(code)
		if !ok {
			return "", unknownCode(code)
		}
		if arr := asAnySlice(v); arr != nil {
			return e.encodeCompact(arr, def.Code)
		}
		s, err := def.Serialize(v)
		if err != nil {
			return "", err
		}
		if def.Code == "T" {
			return s, nil
		}
		return s + "::" + def.Code, nil
	}
}

// homogeneousCode classifies every leaf of a (possibly nested) array and
// returns the single shared canonical code, or "" on any heterogeneity.
func (e *Engine) homogeneousCode(arr []any) string {
	code := ""
	for _, el := range arr {
		var c string
		if nested := asAnySlice(el); nested != nil {
			c = e.homogeneousCode(nested)
		} else if _, isStr := el.(string); isStr {
			c = "T"
		} else {
			c = e.Types.classify(el)
		}
		if c == "" {
			return ""
		}
		if code == "" {
			code = c
		} else if code != c {
			return ""
		}
	}
	return code
}

// encodeCompact serializes every leaf as a bare string and appends one shared
// suffix. All-string arrays need no suffix at all: strings are the default
// interpretation on both ends.
func (e *Engine) encodeCompact(arr []any, code string) (string, error) {
	def, ok := e.Types.Get(code)
	if !ok {
		return "", unknownCode(code)
	}
	tree, err := e.compactTree(arr, def)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(tree)
	if err != nil {
		return "", err
	}
	if def.Code == "T" {
		return string(b), nil
	}
	return string(b) + "::" + def.Code, nil
}

func (e *Engine) compactTree(arr []any, def *TypeDefinition) ([]any, error) {
	out := make([]any, len(arr))
	for i, el := range arr {
		if nested := asAnySlice(el); nested != nil {
			sub, err := e.compactTree(nested, def)
			if err != nil {
				return nil, err
			}
			out[i] = sub
			continue
		}
		if s, isStr := el.(string); isStr {
			out[i] = s
			continue
		}
		s, err := def.Serialize(el)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// marshalTree tags each leaf individually and emits the container as JSON
// text with no trailing suffix.
func (e *Engine) marshalTree(v any) (string, error) {
	tree, err := e.dehydrateTree(v)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(tree)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (e *Engine) dehydrateTree(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return t, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, el := range t {
			dv, err := e.dehydrateTree(el)
			if err != nil {
				return nil, err
			}
			out[k] = dv
		}
		return out, nil
	}
	if arr := asAnySlice(v); arr != nil {
		out := make([]any, len(arr))
		for i, el := range arr {
			dv, err := e.dehydrateTree(el)
			if err != nil {
				return nil, err
			}
			out[i] = dv
		}
		return out, nil
	}
	code := e.Types.classify(v)
	if code == "" {
		return nil, typeMismatch("", v)
	}
	def, _ := e.Types.Get(code)
	s, err := def.Serialize(v)
	if err != nil {
		return nil, err
	}
	return s + "::" + code, nil
}

// FormatValue renders a value for display using the matching definition's
// Format hook, falling back to Serialize for types without one.
func (e *Engine) FormatValue(v any, layout, locale string) (string, error) {
	code := e.Types.classify(v)
	if code == "" {
		if s, ok := v.(string); ok {
			return s, nil
		}
		return "", typeMismatch("", v)
	}
	def, _ := e.Types.Get(code)
	if def.Format != nil {
		return def.Format(v, layout, locale)
	}
	return def.Serialize(v)
}

func unknownCode(code string) error {
	return Issues{{
		Code:    CodeUnknownCode,
		Message: i18n.T(CodeUnknownCode, nil) + ": " + code,
	}}
}
