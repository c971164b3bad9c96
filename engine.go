package tytx

import "reflect"

// Direction selects hydration (tagged text -> native values) or dehydration
// (native values -> tagged text).
type Direction int

const (
	Hydrate Direction = iota
	Dehydrate
)

// Engine resolves type codes and struct references against a pair of
// registries. Hydration calls are pure reads plus local computation and may
// run concurrently once registration has stabilized.
type Engine struct {
	Types   *TypeRegistry
	Structs *StructRegistry
}

// New returns an engine over the given registries. Nil arguments fall back
// to the shared defaults.
func New(types *TypeRegistry, structs *StructRegistry) *Engine {
	if types == nil {
		types = defaultTypes
	}
	if structs == nil {
		structs = defaultStructs
	}
	return &Engine{Types: types, Structs: structs}
}

var defaultEngine = New(defaultTypes, defaultStructs)

// Default returns the engine bound to the shared default registries.
func Default() *Engine { return defaultEngine }

// overrides is the resolved form of a per-call local override map. It shadows
// the struct registry for one call and never touches global state.
type overrides map[string]*StructSchema

// resolveOverrides classifies the raw local definitions up front so that a
// malformed local definition fails the call immediately instead of being
// silently skipped mid-walk.
func resolveOverrides(raw map[string]any) (overrides, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ov := make(overrides, len(raw))
	for name, def := range raw {
		s, err := buildSchema(name, def)
		if err != nil {
			return nil, err
		}
		ov[name] = s
	}
	return ov, nil
}

func (e *Engine) lookupStruct(name string, ov overrides) (*StructSchema, bool) {
	if s, ok := ov[name]; ok {
		return s, true
	}
	return e.Structs.Get(name)
}

// ApplySchema applies a struct schema to a parsed value tree. Application is
// total: values that do not match the schema shape, unknown codes, and
// unresolvable struct references pass through unchanged, so a malformed
// optional field never aborts an otherwise-valid document. The input tree is
// never mutated; changed containers are rebuilt.
func (e *Engine) ApplySchema(s *StructSchema, data any, dir Direction, opts ...DecodeOpt) any {
	opt := lastDecodeOpt(opts)
	ov, err := resolveOverrides(opt.Structs)
	if err != nil {
		ov = nil
	}
	return e.applySchema(s, data, dir, ov)
}

// HydrateStruct applies the named schema in the hydrate direction. A missing
// struct passes the data through unchanged (definitions may arrive later); a
// malformed local override fails fast.
func (e *Engine) HydrateStruct(name string, data any, opts ...DecodeOpt) (any, error) {
	opt := lastDecodeOpt(opts)
	ov, err := resolveOverrides(opt.Structs)
	if err != nil {
		return data, err
	}
	s, ok := e.lookupStruct(name, ov)
	if !ok {
		return data, nil
	}
	return e.applySchema(s, data, Hydrate, ov), nil
}

// DehydrateStruct is the inverse of HydrateStruct: native leaves inside the
// named shape become bare serialized strings (the struct reference carries
// the typing on the wire).
func (e *Engine) DehydrateStruct(name string, data any, opts ...EncodeOpt) (any, error) {
	opt := lastEncodeOpt(opts)
	ov, err := resolveOverrides(opt.Structs)
	if err != nil {
		return data, err
	}
	s, ok := e.lookupStruct(name, ov)
	if !ok {
		return data, nil
	}
	return e.applySchema(s, data, Dehydrate, ov), nil
}

// Hydrate applies an explicit type code (scalar, @NAME or #X form) to a
// parsed value tree: string leaves become native values per the code's rule.
// Application is total, mirroring ApplySchema; only a malformed local
// override fails the call.
func (e *Engine) Hydrate(v any, code string, opts ...DecodeOpt) (any, error) {
	opt := lastDecodeOpt(opts)
	ov, err := resolveOverrides(opt.Structs)
	if err != nil {
		return v, err
	}
	return e.applyField(FieldSpec{TypeCode: code}, v, Hydrate, ov), nil
}

// Dehydrate is the inverse of Hydrate: native leaves become bare serialized
// strings under the explicit code.
func (e *Engine) Dehydrate(v any, code string, opts ...EncodeOpt) (any, error) {
	opt := lastEncodeOpt(opts)
	ov, err := resolveOverrides(opt.Structs)
	if err != nil {
		return v, err
	}
	return e.applyField(FieldSpec{TypeCode: code}, v, Dehydrate, ov), nil
}

func (e *Engine) applySchema(s *StructSchema, data any, dir Direction, ov overrides) any {
	switch s.Kind {
	case DictSchema:
		m, ok := data.(map[string]any)
		if !ok {
			return data
		}
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		for _, f := range s.Fields {
			if v, present := out[f.Name]; present {
				out[f.Name] = e.applyField(f.Spec, v, dir, ov)
			}
		}
		return out
	case PositionalSchema:
		arr := asAnySlice(data)
		if arr == nil {
			return data
		}
		out := append([]any(nil), arr...)
		n := len(s.Fields)
		if len(out) < n {
			n = len(out)
		}
		for i := 0; i < n; i++ {
			out[i] = e.applyField(s.Fields[i].Spec, out[i], dir, ov)
		}
		return out
	case HomogeneousSchema:
		return e.applyDeep(s.Fields[0].Spec, data, dir, ov)
	}
	return data
}

// applyDeep maps a single FieldSpec over every leaf, descending into nested
// arrays without limit.
func (e *Engine) applyDeep(spec FieldSpec, v any, dir Direction, ov overrides) any {
	if arr := asAnySlice(v); arr != nil {
		out := make([]any, len(arr))
		for i, el := range arr {
			out[i] = e.applyDeep(spec, el, dir, ov)
		}
		return out
	}
	return e.applyField(spec, v, dir, ov)
}

// applyField converts one value according to a field spec. Struct references
// recurse into applySchema, array markers map the inner rule over elements,
// everything else delegates to the type registry. Validate/UI facets are
// descriptive metadata for external consumers; they are not enforced here.
func (e *Engine) applyField(spec FieldSpec, v any, dir Direction, ov overrides) any {
	code := spec.TypeCode
	switch KindOf(code) {
	case KindArray:
		arr := asAnySlice(v)
		if arr == nil {
			return v
		}
		inner := FieldSpec{TypeCode: Inner(code)}
		out := make([]any, len(arr))
		for i, el := range arr {
			out[i] = e.applyField(inner, el, dir, ov)
		}
		return out
	case KindStruct:
		s, ok := e.lookupStruct(code[1:], ov)
		if !ok {
			return v
		}
		return e.applySchema(s, v, dir, ov)
	default:
		def, ok := e.Types.Get(code)
		if !ok {
			return v
		}
		if dir == Hydrate {
			s, isStr := v.(string)
			if !isStr {
				return v
			}
			parsed, err := def.Parse(s)
			if err != nil {
				return v
			}
			return parsed
		}
		if _, isStr := v.(string); isStr {
			return v
		}
		txt, err := def.Serialize(v)
		if err != nil {
			return v
		}
		return txt
	}
}

// asAnySlice normalizes a slice value to []any, or nil when v is not
// slice-shaped. Strings, byte slices and fixed-size arrays (custom value
// types like uuid.UUID) are leaves, not containers.
func asAnySlice(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case nil, string, []byte:
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
