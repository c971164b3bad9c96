package tytx

import (
	"gopkg.in/yaml.v3"
)

// StructRegistry holds named schemas. Like the type registry it follows a
// single-writer-many-reader lifecycle with no internal locking; registration
// belongs to setup/teardown, lookups to the hot path.
type StructRegistry struct {
	schemas map[string]*StructSchema
}

// NewStructRegistry returns an isolated, empty registry.
func NewStructRegistry() *StructRegistry {
	return &StructRegistry{schemas: map[string]*StructSchema{}}
}

var defaultStructs = NewStructRegistry()

// Structs returns the shared default struct registry.
func Structs() *StructRegistry { return defaultStructs }

// Register classifies a raw definition (object, array, or JSON-encoded
// string) and stores it under name. Malformed definitions fail here, never
// at hydration time. Re-registration overwrites: last write wins, no merge.
func (r *StructRegistry) Register(name string, def any) error {
	s, err := buildSchema(name, def)
	if err != nil {
		return err
	}
	r.schemas[name] = s
	return nil
}

// RegisterYAML registers a schema from a YAML document. YAML mappings and
// sequences classify by the same structural rule as their JSON counterparts.
func (r *StructRegistry) RegisterYAML(name string, src []byte) error {
	var raw any
	if err := yaml.Unmarshal(src, &raw); err != nil {
		return malformedStruct(name, "invalid YAML", err)
	}
	return r.Register(name, normalizeYAML(raw))
}

// Get returns the schema registered under name.
func (r *StructRegistry) Get(name string) (*StructSchema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Unregister removes a schema. Idempotent. Removal affects future
// resolutions only; already-hydrated data is untouched.
func (r *StructRegistry) Unregister(name string) {
	delete(r.schemas, name)
}

// Names returns the registered struct names (order unspecified).
func (r *StructRegistry) Names() []string {
	out := make([]string, 0, len(r.schemas))
	for n := range r.schemas {
		out = append(out, n)
	}
	return out
}

// normalizeYAML rewrites yaml.v3 output into the JSON-shaped any tree the
// schema builder understands (map[string]any / []any / scalars).
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if ks, ok := k.(string); ok {
				out[ks] = normalizeYAML(val)
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	}
	return v
}
