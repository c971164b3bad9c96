package tytx

import "github.com/genropy/tytx/i18n"

// TypeRegistry is the dispatch table from type codes (and aliases) to
// TypeDefinitions.
//
// The registry has a single-writer-many-reader lifecycle: Register and
// Unregister are setup/teardown operations and carry no internal locking;
// lookups may run concurrently once registration has stabilized.
type TypeRegistry struct {
	defs    map[string]*TypeDefinition
	aliases map[string]string // alias -> canonical code
	order   []string          // canonical codes in registration order
}

// NewTypeRegistry returns an isolated registry seeded with the built-in
// scalar definitions.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{
		defs:    map[string]*TypeDefinition{},
		aliases: map[string]string{},
	}
	for _, def := range builtinDefinitions() {
		_ = r.Register(def)
	}
	return r
}

var defaultTypes = NewTypeRegistry()

// Types returns the shared default type registry.
func Types() *TypeRegistry { return defaultTypes }

// Register inserts or overwrites a definition by its canonical code and
// indexes all aliases. Exactly one canonical code per concept: re-registering
// a code replaces the prior definition wholesale.
func (r *TypeRegistry) Register(def TypeDefinition) error {
	if def.Code == "" {
		return singleIssue(CodeInvalidType, i18n.T(CodeInvalidType, nil)+": empty type code")
	}
	if def.Parse == nil || def.Serialize == nil || def.Is == nil {
		return singleIssue(CodeInvalidType, i18n.T(CodeInvalidType, nil)+": incomplete definition for "+def.Code)
	}
	if _, exists := r.defs[def.Code]; !exists {
		r.order = append(r.order, def.Code)
	}
	stored := def
	stored.Aliases = append([]string(nil), def.Aliases...)
	r.defs[def.Code] = &stored
	for _, a := range stored.Aliases {
		r.aliases[a] = def.Code
	}
	return nil
}

// Get resolves a canonical code or alias. Aliases resolve to the same
// definition but never become the serialization code.
func (r *TypeRegistry) Get(codeOrAlias string) (*TypeDefinition, bool) {
	if def, ok := r.defs[codeOrAlias]; ok {
		return def, true
	}
	if canon, ok := r.aliases[codeOrAlias]; ok {
		return r.defs[canon], true
	}
	return nil, false
}

// Unregister removes a definition and its aliases. Idempotent.
func (r *TypeRegistry) Unregister(code string) {
	def, ok := r.defs[code]
	if !ok {
		return
	}
	for _, a := range def.Aliases {
		if r.aliases[a] == code {
			delete(r.aliases, a)
		}
	}
	delete(r.defs, code)
	for i, c := range r.order {
		if c == code {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Codes returns the canonical codes in registration order.
func (r *TypeRegistry) Codes() []string {
	return append([]string(nil), r.order...)
}

// classify infers the canonical code for a native value by probing Is
// predicates in registration order. Strings are the default untyped
// interpretation and classify to "" like unknown values.
func (r *TypeRegistry) classify(v any) string {
	if _, isStr := v.(string); isStr {
		return ""
	}
	for _, code := range r.order {
		if def := r.defs[code]; def.Is(v) {
			return code
		}
	}
	return ""
}
