package tytx

// TypeDefinition describes one scalar type: how to parse its text form, how
// to serialize a native value back to text, and how to recognize a native
// value as belonging to the type. Custom classes plug in by supplying the
// same shape under a "~"-prefixed code; there is no base type to subclass.
//
// Definitions are immutable once registered: the registry stores a copy and
// hands out pointers that must not be mutated.
type TypeDefinition struct {
	// Code is the canonical serialization code (for example "L").
	Code string
	// Aliases resolve to this definition on lookup but are never emitted.
	Aliases []string
	// Parse converts the text form into the native value. Conversion
	// failures propagate the underlying error unchanged.
	Parse func(text string) (any, error)
	// Serialize converts a native value into its text form.
	Serialize func(v any) (string, error)
	// Is reports whether a native value naturally belongs to this type.
	// Used by AsTypedText to infer a code from runtime shape; definitions
	// that cannot be inferred (naive datetimes, opaque blobs) return false
	// and are only reachable through an explicit code.
	Is func(v any) bool
	// Format optionally renders the value for display using a layout and
	// locale. Nil when the type has no display form beyond Serialize.
	Format func(v any, layout, locale string) (string, error)
}
