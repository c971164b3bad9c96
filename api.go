package tytx

// Package-level entry points delegating to the default engine. Callers that
// need isolation (tests, sandboxed envelopes) construct their own registries
// and use New.

// FromText hydrates a tagged leaf string using the default registries.
func FromText(text string, opts ...DecodeOpt) (any, error) {
	return defaultEngine.FromText(text, opts...)
}

// AsTypedText dehydrates a native value using the default registries.
func AsTypedText(v any, opts ...EncodeOpt) (string, error) {
	return defaultEngine.AsTypedText(v, opts...)
}

// HydrateStruct applies a named schema to a parsed value tree.
func HydrateStruct(name string, data any, opts ...DecodeOpt) (any, error) {
	return defaultEngine.HydrateStruct(name, data, opts...)
}

// DehydrateStruct is the inverse of HydrateStruct.
func DehydrateStruct(name string, data any, opts ...EncodeOpt) (any, error) {
	return defaultEngine.DehydrateStruct(name, data, opts...)
}

// FormatValue renders a value for display via the default registries.
func FormatValue(v any, layout, locale string) (string, error) {
	return defaultEngine.FormatValue(v, layout, locale)
}
