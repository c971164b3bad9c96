package tytx

import "strings"

// CodeKind classifies a TypeCode string by its marker prefix.
type CodeKind int

const (
	KindScalar CodeKind = iota // Built-in scalar code or alias.
	KindCustom                 // Custom-class code, "~" prefix.
	KindStruct                 // Struct reference, "@" prefix.
	KindArray                  // Array-of marker, "#" prefix (wraps any other kind).
)

// KindOf reports the kind of a type code. Array markers are reported before
// the wrapped kind; use Inner to unwrap.
func KindOf(code string) CodeKind {
	switch {
	case strings.HasPrefix(code, "#"):
		return KindArray
	case strings.HasPrefix(code, "@"):
		return KindStruct
	case strings.HasPrefix(code, "~"):
		return KindCustom
	default:
		return KindScalar
	}
}

// Inner strips one array marker, returning the wrapped code.
// Inner("#@ROW") == "@ROW"; Inner("L") == "L".
func Inner(code string) string { return strings.TrimPrefix(code, "#") }

// StructName extracts the referenced struct name from a "@NAME" or "#@NAME"
// code, or "" when the code is not a struct reference.
func StructName(code string) string {
	c := Inner(code)
	if strings.HasPrefix(c, "@") {
		return c[1:]
	}
	return ""
}

// DecodeOpt bundles hydration options.
type DecodeOpt struct {
	// Code forces an explicit type code instead of splitting on "::".
	Code string
	// Structs is the local override map: struct definitions that shadow the
	// registry for the duration of this call only. Values are raw
	// definitions (object, array, or JSON string), classified per call.
	Structs map[string]any
}

// EncodeOpt bundles dehydration options.
type EncodeOpt struct {
	// Compact requests single-suffix encoding for homogeneous arrays.
	Compact bool
	// Code forces an explicit type code for the whole value.
	Code string
	// Structs is the local override map, as in DecodeOpt.
	Structs map[string]any
}

func lastDecodeOpt(opts []DecodeOpt) DecodeOpt {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return DecodeOpt{}
}

func lastEncodeOpt(opts []EncodeOpt) EncodeOpt {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return EncodeOpt{}
}
