package tytx

// Package tytx implements the TYTX typed-text convention: scalar and
// structured values travel as `value::TYPECODE` strings (or JSON carrying the
// same suffix) and are restored to native Go values on read.
//
// The package provides:
//
// - A Type Registry dispatching short codes (L, R, N, B, T, D, DH, DHZ, H,
//   TYTX) and their aliases to TypeDefinition parse/serialize pairs
// - A Struct Registry of named schemas (field-map, positional, homogeneous)
//   built from objects, arrays, or JSON/YAML-encoded strings
// - A hydration/dehydration engine resolving struct references (@NAME),
//   array markers (#X, #@NAME) and compact homogeneous-array encoding
// - A stable error model via Issues (code, message, cause)
//
// Design policy:
// - Keep the public API in the root package; facet parsing lives under
//   facet/, named validation rules and the rule expression language under
//   rules/, message translation under i18n/, optional custom-class types
//   under ext/.
// - Registries ship as a shared default instance plus constructible isolated
//   instances; mutation is a setup/teardown concern, hydration is read-only.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	v, err := tytx.FromText("2024-05-01::D")
//	s, err := tytx.AsTypedText([]any{1, 2, 3}, tytx.EncodeOpt{Compact: true})
//
//	tytx.Structs().Register("POINT", `{"x":"R","y":"R"}`)
//	p, err := tytx.FromText(`{"x":"3.7","y":"7.3"}::@POINT`)
