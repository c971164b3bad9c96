// Package ext provides optional custom-class TypeDefinitions ("~" codes)
// that plug third-party value types into a type registry. Custom classes
// supply the same parse/serialize/is shape as the built-ins; there is no
// base type to subclass.
package ext

import (
	"github.com/google/uuid"

	tytx "github.com/genropy/tytx"
)

// UUID returns the TypeDefinition for the "~U" custom class backed by
// github.com/google/uuid.
func UUID() tytx.TypeDefinition {
	return tytx.TypeDefinition{
		Code:    "~U",
		Aliases: []string{"~UUID"},
		Parse: func(text string) (any, error) {
			u, err := uuid.Parse(text)
			if err != nil {
				return nil, err
			}
			return u, nil
		},
		Serialize: func(v any) (string, error) {
			u, ok := v.(uuid.UUID)
			if !ok {
				return "", tytx.Issues{{Code: tytx.CodeInvalidType, Message: "expected uuid.UUID"}}
			}
			return u.String(), nil
		},
		Is: func(v any) bool { _, ok := v.(uuid.UUID); return ok },
	}
}

// RegisterUUID registers the "~U" class with r, or with the shared default
// type registry when r is nil.
func RegisterUUID(r *tytx.TypeRegistry) error {
	if r == nil {
		r = tytx.Types()
	}
	return r.Register(UUID())
}
