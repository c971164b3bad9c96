package ext_test

import (
	"testing"

	"github.com/google/uuid"

	tytx "github.com/genropy/tytx"
	"github.com/genropy/tytx/ext"
)

func TestUUIDCustomClass(t *testing.T) {
	types := tytx.NewTypeRegistry()
	if err := ext.RegisterUUID(types); err != nil {
		t.Fatalf("RegisterUUID: %v", err)
	}
	e := tytx.New(types, tytx.NewStructRegistry())

	const raw = "123e4567-e89b-12d3-a456-426614174000"
	v, err := e.FromText(raw + "::~U")
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	u, ok := v.(uuid.UUID)
	if !ok {
		t.Fatalf("got %T, want uuid.UUID", v)
	}
	if u.String() != raw {
		t.Fatalf("got %s", u)
	}

	s, err := e.AsTypedText(u)
	if err != nil {
		t.Fatalf("AsTypedText: %v", err)
	}
	if s != raw+"::~U" {
		t.Fatalf("got %q", s)
	}
}

func TestUUIDAlias(t *testing.T) {
	types := tytx.NewTypeRegistry()
	if err := ext.RegisterUUID(types); err != nil {
		t.Fatalf("RegisterUUID: %v", err)
	}
	def, ok := types.Get("~UUID")
	if !ok || def.Code != "~U" {
		t.Fatalf("alias ~UUID not resolvable to ~U")
	}
}

func TestUUIDParseErrorPropagates(t *testing.T) {
	types := tytx.NewTypeRegistry()
	if err := ext.RegisterUUID(types); err != nil {
		t.Fatalf("RegisterUUID: %v", err)
	}
	e := tytx.New(types, tytx.NewStructRegistry())
	if _, err := e.FromText("not-a-uuid::~U"); err == nil {
		t.Fatalf("expected parse error")
	}
}
