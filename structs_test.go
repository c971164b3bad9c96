package tytx_test

import (
	"testing"

	tytx "github.com/genropy/tytx"
)

func TestSchemaShapeInference(t *testing.T) {
	r := tytx.NewStructRegistry()
	cases := []struct {
		name string
		def  any
		kind tytx.SchemaKind
	}{
		{"DICT", map[string]any{"a": "L", "b": "T"}, tytx.DictSchema},
		{"POS", []any{"T", "L"}, tytx.PositionalSchema},
		{"HOMO", []any{"L"}, tytx.HomogeneousSchema},
		{"DICT_JSON", `{"a":"L"}`, tytx.DictSchema},
		{"POS_JSON", `["T","L","N"]`, tytx.PositionalSchema},
		{"HOMO_JSON", `["L"]`, tytx.HomogeneousSchema},
	}
	for _, tc := range cases {
		if err := r.Register(tc.name, tc.def); err != nil {
			t.Fatalf("register %s: %v", tc.name, err)
		}
		s, ok := r.Get(tc.name)
		if !ok {
			t.Fatalf("%s missing after register", tc.name)
		}
		if s.Kind != tc.kind {
			t.Fatalf("%s classified as %v, want %v", tc.name, s.Kind, tc.kind)
		}
	}
}

func TestDictSchemaPreservesJSONFieldOrder(t *testing.T) {
	r := tytx.NewStructRegistry()
	if err := r.Register("ORDERED", `{"zeta":"T","alpha":"L","mid":"R"}`); err != nil {
		t.Fatalf("register: %v", err)
	}
	s, _ := r.Get("ORDERED")
	want := []string{"zeta", "alpha", "mid"}
	for i, f := range s.Fields {
		if f.Name != want[i] {
			t.Fatalf("field %d = %s, want %s", i, f.Name, want[i])
		}
	}
}

func TestMalformedDefinitionsFailAtRegister(t *testing.T) {
	r := tytx.NewStructRegistry()
	for name, def := range map[string]any{
		"BAD_JSON":   `{"a": L}`,
		"BAD_SCALAR": 42,
		"BAD_EMPTY":  []any{},
	} {
		err := r.Register(name, def)
		if err == nil {
			t.Fatalf("register %s: expected error", name)
		}
		iss, ok := tytx.AsIssues(err)
		if !ok || iss[0].Code != tytx.CodeMalformedStruct {
			t.Fatalf("register %s: got %v, want malformed_struct", name, err)
		}
		if _, ok := r.Get(name); ok {
			t.Fatalf("%s registered despite error", name)
		}
	}
}

func TestReRegistrationOverwrites(t *testing.T) {
	r := tytx.NewStructRegistry()
	if err := r.Register("S", []any{"T", "T"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register("S", map[string]any{"a": "L"}); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	s, _ := r.Get("S")
	if s.Kind != tytx.DictSchema {
		t.Fatalf("last write did not win: kind %v", s.Kind)
	}
}

func TestShorthandFacetsSplitIntoValidateAndUI(t *testing.T) {
	r := tytx.NewStructRegistry()
	def := `{"code":"T[len:5, reg:\"[A-Z]{2}\", label:Code]"}`
	if err := r.Register("F", def); err != nil {
		t.Fatalf("register: %v", err)
	}
	s, _ := r.Get("F")
	spec, ok := s.FieldByName("code")
	if !ok {
		t.Fatalf("field missing")
	}
	if spec.TypeCode != "T" {
		t.Fatalf("type code = %q", spec.TypeCode)
	}
	if spec.Validate["len"] != "5" || spec.Validate["reg"] != "[A-Z]{2}" {
		t.Fatalf("validate = %v", spec.Validate)
	}
	if spec.UI["label"] != "Code" {
		t.Fatalf("ui = %v", spec.UI)
	}
}

func TestFieldSpecObjectForm(t *testing.T) {
	r := tytx.NewStructRegistry()
	def := map[string]any{
		"amount": map[string]any{
			"type":     "N",
			"validate": map[string]any{"min": 0},
			"ui":       map[string]any{"label": "Amount"},
		},
	}
	if err := r.Register("OBJ", def); err != nil {
		t.Fatalf("register: %v", err)
	}
	s, _ := r.Get("OBJ")
	spec, _ := s.FieldByName("amount")
	if spec.TypeCode != "N" || spec.Validate["min"] != "0" || spec.UI["label"] != "Amount" {
		t.Fatalf("spec = %+v", spec)
	}
}

func TestMalformedFacetBlockFailsAtRegister(t *testing.T) {
	r := tytx.NewStructRegistry()
	err := r.Register("BADFACET", `{"a":"T[len 5]"}`)
	if err == nil {
		t.Fatalf("expected facet syntax error")
	}
	iss, ok := tytx.AsIssues(err)
	if !ok || iss[0].Code != tytx.CodeFacetSyntax {
		t.Fatalf("got %v, want facet_syntax", err)
	}
}

func TestRegisterYAML(t *testing.T) {
	r := tytx.NewStructRegistry()
	src := []byte("x: R\ny: R\n")
	if err := r.RegisterYAML("YPOINT", src); err != nil {
		t.Fatalf("RegisterYAML: %v", err)
	}
	s, ok := r.Get("YPOINT")
	if !ok || s.Kind != tytx.DictSchema || len(s.Fields) != 2 {
		t.Fatalf("schema = %+v", s)
	}
	if err := r.RegisterYAML("BAD", []byte("a: [b\n")); err == nil {
		t.Fatalf("expected YAML error")
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	r := tytx.NewStructRegistry()
	if err := r.Register("S", []any{"L"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	r.Unregister("S")
	r.Unregister("S")
	if _, ok := r.Get("S"); ok {
		t.Fatalf("S survived unregister")
	}
}
