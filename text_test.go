package tytx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"

	tytx "github.com/genropy/tytx"
)

func newEngine(t *testing.T) *tytx.Engine {
	t.Helper()
	return tytx.New(tytx.NewTypeRegistry(), tytx.NewStructRegistry())
}

func TestFromTextScalars(t *testing.T) {
	e := newEngine(t)
	cases := []struct {
		in   string
		want any
	}{
		{"42::L", int64(42)},
		{"42::INT", int64(42)},
		{"3.75::R", 3.75},
		{"true::B", true},
		{"hello::T", "hello"},
		{"plain text", "plain text"},
		{"abc::NOPE", "abc::NOPE"}, // unknown suffix passes through
	}
	for _, tc := range cases {
		got, err := e.FromText(tc.in)
		if err != nil {
			t.Fatalf("FromText(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("FromText(%q) = %v (%T), want %v (%T)", tc.in, got, got, tc.want, tc.want)
		}
	}
}

func TestFromTextSplitsOnLastSeparator(t *testing.T) {
	e := newEngine(t)
	got, err := e.FromText("http://example.com::T")
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if got != "http://example.com" {
		t.Fatalf("got %v, want the URL without suffix", got)
	}
	got, err = e.FromText("http://example.com")
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if got != "http://example.com" {
		t.Fatalf("suffix-less text changed: %v", got)
	}
}

func TestFromTextScalarParseErrorPropagates(t *testing.T) {
	e := newEngine(t)
	if _, err := e.FromText("not-a-number::L"); err == nil {
		t.Fatalf("expected conversion error for bad L payload")
	}
}

func TestFromTextExplicitCode(t *testing.T) {
	e := newEngine(t)
	got, err := e.FromText("42", tytx.DecodeOpt{Code: "L"})
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if got != int64(42) {
		t.Fatalf("got %v, want 42", got)
	}
	// Without the explicit code the same text is just a string.
	got, err = e.FromText("42")
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if got != "42" {
		t.Fatalf("got %v, want \"42\"", got)
	}
}

func TestRoundTripThroughText(t *testing.T) {
	e := newEngine(t)
	values := []any{
		int64(7),
		2.5,
		true,
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1970, 1, 1, 8, 15, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 13, 30, 5, 0, time.UTC),
	}
	for _, v := range values {
		s, err := e.AsTypedText(v)
		if err != nil {
			t.Fatalf("AsTypedText(%v): %v", v, err)
		}
		back, err := e.FromText(s)
		if err != nil {
			t.Fatalf("FromText(%q): %v", s, err)
		}
		if want, ok := v.(time.Time); ok {
			got, _ := back.(time.Time)
			if !got.Equal(want) {
				t.Fatalf("round trip %q: got %v, want %v", s, got, want)
			}
			continue
		}
		if back != v {
			t.Fatalf("round trip %q: got %v, want %v", s, back, v)
		}
	}
}

func TestDateTimeHeuristic(t *testing.T) {
	e := newEngine(t)
	cases := []struct {
		v      time.Time
		suffix string
	}{
		{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "::D"},
		{time.Date(1970, 1, 1, 13, 30, 5, 0, time.UTC), "::H"},
		{time.Date(2024, 5, 1, 13, 30, 5, 0, time.UTC), "::DHZ"},
	}
	for _, tc := range cases {
		s, err := e.AsTypedText(tc.v)
		if err != nil {
			t.Fatalf("AsTypedText(%v): %v", tc.v, err)
		}
		if !strings.HasSuffix(s, tc.suffix) {
			t.Fatalf("AsTypedText(%v) = %q, want suffix %s", tc.v, s, tc.suffix)
		}
	}
}

// A timestamp that happens to land on midnight UTC is indistinguishable from
// a date-only value and is demoted to D on the wire.
func TestMidnightDemotesToDate(t *testing.T) {
	e := newEngine(t)
	s, err := e.AsTypedText(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("AsTypedText: %v", err)
	}
	if s != "2024-05-01::D" {
		t.Fatalf("got %q, want 2024-05-01::D", s)
	}
}

func TestAsTypedTextStringUnchanged(t *testing.T) {
	e := newEngine(t)
	s, err := e.AsTypedText("just text")
	if err != nil {
		t.Fatalf("AsTypedText: %v", err)
	}
	if s != "just text" {
		t.Fatalf("string was tagged: %q", s)
	}
}

func TestCompactArrayEncoding(t *testing.T) {
	e := newEngine(t)
	s, err := e.AsTypedText([]any{1, 2, 3}, tytx.EncodeOpt{Compact: true})
	if err != nil {
		t.Fatalf("AsTypedText: %v", err)
	}
	if s != `["1","2","3"]::L` {
		t.Fatalf("got %q, want [\"1\",\"2\",\"3\"]::L", s)
	}
}

func TestCompactNestedArrays(t *testing.T) {
	e := newEngine(t)
	s, err := e.AsTypedText([]any{[]any{1, 2}, []any{3, 4}}, tytx.EncodeOpt{Compact: true})
	if err != nil {
		t.Fatalf("AsTypedText: %v", err)
	}
	if s != `[["1","2"],["3","4"]]::L` {
		t.Fatalf("got %q", s)
	}
}

func TestCompactFallsBackOnHeterogeneity(t *testing.T) {
	e := newEngine(t)
	s, err := e.AsTypedText([]any{1, "a"}, tytx.EncodeOpt{Compact: true})
	if err != nil {
		t.Fatalf("AsTypedText: %v", err)
	}
	if !strings.Contains(s, "::L") {
		t.Fatalf("per-element fallback lost the L tag: %q", s)
	}
	if s != `["1::L","a"]` {
		t.Fatalf("got %q, want [\"1::L\",\"a\"]", s)
	}
}

func TestCompactDecodesThroughFromText(t *testing.T) {
	e := newEngine(t)
	v, err := e.FromText(`["1","2","3"]::L`)
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	arr, ok := v.([]any)
	if !ok || len(arr) != 3 {
		t.Fatalf("got %v (%T)", v, v)
	}
	for i, want := range []int64{1, 2, 3} {
		if arr[i] != want {
			t.Fatalf("element %d = %v, want %v", i, arr[i], want)
		}
	}
}

func TestStructTaggedPositionalRow(t *testing.T) {
	e := newEngine(t)
	if err := e.Structs.Register("ROW", []any{"T", "L", "N"}); err != nil {
		t.Fatalf("register ROW: %v", err)
	}
	v, err := e.FromText(`["Product", "2", "100.50"]::@ROW`)
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	row, ok := v.([]any)
	if !ok || len(row) != 3 {
		t.Fatalf("got %v (%T)", v, v)
	}
	if row[0] != "Product" || row[1] != int64(2) {
		t.Fatalf("row = %v", row)
	}
	d, ok := row[2].(*apd.Decimal)
	if !ok {
		t.Fatalf("row[2] = %T, want *apd.Decimal", row[2])
	}
	if d.Text('f') != "100.50" {
		t.Fatalf("row[2] = %s, want 100.50", d.Text('f'))
	}
}

func TestStructTaggedDictPoint(t *testing.T) {
	e := newEngine(t)
	if err := e.Structs.Register("POINT", `{"x":"R","y":"R"}`); err != nil {
		t.Fatalf("register POINT: %v", err)
	}
	v, err := e.FromText(`{"x":"3.7","y":"7.3"}::@POINT`)
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("got %T", v)
	}
	if m["x"] != 3.7 || m["y"] != 7.3 {
		t.Fatalf("point = %v", m)
	}
}

func TestUnknownStructReferencePassesThrough(t *testing.T) {
	e := newEngine(t)
	in := `{"x":"1"}::@MISSING`
	v, err := e.FromText(in)
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if v != in {
		t.Fatalf("got %v, want the original text", v)
	}
}

func TestArrayOfStructs(t *testing.T) {
	e := newEngine(t)
	if err := e.Structs.Register("POINT", `{"x":"R","y":"R"}`); err != nil {
		t.Fatalf("register: %v", err)
	}
	v, err := e.FromText(`[{"x":"1.5","y":"2.5"},{"x":"3.5","y":"4.5"}]::#@POINT`)
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	arr, ok := v.([]any)
	if !ok || len(arr) != 2 {
		t.Fatalf("got %v (%T)", v, v)
	}
	p0 := arr[0].(map[string]any)
	if p0["x"] != 1.5 || p0["y"] != 2.5 {
		t.Fatalf("first point = %v", p0)
	}
}

func TestDehydrateStructQualified(t *testing.T) {
	e := newEngine(t)
	if err := e.Structs.Register("ROW", []any{"T", "L", "N"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	d, _, err := apd.NewFromString("100.50")
	if err != nil {
		t.Fatalf("decimal: %v", err)
	}
	s, err := e.AsTypedText([]any{"Product", int64(2), d}, tytx.EncodeOpt{Code: "@ROW"})
	if err != nil {
		t.Fatalf("AsTypedText: %v", err)
	}
	if s != `["Product","2","100.50"]::@ROW` {
		t.Fatalf("got %q", s)
	}
}

func TestLocalOverrideShadowsRegistry(t *testing.T) {
	e := newEngine(t)
	if err := e.Structs.Register("ROW", []any{"T", "T", "T"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	local := map[string]any{"ROW": []any{"T", "L", "T"}}
	v, err := e.FromText(`["a","2","c"]::@ROW`, tytx.DecodeOpt{Structs: local})
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	row := v.([]any)
	if row[1] != int64(2) {
		t.Fatalf("local override ignored: %v", row)
	}
	// The global registration is untouched.
	v, err = e.FromText(`["a","2","c"]::@ROW`)
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	row = v.([]any)
	if row[1] != "2" {
		t.Fatalf("global definition polluted by local override: %v", row)
	}
}

func TestMalformedLocalOverrideFailsFast(t *testing.T) {
	e := newEngine(t)
	_, err := e.FromText("x::T", tytx.DecodeOpt{Structs: map[string]any{"BAD": "{not json"}})
	if err == nil {
		t.Fatalf("expected error for malformed local definition")
	}
	iss, ok := tytx.AsIssues(err)
	if !ok || iss[0].Code != tytx.CodeMalformedStruct {
		t.Fatalf("got %v, want malformed_struct", err)
	}
}

func TestUnregisterAffectsFutureCallsOnly(t *testing.T) {
	e := newEngine(t)
	if err := e.Structs.Register("ROW", []any{"L"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	v, err := e.FromText(`["1","2"]::@ROW`)
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	row := v.([]any)
	e.Structs.Unregister("ROW")
	// Previously hydrated data is untouched.
	if row[0] != int64(1) || row[1] != int64(2) {
		t.Fatalf("hydrated row changed after unregister: %v", row)
	}
	// Future resolutions pass through.
	in := `["1","2"]::@ROW`
	v, err = e.FromText(in)
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if v != in {
		t.Fatalf("got %v, want pass-through after unregister", v)
	}
}

func TestFormatValue(t *testing.T) {
	e := newEngine(t)
	s, err := e.FormatValue(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "02/01/2006", "")
	if err != nil {
		t.Fatalf("FormatValue: %v", err)
	}
	if s != "01/05/2024" {
		t.Fatalf("got %q", s)
	}
	s, err = e.FormatValue(int64(5), "", "")
	if err != nil {
		t.Fatalf("FormatValue: %v", err)
	}
	if s != "5" {
		t.Fatalf("got %q", s)
	}
}

func TestPackageLevelEntryPoints(t *testing.T) {
	if err := tytx.Structs().Register("PKG_POINT", `{"x":"R","y":"R"}`); err != nil {
		t.Fatalf("register: %v", err)
	}
	defer tytx.Structs().Unregister("PKG_POINT")
	v, err := tytx.FromText(`{"x":"1.5","y":"2.5"}::@PKG_POINT`)
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	m := v.(map[string]any)
	if m["x"] != 1.5 {
		t.Fatalf("got %v", m)
	}
	s, err := tytx.AsTypedText(int64(3))
	if err != nil || s != "3::L" {
		t.Fatalf("AsTypedText = %q, %v", s, err)
	}
}
