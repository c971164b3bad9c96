package tytx

import (
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	json "github.com/goccy/go-json"

	"github.com/genropy/tytx/i18n"
)

// Serialized layouts of the date/time family. All four codes share time.Time
// as the native representation; AsTypedText tells them apart with the
// midnight-UTC / epoch-day heuristic encoded in the Is predicates below.
const (
	layoutDate          = "2006-01-02"
	layoutTime          = "15:04:05"
	layoutTimeShort     = "15:04"
	layoutDateTime      = "2006-01-02T15:04:05"
	layoutDateTimeSpace = "2006-01-02 15:04:05"
)

func builtinDefinitions() []TypeDefinition {
	return []TypeDefinition{
		{
			Code:    "L",
			Aliases: []string{"I", "INT"},
			Parse: func(text string) (any, error) {
				return strconv.ParseInt(strings.TrimSpace(text), 10, 64)
			},
			Serialize: func(v any) (string, error) {
				n, ok := asInt64(v)
				if !ok {
					return "", typeMismatch("L", v)
				}
				return strconv.FormatInt(n, 10), nil
			},
			Is: func(v any) bool { _, ok := asInt64(v); return ok },
		},
		{
			Code:    "R",
			Aliases: []string{"F", "FLOAT"},
			Parse: func(text string) (any, error) {
				return strconv.ParseFloat(strings.TrimSpace(text), 64)
			},
			Serialize: func(v any) (string, error) {
				switch f := v.(type) {
				case float64:
					return strconv.FormatFloat(f, 'g', -1, 64), nil
				case float32:
					return strconv.FormatFloat(float64(f), 'g', -1, 64), nil
				}
				return "", typeMismatch("R", v)
			},
			Is: func(v any) bool {
				switch v.(type) {
				case float64, float32:
					return true
				}
				return false
			},
		},
		{
			Code:    "N",
			Aliases: []string{"DEC"},
			Parse: func(text string) (any, error) {
				d, _, err := apd.NewFromString(strings.TrimSpace(text))
				if err != nil {
					return nil, err
				}
				return d, nil
			},
			Serialize: func(v any) (string, error) {
				switch d := v.(type) {
				case *apd.Decimal:
					return d.Text('f'), nil
				case apd.Decimal:
					return d.Text('f'), nil
				}
				return "", typeMismatch("N", v)
			},
			Is: func(v any) bool {
				switch v.(type) {
				case *apd.Decimal, apd.Decimal:
					return true
				}
				return false
			},
		},
		{
			Code:    "B",
			Aliases: []string{"BOOL"},
			Parse: func(text string) (any, error) {
				switch strings.ToLower(strings.TrimSpace(text)) {
				case "true", "t", "1", "y":
					return true, nil
				case "false", "f", "0", "n":
					return false, nil
				}
				return nil, singleIssue(CodeParseError, i18n.T(CodeParseError, nil)+": not a boolean: "+text)
			},
			Serialize: func(v any) (string, error) {
				b, ok := v.(bool)
				if !ok {
					return "", typeMismatch("B", v)
				}
				return strconv.FormatBool(b), nil
			},
			Is: func(v any) bool { _, ok := v.(bool); return ok },
		},
		{
			Code:    "T",
			Aliases: []string{"A", "STR"},
			Parse:   func(text string) (any, error) { return text, nil },
			Serialize: func(v any) (string, error) {
				s, ok := v.(string)
				if !ok {
					return "", typeMismatch("T", v)
				}
				return s, nil
			},
			// Strings are the default untyped interpretation; classification
			// handles them before Is predicates run.
			Is: func(v any) bool { _, ok := v.(string); return ok },
		},
		{
			Code:    "D",
			Aliases: []string{"DATE"},
			Parse: func(text string) (any, error) {
				return time.Parse(layoutDate, strings.TrimSpace(text))
			},
			Serialize: serializeTime("D", layoutDate),
			Is: func(v any) bool {
				t, ok := v.(time.Time)
				if !ok {
					return false
				}
				u := t.UTC()
				h, m, s := u.Clock()
				return h == 0 && m == 0 && s == 0 && u.Nanosecond() == 0
			},
			Format: formatTime,
		},
		{
			Code:    "H",
			Aliases: []string{"TIME"},
			Parse: func(text string) (any, error) {
				text = strings.TrimSpace(text)
				t, err := time.Parse(layoutTime, text)
				if err != nil {
					if t2, err2 := time.Parse(layoutTimeShort, text); err2 == nil {
						t = t2
					} else {
						return nil, err
					}
				}
				// Pin the epoch day so time-only values stay distinguishable.
				h, m, s := t.Clock()
				return time.Date(1970, 1, 1, h, m, s, 0, time.UTC), nil
			},
			Serialize: serializeTime("H", layoutTime),
			Is: func(v any) bool {
				t, ok := v.(time.Time)
				if !ok {
					return false
				}
				y, mo, d := t.UTC().Date()
				return y == 1970 && mo == time.January && d == 1
			},
			Format: formatTime,
		},
		{
			Code:    "DHZ",
			Aliases: []string{"DATETIMEZ"},
			Parse: func(text string) (any, error) {
				text = strings.TrimSpace(text)
				t, err := time.Parse(time.RFC3339Nano, text)
				if err != nil {
					if t2, err2 := time.Parse(time.RFC3339, text); err2 == nil {
						return t2, nil
					}
					return nil, err
				}
				return t, nil
			},
			Serialize: serializeTime("DHZ", time.RFC3339Nano),
			Is: func(v any) bool { _, ok := v.(time.Time); return ok },
			Format: formatTime,
		},
		{
			Code:    "DH",
			Aliases: []string{"DATETIME"},
			Parse: func(text string) (any, error) {
				text = strings.TrimSpace(text)
				t, err := time.Parse(layoutDateTime, text)
				if err != nil {
					if t2, err2 := time.Parse(layoutDateTimeSpace, text); err2 == nil {
						return t2, nil
					}
					return nil, err
				}
				return t, nil
			},
			Serialize: serializeTime("DH", layoutDateTime),
			// Naive datetimes are indistinguishable from zoned ones at
			// runtime; DHZ wins inference, DH stays explicit-only.
			Is:     func(v any) bool { return false },
			Format: formatTime,
		},
		{
			Code:    "TYTX",
			Aliases: []string{"JS", "JSON"},
			Parse: func(text string) (any, error) {
				var out any
				if err := json.Unmarshal([]byte(text), &out); err != nil {
					return nil, err
				}
				return out, nil
			},
			Serialize: func(v any) (string, error) {
				b, err := json.Marshal(v)
				if err != nil {
					return "", err
				}
				return string(b), nil
			},
			// Opaque blobs are explicit-only; containers are walked by the
			// engine, not classified wholesale.
			Is: func(v any) bool { return false },
		},
	}
}

func typeMismatch(code string, v any) error {
	return Issues{{
		Code:    CodeInvalidType,
		Message: i18n.T(CodeInvalidType, nil),
		Params:  map[string]any{"code": code, "got": typeName(v)},
	}}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case time.Time:
		return "time.Time"
	case *apd.Decimal, apd.Decimal:
		return "decimal"
	case float32, float64:
		return "float"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "int"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return "unknown"
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > 1<<63-1 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func serializeTime(code, layout string) func(v any) (string, error) {
	return func(v any) (string, error) {
		t, ok := v.(time.Time)
		if !ok {
			return "", typeMismatch(code, v)
		}
		switch code {
		case "D", "H":
			return t.UTC().Format(layout), nil
		default:
			return t.Format(layout), nil
		}
	}
}

// formatTime renders a date/time value for display. The locale argument is
// accepted for interface compatibility; only Go layout strings are honored.
func formatTime(v any, layout, locale string) (string, error) {
	t, ok := v.(time.Time)
	if !ok {
		return "", typeMismatch("D", v)
	}
	if layout == "" {
		layout = layoutDate
	}
	return t.Format(layout), nil
}
