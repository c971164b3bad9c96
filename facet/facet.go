// Package facet parses and formats inline metadata facet strings of the form
//
//	len:5, reg:"[A-Z]{2}", label:Name
//
// as found inside shorthand type codes (for example `T[len:5]`). Parsing
// yields an insertion-ordered string map; Format is the inverse and
// Parse(Format(m)) == m for every valid map.
package facet

import (
	"fmt"
	"strings"
)

// Map is an insertion-ordered key -> value map.
type Map struct {
	keys []string
	vals map[string]string
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{vals: map[string]string{}}
}

// Set stores a value, appending the key on first sight and overwriting on
// repeats without disturbing the original position.
func (m *Map) Set(key, value string) {
	if _, seen := m.vals[key]; !seen {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = value
}

// Get returns the value for key and whether it is present.
func (m *Map) Get(key string) (string, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string { return append([]string(nil), m.keys...) }

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Equal reports whether two maps hold the same entries in the same order.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k || other.vals[k] != m.vals[k] {
			return false
		}
	}
	return true
}

// SyntaxError reports a malformed facet string with the byte offset of the
// offending position.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("facet: %s at offset %d", e.Msg, e.Pos)
}

// Parse reads a facet string into an ordered map.
//
// Grammar, repeated until end of input: skip whitespace; read a bare
// lowercase/underscore key; require ':'; read either a double-quoted value
// (supporting \" and \\ escapes; any other backslash sequence keeps the
// backslash literally) or an unquoted value running to the next ','.
// An unexpected trailing character after a value stops parsing without error.
// An empty key, a key not followed by ':', or an unterminated quote fail with
// a SyntaxError.
func Parse(text string) (*Map, error) {
	m := NewMap()
	i := 0
	n := len(text)
	skipWS := func() {
		for i < n && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
			i++
		}
	}
	for {
		skipWS()
		if i >= n {
			return m, nil
		}
		start := i
		for i < n && isKeyByte(text[i]) {
			i++
		}
		key := text[start:i]
		if key == "" {
			return nil, &SyntaxError{Pos: i, Msg: "empty key"}
		}
		skipWS()
		if i >= n || text[i] != ':' {
			return nil, &SyntaxError{Pos: i, Msg: "expected ':' after key '" + key + "'"}
		}
		i++
		skipWS()
		var val string
		if i < n && text[i] == '"' {
			open := i
			i++
			var b strings.Builder
			closed := false
			for i < n {
				c := text[i]
				if c == '\\' && i+1 < n {
					switch text[i+1] {
					case '"', '\\':
						b.WriteByte(text[i+1])
						i += 2
						continue
					default:
						b.WriteByte('\\')
						i++
						continue
					}
				}
				if c == '"' {
					i++
					closed = true
					break
				}
				b.WriteByte(c)
				i++
			}
			if !closed {
				return nil, &SyntaxError{Pos: open, Msg: "unterminated quoted value"}
			}
			val = b.String()
		} else {
			j := i
			for j < n && text[j] != ',' {
				j++
			}
			val = strings.TrimRight(text[i:j], " \t\n\r")
			i = j
		}
		m.Set(key, val)
		skipWS()
		if i >= n {
			return m, nil
		}
		if text[i] == ',' {
			i++
			continue
		}
		// Trailing garbage after a value: keep what parsed so far.
		return m, nil
	}
}

// Format renders the map back to facet syntax. Values containing any of
// ,[]:"\{}() are double-quoted, except enum values and values containing '|'
// (enum members use '|' as an internal separator and must never be quoted on
// that basis alone).
func Format(m *Map) string {
	var b strings.Builder
	for idx, k := range m.keys {
		if idx > 0 {
			b.WriteString(", ")
		}
		v := m.vals[k]
		b.WriteString(k)
		b.WriteByte(':')
		if needsQuote(k, v) {
			b.WriteByte('"')
			for j := 0; j < len(v); j++ {
				switch v[j] {
				case '"', '\\':
					b.WriteByte('\\')
				}
				b.WriteByte(v[j])
			}
			b.WriteByte('"')
		} else {
			b.WriteString(v)
		}
	}
	return b.String()
}

func needsQuote(key, val string) bool {
	if key == "enum" || strings.Contains(val, "|") {
		return false
	}
	return strings.ContainsAny(val, ",[]:\"\\{}()")
}

func isKeyByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}
