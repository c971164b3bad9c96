package tytx

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType     = "invalid_type"
	CodeParseError      = "parse_error"
	CodeUnknownCode     = "unknown_code"
	CodeMalformedStruct = "malformed_struct"
	CodeFacetSyntax     = "facet_syntax"
	CodeRuleNotFound    = "rule_not_found"
	CodeBadExpression   = "bad_expression"
	CodeBadPattern      = "bad_pattern"
	CodeDuplicateCode   = "duplicate_code"
)

// Issue represents a single error entry.
type Issue struct {
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, offending names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"struct":"POINT", "pos":12})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		b.WriteString(it.Code)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the first underlying cause for errors.Is/As chains.
func (iss Issues) Unwrap() error {
	for _, it := range iss {
		if it.Cause != nil {
			return it.Cause
		}
	}
	return nil
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func singleIssue(code, msg string) Issues { return AppendIssues(nil, Issue{Code: code, Message: msg}) }
