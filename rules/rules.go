// Package rules implements the named validation rules of the TYTX
// convention: pattern/length/bounds rules registered under short names, a
// three-tier lookup (per-call local rules shadow globally-registered rules,
// which shadow the preloaded standard set), and a small boolean expression
// language combining rule names with !, & and |.
//
// Rules validate scalar leaf values only; whole-document validation is out
// of scope and belongs to external schema tooling.
package rules

import (
	"regexp"
	"strconv"

	tytx "github.com/genropy/tytx"
	"github.com/genropy/tytx/i18n"
)

// Rule is one named validation rule. A candidate satisfies the rule iff
// every present facet holds (implicit AND across facets).
type Rule struct {
	// Pattern is a regex source matched partially; anchoring is the rule
	// author's responsibility.
	Pattern string `yaml:"pattern,omitempty"`
	// Len requires an exact candidate length.
	Len *int `yaml:"len,omitempty"`
	// Min/Max bound the candidate length, or its numeric value when
	// Numeric is set.
	Min *int `yaml:"min,omitempty"`
	Max *int `yaml:"max,omitempty"`
	// Numeric switches Min/Max from length bounds to numeric bounds.
	Numeric bool `yaml:"numeric,omitempty"`
	// Message optionally documents the rule for UI consumers.
	Message string `yaml:"message,omitempty"`
}

// Check reports whether candidate satisfies every present facet. A pattern
// that fails to compile is a configuration bug and returns an error rather
// than a silent pass or fail.
func (r Rule) Check(candidate string) (bool, error) {
	if r.Pattern != "" {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return false, tytx.Issues{{
				Code:    tytx.CodeBadPattern,
				Message: i18n.T(tytx.CodeBadPattern, nil) + ": " + r.Pattern,
				Cause:   err,
			}}
		}
		if !re.MatchString(candidate) {
			return false, nil
		}
	}
	if r.Len != nil && len(candidate) != *r.Len {
		return false, nil
	}
	if r.Min != nil || r.Max != nil {
		if r.Numeric {
			n, err := strconv.ParseFloat(candidate, 64)
			if err != nil {
				return false, nil
			}
			if r.Min != nil && n < float64(*r.Min) {
				return false, nil
			}
			if r.Max != nil && n > float64(*r.Max) {
				return false, nil
			}
		} else {
			if r.Min != nil && len(candidate) < *r.Min {
				return false, nil
			}
			if r.Max != nil && len(candidate) > *r.Max {
				return false, nil
			}
		}
	}
	return true, nil
}

// Registry holds named rules. Single-writer-many-reader, no internal
// locking: Register/Unregister belong to setup and teardown.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry returns an isolated, empty registry (no standard rules).
func NewRegistry() *Registry {
	return &Registry{rules: map[string]Rule{}}
}

var defaultRegistry = NewRegistry()

// Default returns the shared registry, preloaded with the standard rule set.
func Default() *Registry { return defaultRegistry }

// Register inserts or overwrites a rule.
func (r *Registry) Register(name string, rule Rule) { r.rules[name] = rule }

// Unregister removes a rule. Idempotent.
func (r *Registry) Unregister(name string) { delete(r.rules, name) }

// Get returns the rule registered under name.
func (r *Registry) Get(name string) (Rule, bool) {
	rule, ok := r.rules[name]
	return rule, ok
}

// resolve walks the three tiers: local shadows global shadows the registry.
func (r *Registry) resolve(name string, local, global map[string]Rule) (Rule, bool) {
	if rule, ok := local[name]; ok {
		return rule, true
	}
	if rule, ok := global[name]; ok {
		return rule, true
	}
	rule, ok := r.rules[name]
	return rule, ok
}

// Validate checks candidate against the named rule. A name absent from all
// three tiers is a configuration mistake and fails fast; treating it as a
// silent pass or fail would hide the bug.
func (r *Registry) Validate(candidate, name string, local, global map[string]Rule) (bool, error) {
	rule, ok := r.resolve(name, local, global)
	if !ok {
		return false, ruleNotFound(name)
	}
	return rule.Check(candidate)
}

// ValidateExpression evaluates a boolean combination of rule names over
// candidate, with precedence NOT > AND > OR, left-associative, short-circuit
// left to right. Unknown rule names fail exactly as in Validate.
func (r *Registry) ValidateExpression(candidate, expr string, local, global map[string]Rule) (bool, error) {
	node, err := parseExpression(expr)
	if err != nil {
		return false, err
	}
	return node.eval(func(name string) (bool, error) {
		return r.Validate(candidate, name, local, global)
	})
}

// Validate checks candidate against a rule name in the default registry.
func Validate(candidate, name string, local, global map[string]Rule) (bool, error) {
	return defaultRegistry.Validate(candidate, name, local, global)
}

// ValidateExpression evaluates an expression against the default registry.
func ValidateExpression(candidate, expr string, local, global map[string]Rule) (bool, error) {
	return defaultRegistry.ValidateExpression(candidate, expr, local, global)
}

func ruleNotFound(name string) error {
	return tytx.Issues{{
		Code:    tytx.CodeRuleNotFound,
		Message: i18n.T(tytx.CodeRuleNotFound, nil) + ": " + name,
		Params:  map[string]any{"rule": name},
	}}
}
