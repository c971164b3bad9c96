package rules

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

// The standard rule set ships as an embedded YAML document and is loaded
// into the default registry at package init.
//
//go:embed standard.yaml
var standardYAML []byte

func init() {
	if err := defaultRegistry.RegisterYAML(standardYAML); err != nil {
		panic(err)
	}
}

// RegisterYAML loads a YAML bundle of name -> rule definitions into the
// registry, overwriting existing names.
func (r *Registry) RegisterYAML(src []byte) error {
	var bundle map[string]Rule
	if err := yaml.Unmarshal(src, &bundle); err != nil {
		return err
	}
	for name, rule := range bundle {
		r.rules[name] = rule
	}
	return nil
}

// RegisterYAML loads a YAML rule bundle into the default registry.
func RegisterYAML(src []byte) error { return defaultRegistry.RegisterYAML(src) }
