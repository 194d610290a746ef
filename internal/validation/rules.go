package validation

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// Rule type discriminators accepted by the factory.
const (
	RuleTypeNumeric     = "numeric"
	RuleTypeDate        = "date"
	RuleTypeCategorical = "categorical"
)

// RuleSpec is the declarative form of a single rule as it appears in a rules
// file. Type selects the constructor; the remaining fields are rule-specific
// parameters. Unknown types and malformed parameters are configuration
// errors, surfaced eagerly before any data is touched.
type RuleSpec struct {
	Type          string    `yaml:"type" validate:"required,oneof=numeric date categorical"`
	Columns       []string  `yaml:"columns,omitempty"`
	Column        string    `yaml:"column,omitempty"`
	Min           *float64  `yaml:"min,omitempty"`
	Max           *float64  `yaml:"max,omitempty"`
	Format        string    `yaml:"format,omitempty"`
	StartDate     string    `yaml:"start_date,omitempty"`
	EndDate       string    `yaml:"end_date,omitempty"`
	Allowed       []string  `yaml:"allowed,omitempty"`
	CaseSensitive *bool     `yaml:"case_sensitive,omitempty"`
}

// RulesFile is the on-disk rules document.
type RulesFile struct {
	Version string     `yaml:"version,omitempty"`
	Rules   []RuleSpec `yaml:"rules" validate:"min=1,dive"`
}

var specValidator = validator.New()

// NewRule builds a rule from its declarative spec. The spec is validated
// eagerly; any violation is a configuration error, not a data error.
func NewRule(spec RuleSpec) (Rule, error) {
	if err := specValidator.Struct(spec); err != nil {
		return nil, fmt.Errorf("invalid rule spec: %w", err)
	}

	switch spec.Type {
	case RuleTypeNumeric:
		return NewNumericRule(spec.targets(), spec.Min, spec.Max)
	case RuleTypeDate:
		column := spec.Column
		if column == "" && len(spec.Columns) == 1 {
			column = spec.Columns[0]
		}
		return NewDateRule(column, spec.Format, spec.StartDate, spec.EndDate)
	case RuleTypeCategorical:
		caseSensitive := true
		if spec.CaseSensitive != nil {
			caseSensitive = *spec.CaseSensitive
		}
		return NewCategoricalRule(spec.targets(), spec.Allowed, caseSensitive)
	default:
		// Unreachable given the oneof tag, kept so a new discriminator
		// cannot fall through silently.
		return nil, fmt.Errorf("unsupported rule type: %s", spec.Type)
	}
}

// targets merges the single-column and multi-column configuration forms.
func (s RuleSpec) targets() []string {
	if len(s.Columns) > 0 {
		return s.Columns
	}
	if s.Column != "" {
		return []string{s.Column}
	}
	return nil
}

// NewComposite builds a composite from specs, preserving their order.
func NewComposite(specs []RuleSpec) (*CompositeRule, error) {
	composite := NewCompositeRule()
	for i, spec := range specs {
		rule, err := NewRule(spec)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		composite.Add(rule)
	}
	return composite, nil
}

// LoadRules reads a YAML rules file and builds the composite it describes.
func LoadRules(path string) (*CompositeRule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	var file RulesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no rules", path)
	}
	return NewComposite(file.Rules)
}
