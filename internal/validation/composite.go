package validation

import (
	"dqcli/internal/dataset"
)

// CompositeRule applies child rules in insertion order, threading the
// progressively filtered table through each child and concatenating every
// child's defect messages in child order.
//
// The child list is append-only and must be fully configured before the
// first Check call; mutating it concurrently with a running Check is
// undefined behavior.
type CompositeRule struct {
	rules []Rule
}

// NewCompositeRule creates an empty composite.
func NewCompositeRule() *CompositeRule {
	return &CompositeRule{}
}

// Add appends a child rule and returns the composite for chaining.
func (c *CompositeRule) Add(r Rule) *CompositeRule {
	c.rules = append(c.rules, r)
	return c
}

// Len returns the number of child rules.
func (c *CompositeRule) Len() int { return len(c.rules) }

// Check implements Rule. An empty composite returns its input unchanged.
func (c *CompositeRule) Check(tbl *dataset.Table) (*dataset.Table, []string) {
	current := tbl
	var all []string
	for _, r := range c.rules {
		result := Validate(r, current)
		all = append(all, result.Errors...)
		current = result.Table
	}
	return current, all
}
