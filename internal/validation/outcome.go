package validation

import (
	"fmt"

	"dqcli/internal/dataset"
)

// Outcome is the immutable result of one Validate call: the validity flag,
// the table that survived filtering, and the ordered defect messages. It is
// created once per call and never mutated afterwards.
type Outcome struct {
	IsValid bool
	Table   *dataset.Table
	Errors  []string
}

// String summarises the outcome for logs and console output.
func (o Outcome) String() string {
	if o.IsValid {
		return fmt.Sprintf("validation passed: %d valid rows", o.Table.NumRows())
	}
	return fmt.Sprintf("validation failed with %d errors", len(o.Errors))
}
