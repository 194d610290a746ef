package validation

import (
	"fmt"
	"strconv"

	"dqcli/internal/dataset"
)

// Rule is a single validation check over a table. Check returns the table
// that survives the rule together with one message per detected defect. It
// must not mutate its input; filtered output preserves original row indices.
//
// Rules are immutable after construction and hold no per-call state, so a
// single Rule may be applied to independent tables concurrently.
type Rule interface {
	Check(tbl *dataset.Table) (*dataset.Table, []string)
}

// Validate runs a rule and wraps the result. The outcome is valid iff the
// rule reported no defects.
func Validate(r Rule, tbl *dataset.Table) Outcome {
	out, errs := r.Check(tbl)
	return Outcome{
		IsValid: len(errs) == 0,
		Table:   out,
		Errors:  errs,
	}
}

// targetColumns resolves the columns a rule applies to. An empty
// configuration means every column of the input table, recomputed per call
// since table schemas may differ between calls.
func targetColumns(configured []string, tbl *dataset.Table) []string {
	if len(configured) == 0 {
		return tbl.Columns()
	}
	return configured
}

// missingColumnError is the schema-error message shared by all rules.
func missingColumnError(column string) string {
	return fmt.Sprintf("Column '%s' not found in data", column)
}

// formatNumber renders numbers in defect messages without trailing zeros,
// matching how cells render (25.5 stays "25.5", 50 stays "50").
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
