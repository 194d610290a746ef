package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"dqcli/internal/dataset"
)

// NumericRule coerces target columns to numbers and checks optional
// inclusive bounds. Cells that fail coercion become null and their rows are
// dropped from the output; bound violations are reported but never dropped.
type NumericRule struct {
	columns []string
	min     *float64
	max     *float64
}

// NewNumericRule creates a numeric rule. A nil columns slice targets every
// column of the validated table. Min and max are optional inclusive bounds;
// configuring min greater than max is a configuration error.
func NewNumericRule(columns []string, min, max *float64) (*NumericRule, error) {
	if min != nil && max != nil && *min > *max {
		return nil, fmt.Errorf("numeric rule: minimum %s is greater than maximum %s",
			formatNumber(*min), formatNumber(*max))
	}
	return &NumericRule{
		columns: append([]string(nil), columns...),
		min:     min,
		max:     max,
	}, nil
}

// Check implements Rule.
func (r *NumericRule) Check(tbl *dataset.Table) (*dataset.Table, []string) {
	var errs []string
	out := tbl
	var present []string

	for _, column := range targetColumns(r.columns, tbl) {
		if !out.HasColumn(column) {
			errs = append(errs, missingColumnError(column))
			continue
		}
		present = append(present, column)

		cells, _ := out.Column(column)
		coerced := make([]dataset.Value, len(cells))

		// Coercion failures first, then min violations, then max
		// violations, keeping the per-column message order stable.
		for i, cell := range cells {
			f, ok := coerceNumber(cell)
			if !ok {
				coerced[i] = dataset.Null()
				errs = append(errs, fmt.Sprintf("Row %d: '%s' is not a valid number in column '%s'",
					out.Row(i).Index, cell.String(), column))
				continue
			}
			coerced[i] = dataset.Number(f)
		}
		if r.min != nil {
			for i, cell := range coerced {
				if f, ok := cell.Float(); ok && f < *r.min {
					errs = append(errs, fmt.Sprintf("Row %d: Value %s is less than minimum %s in column '%s'",
						out.Row(i).Index, formatNumber(f), formatNumber(*r.min), column))
				}
			}
		}
		if r.max != nil {
			for i, cell := range coerced {
				if f, ok := cell.Float(); ok && f > *r.max {
					errs = append(errs, fmt.Sprintf("Row %d: Value %s is greater than maximum %s in column '%s'",
						out.Row(i).Index, formatNumber(f), formatNumber(*r.max), column))
				}
			}
		}

		replaced, err := out.WithColumn(column, coerced)
		if err != nil {
			// Unreachable: column presence and length were checked above.
			errs = append(errs, err.Error())
			continue
		}
		out = replaced
	}

	// Drop rows that failed coercion in any target column.
	out = out.Filter(func(i int) bool {
		for _, column := range present {
			if cell, ok := out.Cell(i, column); ok && cell.IsNull() {
				return false
			}
		}
		return true
	})

	return out, errs
}

// coerceNumber converts a cell to a float64. Integers and decimals parse,
// including exponent notation; anything else, and the null cell, fails.
func coerceNumber(v dataset.Value) (float64, bool) {
	switch v.Kind() {
	case dataset.KindNumber:
		return v.Float()
	case dataset.KindText:
		s := strings.TrimSpace(v.String())
		if s == "" || strings.ContainsAny(s, "xXpP") {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
