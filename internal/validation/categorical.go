package validation

import (
	"fmt"
	"strings"

	"dqcli/internal/dataset"
)

// CategoricalRule checks that target column cells belong to an allowed value
// set. Membership failures are advisory: the rule never drops rows, it only
// reports. The null cell is never allowed.
type CategoricalRule struct {
	columns       []string
	allowed       []string
	allowedSet    map[string]struct{}
	caseSensitive bool
	display       string
}

// NewCategoricalRule creates a categorical rule. A nil columns slice targets
// every column of the validated table. The allowed set must not be empty;
// comparison is case-folded on both sides when caseSensitive is false.
func NewCategoricalRule(columns, allowed []string, caseSensitive bool) (*CategoricalRule, error) {
	if len(allowed) == 0 {
		return nil, fmt.Errorf("categorical rule: allowed values must not be empty")
	}
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		if caseSensitive {
			set[v] = struct{}{}
		} else {
			set[strings.ToLower(v)] = struct{}{}
		}
	}
	return &CategoricalRule{
		columns:       append([]string(nil), columns...),
		allowed:       append([]string(nil), allowed...),
		allowedSet:    set,
		caseSensitive: caseSensitive,
		display:       "[" + strings.Join(allowed, ", ") + "]",
	}, nil
}

// Check implements Rule. The output table is the input table unchanged.
func (r *CategoricalRule) Check(tbl *dataset.Table) (*dataset.Table, []string) {
	var errs []string

	for _, column := range targetColumns(r.columns, tbl) {
		if !tbl.HasColumn(column) {
			errs = append(errs, missingColumnError(column))
			continue
		}
		cells, _ := tbl.Column(column)
		for i, cell := range cells {
			if !r.contains(cell) {
				errs = append(errs, fmt.Sprintf("Row %d: Value '%s' in column '%s' is not in allowed values: %s",
					tbl.Row(i).Index, cell.String(), column, r.display))
			}
		}
	}

	return tbl, errs
}

func (r *CategoricalRule) contains(v dataset.Value) bool {
	if v.IsNull() {
		return false
	}
	s := v.String()
	if !r.caseSensitive {
		s = strings.ToLower(s)
	}
	_, ok := r.allowedSet[s]
	return ok
}
