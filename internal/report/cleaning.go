package report

import (
	"fmt"
	"math"
	"sort"

	"dqcli/internal/dataset"
)

// Outlier detection and imputation methods. Unknown methods are
// configuration errors.
const (
	MethodZScore = "zscore"
	MethodIQR    = "iqr"
	MethodMinMax = "minmax"
	MethodMean   = "mean"
	MethodMedian = "median"
	MethodMode   = "mode"
)

// RemoveOutliers drops rows whose value in the column is an outlier by the
// chosen method (zscore or iqr). Rows with a missing value in the column are
// dropped as well.
func RemoveOutliers(tbl *dataset.Table, column, method string, threshold float64) (*dataset.Table, error) {
	cells, ok := tbl.Column(column)
	if !ok {
		return nil, fmt.Errorf("column %q not found in data", column)
	}
	xs := numericCells(cells)

	var lo, hi float64
	switch method {
	case MethodZScore:
		m, sd := mean(xs), stddev(xs)
		if math.IsNaN(sd) || sd == 0 {
			lo, hi = math.Inf(-1), math.Inf(1)
		} else {
			lo, hi = m-threshold*sd, m+threshold*sd
		}
	case MethodIQR:
		q1 := quantile(xs, 0.25)
		q3 := quantile(xs, 0.75)
		iqr := q3 - q1
		lo, hi = q1-threshold*iqr, q3+threshold*iqr
	default:
		return nil, fmt.Errorf("unsupported outlier removal method: %s", method)
	}

	return tbl.Filter(func(i int) bool {
		f, ok := cells[i].Float()
		return ok && f >= lo && f <= hi
	}), nil
}

// ImputeMissing replaces missing values in a numeric column using the mean,
// median, or mode of the present values.
func ImputeMissing(tbl *dataset.Table, column, method string) (*dataset.Table, error) {
	cells, ok := tbl.Column(column)
	if !ok {
		return nil, fmt.Errorf("column %q not found in data", column)
	}
	xs := numericCells(cells)
	if len(xs) == 0 {
		return tbl, nil
	}

	var fill float64
	switch method {
	case MethodMean:
		fill = mean(xs)
	case MethodMedian:
		fill = median(xs)
	case MethodMode:
		fill = mode(xs)
	default:
		return nil, fmt.Errorf("unsupported imputation method: %s", method)
	}
	return ImputeConstant(tbl, column, dataset.Number(fill))
}

// ImputeConstant replaces missing values in a column with a constant cell.
func ImputeConstant(tbl *dataset.Table, column string, value dataset.Value) (*dataset.Table, error) {
	cells, ok := tbl.Column(column)
	if !ok {
		return nil, fmt.Errorf("column %q not found in data", column)
	}
	replaced := make([]dataset.Value, len(cells))
	for i, c := range cells {
		if c.IsNull() {
			replaced[i] = value
		} else {
			replaced[i] = c
		}
	}
	return tbl.WithColumn(column, replaced)
}

// NormalizeColumn rescales a numeric column with min-max or z-score
// normalization. Missing and non-numeric cells pass through unchanged.
func NormalizeColumn(tbl *dataset.Table, column, method string) (*dataset.Table, error) {
	cells, ok := tbl.Column(column)
	if !ok {
		return nil, fmt.Errorf("column %q not found in data", column)
	}
	xs := numericCells(cells)

	var transform func(float64) float64
	switch method {
	case MethodMinMax:
		lo, hi := minMax(xs)
		if hi > lo {
			transform = func(f float64) float64 { return (f - lo) / (hi - lo) }
		}
	case MethodZScore:
		m, sd := mean(xs), stddev(xs)
		if !math.IsNaN(sd) && sd > 0 {
			transform = func(f float64) float64 { return (f - m) / sd }
		}
	default:
		return nil, fmt.Errorf("unsupported normalization method: %s", method)
	}
	if transform == nil {
		return tbl, nil
	}

	replaced := make([]dataset.Value, len(cells))
	for i, c := range cells {
		if f, ok := c.Float(); ok {
			replaced[i] = dataset.Number(transform(f))
		} else {
			replaced[i] = c
		}
	}
	return tbl.WithColumn(column, replaced)
}

// mode returns the most frequent value, breaking ties toward the smallest.
func mode(xs []float64) float64 {
	counts := make(map[float64]int, len(xs))
	for _, x := range xs {
		counts[x]++
	}
	keys := make([]float64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	best, bestCount := keys[0], 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}
