package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"dqcli/internal/dataset"
)

// JSONLoader reads a JSON array of flat objects. Column order is the sorted
// union of the object keys, which keeps the schema deterministic across
// loads regardless of per-object key order.
type JSONLoader struct {
	path string
}

// NewJSONLoader creates a JSON loader.
func NewJSONLoader(path string) *JSONLoader {
	return &JSONLoader{path: path}
}

// Load implements Loader.
func (l *JSONLoader) Load() (*dataset.Table, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}

	var objects []map[string]any
	if err := json.Unmarshal(raw, &objects); err != nil {
		return nil, fmt.Errorf("failed to parse JSON file %s: %w", l.path, err)
	}

	seen := make(map[string]struct{})
	var columns []string
	for _, obj := range objects {
		for key := range obj {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				columns = append(columns, key)
			}
		}
	}
	sort.Strings(columns)

	tbl := dataset.New(columns)
	for _, obj := range objects {
		cells := make([]dataset.Value, len(columns))
		for i, col := range columns {
			cells[i] = jsonValue(obj[col])
		}
		if err := tbl.AppendRow(cells...); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func jsonValue(v any) dataset.Value {
	switch x := v.(type) {
	case nil:
		return dataset.Null()
	case float64:
		return dataset.Number(x)
	case string:
		return inferValue(x)
	case bool:
		return dataset.Text(strconv.FormatBool(x))
	default:
		return dataset.Text(fmt.Sprint(x))
	}
}
