package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"dqcli/internal/dataset"
)

// Loader reads one tabular source into a Table.
type Loader interface {
	Load() (*dataset.Table, error)
}

// ForFile creates the loader matching a file's extension, reading CSV with
// the default comma delimiter. An unsupported extension is a configuration
// error.
func ForFile(path string) (Loader, error) {
	return ForFileDelimiter(path, ',')
}

// ForFileDelimiter is ForFile with an explicit CSV delimiter, which only
// affects .csv inputs.
func ForFileDelimiter(path string, delimiter rune) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVLoader(path, delimiter), nil
	case ".json":
		return NewJSONLoader(path), nil
	case ".xlsx":
		return NewExcelLoader(path, ""), nil
	case ".xls":
		return nil, fmt.Errorf("legacy .xls format is not supported, convert %s to .xlsx", path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", path)
	}
}

// Preview loads a source and returns at most n leading rows.
func Preview(l Loader, n int) (*dataset.Table, error) {
	tbl, err := l.Load()
	if err != nil {
		return nil, err
	}
	return tbl.Head(n), nil
}

// inferValue converts a raw cell token into a typed cell. Empty tokens are
// the null marker; numeric tokens become numbers; everything else stays
// text. Dates are left as text so the date rule can report the original
// token on parse failures.
func inferValue(raw string) dataset.Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return dataset.Null()
	}
	if f, ok := parseNumber(trimmed); ok {
		return dataset.Number(f)
	}
	return dataset.Text(trimmed)
}
