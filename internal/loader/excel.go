package loader

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"dqcli/internal/dataset"
)

// ExcelLoader reads one sheet of an Excel workbook. The first row is the
// header row.
type ExcelLoader struct {
	path  string
	sheet string
}

// NewExcelLoader creates an Excel loader. An empty sheet name selects the
// workbook's first sheet.
func NewExcelLoader(path, sheet string) *ExcelLoader {
	return &ExcelLoader{path: path, sheet: sheet}
}

// Load implements Loader.
func (l *ExcelLoader) Load() (*dataset.Table, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", l.path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return dataset.New(nil), nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	tbl := dataset.New(header)
	for _, row := range rows[1:] {
		cells := make([]dataset.Value, len(header))
		for i := range header {
			if i < len(row) {
				cells[i] = inferValue(row[i])
			} else {
				cells[i] = dataset.Null()
			}
		}
		if err := tbl.AppendRow(cells...); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}
