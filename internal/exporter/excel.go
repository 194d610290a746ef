package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"dqcli/internal/dataset"
)

const (
	dataSheet  = "Data"
	chartSheet = "Charts"

	// vertical cells between stacked chart anchors
	chartRowStride = 16
)

// Chart kinds accepted by the workbook writer.
const (
	ChartBar     = "bar"
	ChartLine    = "line"
	ChartScatter = "scatter"
)

// ChartSpec describes one summary chart: the kind, a title, the category
// column, and one or more value columns.
type ChartSpec struct {
	Kind     string
	Title    string
	XColumn  string
	YColumns []string
}

// ExcelWriter writes a table and its summary charts into an xlsx workbook.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new workbook writer.
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// WriteWorkbook writes the table onto a Data sheet and renders each chart
// spec onto a Charts sheet. An unknown chart kind is a configuration error
// reported before the file is written.
func (w *ExcelWriter) WriteWorkbook(tbl *dataset.Table, charts []ChartSpec, path string) error {
	for _, spec := range charts {
		if _, err := chartType(spec.Kind); err != nil {
			return err
		}
		if !tbl.HasColumn(spec.XColumn) {
			return fmt.Errorf("chart %q: column %q not found in data", spec.Title, spec.XColumn)
		}
		for _, y := range spec.YColumns {
			if !tbl.HasColumn(y) {
				return fmt.Errorf("chart %q: column %q not found in data", spec.Title, y)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", dataSheet)
	if err := writeDataSheet(f, tbl); err != nil {
		return err
	}

	if len(charts) > 0 {
		if _, err := f.NewSheet(chartSheet); err != nil {
			return fmt.Errorf("failed to create chart sheet: %w", err)
		}
		for i, spec := range charts {
			if err := addChart(f, tbl, spec, i); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	w.logger.Info("workbook saved",
		slog.String("path", path),
		slog.Int("charts", len(charts)))
	return nil
}

func writeDataSheet(f *excelize.File, tbl *dataset.Table) error {
	columns := tbl.Columns()
	for j, column := range columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(dataSheet, cell, column); err != nil {
			return err
		}
	}
	for i := 0; i < tbl.NumRows(); i++ {
		for j, value := range tbl.Row(i).Cells {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			var content any
			if fv, ok := value.Float(); ok {
				content = fv
			} else {
				content = value.String()
			}
			if err := f.SetCellValue(dataSheet, cell, content); err != nil {
				return err
			}
		}
	}
	return nil
}

func addChart(f *excelize.File, tbl *dataset.Table, spec ChartSpec, position int) error {
	kind, err := chartType(spec.Kind)
	if err != nil {
		return err
	}

	categories, err := columnRange(tbl, spec.XColumn)
	if err != nil {
		return err
	}
	series := make([]excelize.ChartSeries, 0, len(spec.YColumns))
	for _, y := range spec.YColumns {
		values, err := columnRange(tbl, y)
		if err != nil {
			return err
		}
		series = append(series, excelize.ChartSeries{
			Name:       y,
			Categories: categories,
			Values:     values,
		})
	}

	anchor, err := excelize.CoordinatesToCellName(1, 1+position*chartRowStride)
	if err != nil {
		return err
	}
	chart := &excelize.Chart{
		Type:   kind,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: spec.Title}},
	}
	if err := f.AddChart(chartSheet, anchor, chart); err != nil {
		return fmt.Errorf("failed to add chart %q: %w", spec.Title, err)
	}
	return nil
}

// columnRange returns the data range of a column, excluding the header row.
func columnRange(tbl *dataset.Table, column string) (string, error) {
	idx := -1
	for j, name := range tbl.Columns() {
		if name == column {
			idx = j
			break
		}
	}
	if idx < 0 {
		return "", fmt.Errorf("column %q not found in data", column)
	}
	name, err := excelize.ColumnNumberToName(idx + 1)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s!$%s$2:$%s$%d", dataSheet, name, name, tbl.NumRows()+1), nil
}

// chartType maps a chart kind discriminator onto excelize's chart type. An
// unknown kind is a configuration error, not a silent default.
func chartType(kind string) (excelize.ChartType, error) {
	switch kind {
	case ChartBar:
		return excelize.Col, nil
	case ChartLine:
		return excelize.Line, nil
	case ChartScatter:
		return excelize.Scatter, nil
	default:
		return 0, fmt.Errorf("unsupported chart type: %s", kind)
	}
}
