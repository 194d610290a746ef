package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"dqcli/internal/dataset"
)

// Summary describes a table's shape and per-column quality counters.
type Summary struct {
	RowCount       int
	ColumnCount    int
	Columns        []string
	MissingValues  map[string]int
	NumericColumns []string
	TextColumns    []string
	DateColumns    []string
}

// NumericStats are descriptive statistics for one numeric column.
type NumericStats struct {
	Min       float64
	Max       float64
	Mean      float64
	Median    float64
	Std       float64
	Missing   int
	Zeros     int
	Negatives int
}

// Section is one titled block of a text report.
type Section struct {
	Title string
	Lines []string
}

// Generator produces data-quality summaries and the sectioned text report.
type Generator struct {
	logger    *slog.Logger
	outputDir string
}

// NewGenerator creates a report generator writing into outputDir.
func NewGenerator(logger *slog.Logger, outputDir string) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	return &Generator{logger: logger, outputDir: outputDir}, nil
}

// Summarize builds the basic shape summary of a table.
func (g *Generator) Summarize(tbl *dataset.Table) Summary {
	s := Summary{
		RowCount:      tbl.NumRows(),
		ColumnCount:   tbl.NumColumns(),
		Columns:       tbl.Columns(),
		MissingValues: make(map[string]int, tbl.NumColumns()),
	}

	for _, column := range s.Columns {
		cells, _ := tbl.Column(column)
		missing := 0
		numbers, dates, texts := 0, 0, 0
		for _, c := range cells {
			switch c.Kind() {
			case dataset.KindNull:
				missing++
			case dataset.KindNumber:
				numbers++
			case dataset.KindDate:
				dates++
			default:
				texts++
			}
		}
		s.MissingValues[column] = missing

		// Classification follows the dominant non-null kind; a column with
		// any text cell is a text column.
		switch {
		case texts > 0:
			s.TextColumns = append(s.TextColumns, column)
		case dates > 0:
			s.DateColumns = append(s.DateColumns, column)
		case numbers > 0:
			s.NumericColumns = append(s.NumericColumns, column)
		default:
			s.TextColumns = append(s.TextColumns, column)
		}
	}

	g.logger.Info("generated data summary",
		slog.Int("rows", s.RowCount),
		slog.Int("columns", s.ColumnCount))
	return s
}

// NumericStats computes descriptive statistics for the given columns, or for
// every numeric column when none are given. Non-numeric columns are skipped.
func (g *Generator) NumericStats(tbl *dataset.Table, columns ...string) map[string]NumericStats {
	if len(columns) == 0 {
		columns = g.Summarize(tbl).NumericColumns
	}

	out := make(map[string]NumericStats, len(columns))
	for _, column := range columns {
		cells, ok := tbl.Column(column)
		if !ok {
			continue
		}
		xs := numericCells(cells)
		if len(xs) == 0 {
			continue
		}
		lo, hi := minMax(xs)
		stats := NumericStats{
			Min:     lo,
			Max:     hi,
			Mean:    mean(xs),
			Median:  median(xs),
			Std:     stddev(xs),
			Missing: len(cells) - len(xs),
		}
		for _, x := range xs {
			if x == 0 {
				stats.Zeros++
			}
			if x < 0 {
				stats.Negatives++
			}
		}
		out[column] = stats
	}
	return out
}

// SummarySection renders a summary as a report section.
func SummarySection(s Summary) Section {
	lines := []string{
		fmt.Sprintf("row_count: %d", s.RowCount),
		fmt.Sprintf("column_count: %d", s.ColumnCount),
		fmt.Sprintf("columns: %s", strings.Join(s.Columns, ", ")),
		fmt.Sprintf("numeric_columns: %s", strings.Join(s.NumericColumns, ", ")),
		fmt.Sprintf("text_columns: %s", strings.Join(s.TextColumns, ", ")),
		fmt.Sprintf("date_columns: %s", strings.Join(s.DateColumns, ", ")),
	}
	for _, column := range s.Columns {
		lines = append(lines, fmt.Sprintf("missing in %s: %d", column, s.MissingValues[column]))
	}
	return Section{Title: "Data Summary", Lines: lines}
}

// StatsSection renders numeric statistics as a report section, columns in
// alphabetical order for reproducible output.
func StatsSection(stats map[string]NumericStats) Section {
	columns := make([]string, 0, len(stats))
	for column := range stats {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	var lines []string
	for _, column := range columns {
		s := stats[column]
		lines = append(lines,
			fmt.Sprintf("%s: min=%s max=%s mean=%s median=%s std=%s missing=%d zeros=%d negatives=%d",
				column,
				formatStat(s.Min), formatStat(s.Max), formatStat(s.Mean),
				formatStat(s.Median), formatStat(s.Std),
				s.Missing, s.Zeros, s.Negatives))
	}
	return Section{Title: "Numeric Statistics", Lines: lines}
}

// ErrorsSection renders validation defects as a report section.
func ErrorsSection(errors []string) Section {
	lines := make([]string, len(errors))
	for i, e := range errors {
		lines[i] = "- " + e
	}
	if len(lines) == 0 {
		lines = []string{"none"}
	}
	return Section{Title: "Validation Errors", Lines: lines}
}

// StatusSection renders the overall pass/fail line.
func StatusSection(valid bool) Section {
	status := "Failed"
	if valid {
		status = "Passed"
	}
	return Section{Title: "Validation Status", Lines: []string{status}}
}

// SaveReport writes the sectioned text report and returns its path.
func (g *Generator) SaveReport(sections []Section, filename string) (string, error) {
	path := filename
	if g.outputDir != "" {
		path = filepath.Join(g.outputDir, filename)
	}

	var b strings.Builder
	b.WriteString("Data Validation Report\n")
	b.WriteString("=====================\n\n")
	for _, section := range sections {
		title := strings.ToUpper(section.Title)
		b.WriteString(title + "\n")
		b.WriteString(strings.Repeat("-", len(title)) + "\n")
		for _, line := range section.Lines {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	g.logger.Info("report saved", slog.String("path", path))
	return path, nil
}

func formatStat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
