package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"dqcli/internal/config"
	"dqcli/internal/dataset"
	"dqcli/internal/exporter"
	"dqcli/internal/infrastructure"
	"dqcli/internal/loader"
	"dqcli/internal/report"
	"dqcli/internal/validation"
)

// ValidationService orchestrates one validation run: load a file, apply the
// configured rules, and write the report artifacts.
type ValidationService struct {
	logger    *slog.Logger
	paths     *config.Paths
	metrics   *infrastructure.RunMetrics
	delimiter rune
}

// NewValidationService creates a validation service. Metrics may be nil when
// telemetry is disabled; a zero delimiter means comma.
func NewValidationService(logger *slog.Logger, paths *config.Paths, metrics *infrastructure.RunMetrics, delimiter rune) *ValidationService {
	if logger == nil {
		logger = slog.Default()
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &ValidationService{
		logger:    logger.With(slog.String("component", "validation_service")),
		paths:     paths,
		metrics:   metrics,
		delimiter: delimiter,
	}
}

// RunResult bundles the outcome of one run with the artifact locations.
type RunResult struct {
	Outcome       validation.Outcome
	InputRows     int
	ValidRows     int
	ReportPath    string
	CleanDataPath string
	WorkbookPath  string
	Duration      time.Duration
}

// Run validates the file at inputPath against the rules file at rulesPath
// and writes the text report, the cleaned CSV, and the chart workbook into
// the reports directory. Bad data never fails the run; only unreadable input
// or malformed rules return an error.
func (s *ValidationService) Run(ctx context.Context, inputPath, rulesPath string) (*RunResult, error) {
	start := time.Now()
	logger := infrastructure.LoggerWithContext(ctx, s.logger)

	ld, err := loader.ForFileDelimiter(inputPath, s.delimiter)
	if err != nil {
		return nil, err
	}
	tbl, err := ld.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", inputPath, err)
	}
	logger.Info("data loaded",
		slog.String("path", inputPath),
		slog.Int("rows", tbl.NumRows()),
		slog.Int("columns", tbl.NumColumns()))

	composite, err := validation.LoadRules(rulesPath)
	if err != nil {
		return nil, err
	}

	result, err := s.finish(ctx, tbl, composite, baseName(inputPath), start)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Validate applies rule specs to an already loaded table without writing any
// artifacts. Used by the HTTP transport.
func (s *ValidationService) Validate(ctx context.Context, tbl *dataset.Table, specs []validation.RuleSpec) (validation.Outcome, error) {
	composite, err := validation.NewComposite(specs)
	if err != nil {
		return validation.Outcome{}, err
	}
	start := time.Now()
	outcome := validation.Validate(composite, tbl)
	s.metrics.RecordRun(ctx, "upload", len(outcome.Errors), time.Since(start), outcome.IsValid)
	return outcome, nil
}

func (s *ValidationService) finish(ctx context.Context, tbl *dataset.Table, rule validation.Rule, name string, start time.Time) (*RunResult, error) {
	logger := infrastructure.LoggerWithContext(ctx, s.logger)

	outcome := validation.Validate(rule, tbl)
	logger.Info("validation finished",
		slog.Bool("valid", outcome.IsValid),
		slog.Int("errors", len(outcome.Errors)),
		slog.Int("input_rows", tbl.NumRows()),
		slog.Int("valid_rows", outcome.Table.NumRows()))

	gen, err := report.NewGenerator(logger, s.paths.ReportsDir)
	if err != nil {
		return nil, err
	}
	summary := gen.Summarize(outcome.Table)
	stats := gen.NumericStats(outcome.Table)

	sections := []report.Section{
		report.SummarySection(summary),
		report.StatsSection(stats),
		report.ErrorsSection(outcome.Errors),
		report.StatusSection(outcome.IsValid),
	}
	reportPath, err := gen.SaveReport(sections, name+"_report.txt")
	if err != nil {
		return nil, err
	}

	cleanPath := s.paths.GetReportPath(name + "_clean.csv")
	if err := exporter.NewCSVWriter(logger).WriteTable(outcome.Table, cleanPath); err != nil {
		return nil, err
	}

	workbookPath := s.paths.GetReportPath(name + "_charts.xlsx")
	charts := summaryCharts(summary)
	if err := exporter.NewExcelWriter(logger).WriteWorkbook(outcome.Table, charts, workbookPath); err != nil {
		return nil, err
	}

	duration := time.Since(start)
	s.metrics.RecordRun(ctx, name, len(outcome.Errors), duration, outcome.IsValid)

	return &RunResult{
		Outcome:       outcome,
		InputRows:     tbl.NumRows(),
		ValidRows:     outcome.Table.NumRows(),
		ReportPath:    reportPath,
		CleanDataPath: cleanPath,
		WorkbookPath:  workbookPath,
		Duration:      duration,
	}, nil
}

// summaryCharts picks default charts for the cleaned data: a line chart per
// numeric column over the first column, capped at three, plus a scatter
// chart of the first two numeric columns against each other when both exist.
func summaryCharts(summary report.Summary) []exporter.ChartSpec {
	if len(summary.Columns) == 0 || len(summary.NumericColumns) == 0 {
		return nil
	}
	x := summary.Columns[0]

	var charts []exporter.ChartSpec
	for i, column := range summary.NumericColumns {
		if i == 3 {
			break
		}
		if column == x {
			continue
		}
		charts = append(charts, exporter.ChartSpec{
			Kind:     exporter.ChartLine,
			Title:    column + " by " + x,
			XColumn:  x,
			YColumns: []string{column},
		})
	}
	if len(summary.NumericColumns) >= 2 {
		charts = append(charts, exporter.ChartSpec{
			Kind:     exporter.ChartScatter,
			Title:    summary.NumericColumns[0] + " vs " + summary.NumericColumns[1],
			XColumn:  summary.NumericColumns[0],
			YColumns: []string{summary.NumericColumns[1]},
		})
	}
	return charts
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
