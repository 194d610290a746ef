package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dqcli/internal/config"
	"dqcli/internal/dataset"
	"dqcli/internal/report"
	"dqcli/internal/validation"
)

func summaryFixture(columns, numeric []string) report.Summary {
	return report.Summary{Columns: columns, NumericColumns: numeric}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testService(t *testing.T) (*ValidationService, *config.Paths) {
	t.Helper()
	root := t.TempDir()
	paths := config.NewPaths(config.PathsConfig{
		DataDir:    filepath.Join(root, "data"),
		ReportsDir: filepath.Join(root, "reports"),
		LogsDir:    filepath.Join(root, "logs"),
	})
	require.NoError(t, paths.EnsureDirs())
	return NewValidationService(testLogger(), paths, nil, ','), paths
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sensorCSV = `date,temperature,humidity,location
2023-01-01,25.5,60,New York
2023-01-02,26.8,65,Chicago
not-a-date,invalid,70,Boston
2023-01-04,24.3,58,Miami
`

const sensorRules = `
rules:
  - type: numeric
    columns: [temperature, humidity]
    min: 0
    max: 100
  - type: date
    column: date
    format: "%Y-%m-%d"
    start_date: "2023-01-01"
    end_date: "2023-12-31"
  - type: categorical
    columns: [location]
    allowed: [New York, Chicago, Miami, Los Angeles, Houston]
`

func TestRun(t *testing.T) {
	svc, paths := testService(t)
	dir := t.TempDir()
	input := writeFixture(t, dir, "sensors.csv", sensorCSV)
	rules := writeFixture(t, dir, "rules.yml", sensorRules)

	result, err := svc.Run(context.Background(), input, rules)
	require.NoError(t, err)

	assert.False(t, result.Outcome.IsValid)
	assert.Equal(t, 4, result.InputRows)
	assert.Equal(t, 3, result.ValidRows)

	// Defects on row 2: bad temperature, then bad date. The location check
	// never sees the row because the numeric rule dropped it.
	require.Len(t, result.Outcome.Errors, 1)
	assert.Equal(t, "Row 2: 'invalid' is not a valid number in column 'temperature'", result.Outcome.Errors[0])

	assert.Equal(t, paths.GetReportPath("sensors_report.txt"), result.ReportPath)
	assert.FileExists(t, result.ReportPath)
	assert.FileExists(t, result.CleanDataPath)
	assert.FileExists(t, result.WorkbookPath)

	raw, err := os.ReadFile(result.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "row_count: 3")
	assert.Contains(t, string(raw), "- Row 2: 'invalid' is not a valid number in column 'temperature'")

	clean, err := os.ReadFile(result.CleanDataPath)
	require.NoError(t, err)
	assert.NotContains(t, string(clean), "Boston")

	assert.Greater(t, result.Duration.Nanoseconds(), int64(0))
}

func TestRunCleanData(t *testing.T) {
	svc, _ := testService(t)
	dir := t.TempDir()
	input := writeFixture(t, dir, "clean.csv", "v\n1\n2\n3\n")
	rules := writeFixture(t, dir, "rules.yml", "rules:\n  - type: numeric\n    columns: [v]\n    min: 0\n    max: 10\n")

	result, err := svc.Run(context.Background(), input, rules)
	require.NoError(t, err)

	assert.True(t, result.Outcome.IsValid)
	assert.Empty(t, result.Outcome.Errors)
	assert.Equal(t, 3, result.ValidRows)

	raw, err := os.ReadFile(result.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Passed")
}

func TestRunConfiguredDelimiter(t *testing.T) {
	root := t.TempDir()
	paths := config.NewPaths(config.PathsConfig{
		DataDir:    filepath.Join(root, "data"),
		ReportsDir: filepath.Join(root, "reports"),
		LogsDir:    filepath.Join(root, "logs"),
	})
	require.NoError(t, paths.EnsureDirs())
	svc := NewValidationService(testLogger(), paths, nil, ';')

	dir := t.TempDir()
	input := writeFixture(t, dir, "semi.csv", "a;v\nx;1\ny;20\n")
	rules := writeFixture(t, dir, "rules.yml", "rules:\n  - type: numeric\n    columns: [v]\n    min: 0\n    max: 10\n")

	result, err := svc.Run(context.Background(), input, rules)
	require.NoError(t, err)

	// Under the comma default the file would load as one mangled column
	// and the rule would report 'v' missing instead.
	require.Len(t, result.Outcome.Errors, 1)
	assert.Equal(t, "Row 1: Value 20 is greater than maximum 10 in column 'v'", result.Outcome.Errors[0])
}

func TestRunErrors(t *testing.T) {
	svc, _ := testService(t)
	dir := t.TempDir()

	t.Run("unsupported input format", func(t *testing.T) {
		input := writeFixture(t, dir, "data.parquet", "x")
		rules := writeFixture(t, dir, "r1.yml", "rules:\n  - type: numeric\n    columns: [v]\n")
		_, err := svc.Run(context.Background(), input, rules)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported file format")
	})

	t.Run("missing rules file", func(t *testing.T) {
		input := writeFixture(t, dir, "data.csv", "v\n1\n")
		_, err := svc.Run(context.Background(), input, filepath.Join(dir, "absent.yml"))
		assert.Error(t, err)
	})

	t.Run("malformed rules fail before artifacts", func(t *testing.T) {
		input := writeFixture(t, dir, "data2.csv", "v\n1\n")
		rules := writeFixture(t, dir, "bad.yml", "rules:\n  - type: numeric\n    columns: [v]\n    min: 10\n    max: 5\n")
		_, err := svc.Run(context.Background(), input, rules)
		assert.Error(t, err)
	})
}

func TestValidateSpecs(t *testing.T) {
	svc, _ := testService(t)

	tbl := dataset.New([]string{"temperature"})
	require.NoError(t, tbl.AppendRow(dataset.Number(25.5)))
	require.NoError(t, tbl.AppendRow(dataset.Number(200)))

	min, max := 0.0, 100.0
	outcome, err := svc.Validate(context.Background(), tbl, []validation.RuleSpec{
		{Type: validation.RuleTypeNumeric, Columns: []string{"temperature"}, Min: &min, Max: &max},
	})
	require.NoError(t, err)

	assert.False(t, outcome.IsValid)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, "Row 1: Value 200 is greater than maximum 100 in column 'temperature'", outcome.Errors[0])
	assert.Equal(t, 2, outcome.Table.NumRows())

	_, err = svc.Validate(context.Background(), tbl, []validation.RuleSpec{{Type: "bogus"}})
	assert.Error(t, err)
}

func TestSummaryCharts(t *testing.T) {
	charts := summaryCharts(summaryFixture([]string{"date", "a", "b", "c", "d"}, []string{"a", "b", "c", "d"}))
	// Three line charts plus the scatter of the first two numeric columns.
	require.Len(t, charts, 4)
	assert.Equal(t, "a by date", charts[0].Title)
	assert.Equal(t, "date", charts[0].XColumn)
	assert.Equal(t, "a vs b", charts[3].Title)

	assert.Nil(t, summaryCharts(summaryFixture([]string{"name"}, nil)))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "sensors", baseName("/tmp/data/sensors.csv"))
	assert.Equal(t, "report.final", baseName("report.final.xlsx"))
}
