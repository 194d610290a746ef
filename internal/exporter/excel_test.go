package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dqcli/internal/dataset"
)

func chartTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl := dataset.New([]string{"month", "sales", "returns"})
	rows := [][]dataset.Value{
		{dataset.Text("Jan"), dataset.Number(120), dataset.Number(4)},
		{dataset.Text("Feb"), dataset.Number(150), dataset.Number(7)},
		{dataset.Text("Mar"), dataset.Number(90), dataset.Number(2)},
	}
	for _, row := range rows {
		require.NoError(t, tbl.AppendRow(row...))
	}
	return tbl
}

func TestWriteWorkbook(t *testing.T) {
	w := NewExcelWriter(testLogger())

	t.Run("data sheet and charts", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "report.xlsx")
		charts := []ChartSpec{
			{Kind: ChartBar, Title: "Sales by month", XColumn: "month", YColumns: []string{"sales"}},
			{Kind: ChartLine, Title: "Sales vs returns", XColumn: "month", YColumns: []string{"sales", "returns"}},
		}

		require.NoError(t, w.WriteWorkbook(chartTable(t), charts, path))

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()

		assert.Contains(t, f.GetSheetList(), "Data")
		assert.Contains(t, f.GetSheetList(), "Charts")

		rows, err := f.GetRows("Data")
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, []string{"month", "sales", "returns"}, rows[0])
		assert.Equal(t, "Feb", rows[2][0])
	})

	t.Run("no charts writes data only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plain.xlsx")

		require.NoError(t, w.WriteWorkbook(chartTable(t), nil, path))

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()
		assert.NotContains(t, f.GetSheetList(), "Charts")
	})

	t.Run("unknown chart kind fails before writing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "never.xlsx")
		charts := []ChartSpec{{Kind: "pie", Title: "Nope", XColumn: "month", YColumns: []string{"sales"}}}

		err := w.WriteWorkbook(chartTable(t), charts, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported chart type: pie")
		assert.NoFileExists(t, path)
	})

	t.Run("unknown chart column", func(t *testing.T) {
		charts := []ChartSpec{{Kind: ChartBar, Title: "Bad", XColumn: "month", YColumns: []string{"profit"}}}

		err := w.WriteWorkbook(chartTable(t), charts, filepath.Join(t.TempDir(), "x.xlsx"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `column "profit" not found in data`)
	})
}

func TestColumnRange(t *testing.T) {
	tbl := chartTable(t)

	r, err := columnRange(tbl, "sales")
	require.NoError(t, err)
	assert.Equal(t, "Data!$B$2:$B$4", r)

	_, err = columnRange(tbl, "missing")
	assert.Error(t, err)
}
