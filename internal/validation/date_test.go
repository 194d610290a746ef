package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dqcli/internal/dataset"
)

func dateColumn(t *testing.T, values ...string) *dataset.Table {
	t.Helper()
	tbl := dataset.New([]string{"date"})
	for _, v := range values {
		require.NoError(t, tbl.AppendRow(dataset.Text(v)))
	}
	return tbl
}

func TestDateRule(t *testing.T) {
	t.Run("parse failure drops row and reports", func(t *testing.T) {
		rule, err := NewDateRule("date", "%Y-%m-%d", "", "")
		require.NoError(t, err)

		tbl := dateColumn(t, "2023-01-01", "2023-01-02", "not-a-date", "2023-01-04")
		result := Validate(rule, tbl)

		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "Row 2: 'not-a-date' is not a valid date in format '%Y-%m-%d'", result.Errors[0])
		assert.Equal(t, 3, result.Table.NumRows())
	})

	t.Run("range violations report but do not drop", func(t *testing.T) {
		rule, err := NewDateRule("date", "%Y-%m-%d", "2023-01-02", "2023-01-03")
		require.NoError(t, err)

		tbl := dateColumn(t, "2023-01-01", "2023-01-02", "2023-01-03", "2023-01-04")
		result := Validate(rule, tbl)

		require.Len(t, result.Errors, 2)
		assert.Equal(t, "Row 0: Date 2023-01-01 is before start date 2023-01-02", result.Errors[0])
		assert.Equal(t, "Row 3: Date 2023-01-04 is after end date 2023-01-03", result.Errors[1])
		assert.Equal(t, 4, result.Table.NumRows())
	})

	t.Run("range boundaries are inclusive", func(t *testing.T) {
		rule, err := NewDateRule("date", "%Y-%m-%d", "2023-01-01", "2023-01-04")
		require.NoError(t, err)

		tbl := dateColumn(t, "2023-01-01", "2023-01-04")
		result := Validate(rule, tbl)

		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
	})

	t.Run("missing column reports without processing", func(t *testing.T) {
		rule, err := NewDateRule("timestamp", "%Y-%m-%d", "", "")
		require.NoError(t, err)

		tbl := dateColumn(t, "2023-01-01")
		result := Validate(rule, tbl)

		require.Len(t, result.Errors, 1)
		assert.Equal(t, "Column 'timestamp' not found in data", result.Errors[0])
		assert.Equal(t, 1, result.Table.NumRows())
	})

	t.Run("alternate format", func(t *testing.T) {
		rule, err := NewDateRule("date", "%d/%m/%Y", "", "")
		require.NoError(t, err)

		tbl := dateColumn(t, "31/01/2023", "2023-01-31")
		result := Validate(rule, tbl)

		require.Len(t, result.Errors, 1)
		assert.Equal(t, "Row 1: '2023-01-31' is not a valid date in format '%d/%m/%Y'", result.Errors[0])
		assert.Equal(t, 1, result.Table.NumRows())
	})

	t.Run("configuration errors are fatal", func(t *testing.T) {
		_, err := NewDateRule("", "%Y-%m-%d", "", "")
		assert.Error(t, err)

		_, err = NewDateRule("date", "%Y-%m-%Q", "", "")
		assert.Error(t, err)

		_, err = NewDateRule("date", "%Y-%m-%d", "01-02-2023", "")
		assert.Error(t, err)

		_, err = NewDateRule("date", "%Y-%m-%d", "2023-02-01", "2023-01-01")
		assert.Error(t, err)
	})

	t.Run("already parsed dates pass through", func(t *testing.T) {
		rule, err := NewDateRule("date", "%Y-%m-%d", "", "")
		require.NoError(t, err)

		tbl := dateColumn(t, "2023-01-01", "2023-01-02")
		first := Validate(rule, tbl)
		require.True(t, first.IsValid)

		second := Validate(rule, first.Table)
		assert.True(t, second.IsValid)
		assert.Equal(t, first.Table.NumRows(), second.Table.NumRows())
	})
}

func TestStrftimeLayout(t *testing.T) {
	tests := []struct {
		pattern string
		layout  string
	}{
		{"%Y-%m-%d", "2006-01-02"},
		{"%d/%m/%Y", "02/01/2006"},
		{"%Y-%m-%d %H:%M:%S", "2006-01-02 15:04:05"},
		{"%b %d, %Y", "Jan 02, 2006"},
		{"100%%", "100%"},
	}
	for _, tt := range tests {
		layout, err := strftimeLayout(tt.pattern)
		require.NoError(t, err, tt.pattern)
		assert.Equal(t, tt.layout, layout)
	}

	_, err := strftimeLayout("%Y-%m-%")
	assert.Error(t, err)
	_, err = strftimeLayout("%Z")
	assert.Error(t, err)
}
