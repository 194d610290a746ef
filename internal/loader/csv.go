package loader

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"dqcli/internal/dataset"
)

// CSVLoader reads delimited text files. The first record is the header row.
type CSVLoader struct {
	path      string
	delimiter rune
}

// NewCSVLoader creates a CSV loader with the given delimiter.
func NewCSVLoader(path string, delimiter rune) *CSVLoader {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVLoader{path: path, delimiter: delimiter}
}

// Load implements Loader.
func (l *CSVLoader) Load() (*dataset.Table, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = l.delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file %s: %w", l.path, err)
	}
	if len(records) == 0 {
		return dataset.New(nil), nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}

	tbl := dataset.New(header)
	for _, record := range records[1:] {
		cells := make([]dataset.Value, len(header))
		for i := range header {
			if i < len(record) {
				cells[i] = inferValue(record[i])
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

// parseNumber accepts integers and decimals, including exponent notation,
// and rejects the textual float forms (inf, NaN, hex) that ParseFloat would
// otherwise let through.
func parseNumber(s string) (float64, bool) {
	if strings.ContainsAny(s, "xXpP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
