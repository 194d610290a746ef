package validation

import (
	"fmt"
	"strings"
	"time"

	"dqcli/internal/dataset"
)

// DefaultDateFormat is the pattern used when a date rule is configured
// without one.
const DefaultDateFormat = "%Y-%m-%d"

// DateRule parses one column as dates in a configured format and checks an
// optional inclusive date range. Cells that fail to parse become null and
// their rows are dropped; out-of-range dates are reported but never dropped,
// mirroring the numeric rule's handling of bound violations.
type DateRule struct {
	column   string
	pattern  string
	layout   string
	start    *time.Time
	startRaw string
	end      *time.Time
	endRaw   string
}

// NewDateRule creates a date rule for a single column. The format uses
// strftime-style directives (for example "%Y-%m-%d"); start and end, when
// set, must be given in that same format. An unknown directive, an empty
// column, or an unparsable boundary is a configuration error.
func NewDateRule(column, format, startDate, endDate string) (*DateRule, error) {
	if column == "" {
		return nil, fmt.Errorf("date rule: column is required")
	}
	if format == "" {
		format = DefaultDateFormat
	}
	layout, err := strftimeLayout(format)
	if err != nil {
		return nil, fmt.Errorf("date rule: %w", err)
	}

	r := &DateRule{column: column, pattern: format, layout: layout, startRaw: startDate, endRaw: endDate}
	if startDate != "" {
		t, err := time.Parse(layout, startDate)
		if err != nil {
			return nil, fmt.Errorf("date rule: start date %q does not match format %q", startDate, format)
		}
		r.start = &t
	}
	if endDate != "" {
		t, err := time.Parse(layout, endDate)
		if err != nil {
			return nil, fmt.Errorf("date rule: end date %q does not match format %q", endDate, format)
		}
		r.end = &t
	}
	if r.start != nil && r.end != nil && r.start.After(*r.end) {
		return nil, fmt.Errorf("date rule: start date %s is after end date %s", startDate, endDate)
	}
	return r, nil
}

// Check implements Rule.
func (r *DateRule) Check(tbl *dataset.Table) (*dataset.Table, []string) {
	var errs []string

	if !tbl.HasColumn(r.column) {
		return tbl, []string{missingColumnError(r.column)}
	}

	cells, _ := tbl.Column(r.column)
	parsed := make([]dataset.Value, len(cells))
	for i, cell := range cells {
		t, ok := r.parseDate(cell)
		if !ok {
			parsed[i] = dataset.Null()
			errs = append(errs, fmt.Sprintf("Row %d: '%s' is not a valid date in format '%s'",
				tbl.Row(i).Index, cell.String(), r.pattern))
			continue
		}
		parsed[i] = dataset.Date(t, r.layout)
	}

	if r.start != nil {
		for i, cell := range parsed {
			if t, ok := cell.Time(); ok && t.Before(*r.start) {
				errs = append(errs, fmt.Sprintf("Row %d: Date %s is before start date %s",
					tbl.Row(i).Index, t.Format(r.layout), r.startRaw))
			}
		}
	}
	if r.end != nil {
		for i, cell := range parsed {
			if t, ok := cell.Time(); ok && t.After(*r.end) {
				errs = append(errs, fmt.Sprintf("Row %d: Date %s is after end date %s",
					tbl.Row(i).Index, t.Format(r.layout), r.endRaw))
			}
		}
	}

	out, err := tbl.WithColumn(r.column, parsed)
	if err != nil {
		return tbl, append(errs, err.Error())
	}
	out = out.Filter(func(i int) bool {
		cell, _ := out.Cell(i, r.column)
		return !cell.IsNull()
	})
	return out, errs
}

func (r *DateRule) parseDate(v dataset.Value) (time.Time, bool) {
	switch v.Kind() {
	case dataset.KindDate:
		return v.Time()
	case dataset.KindText:
		t, err := time.Parse(r.layout, strings.TrimSpace(v.String()))
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

// strftimeDirectives maps the supported strftime directives onto Go
// reference-time layout fragments.
var strftimeDirectives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'H': "15",
	'M': "04",
	'S': "05",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'p': "PM",
	'%': "%",
}

// strftimeLayout converts a strftime-style pattern to a Go time layout.
func strftimeLayout(pattern string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(pattern) {
			return "", fmt.Errorf("format %q ends with a bare %%", pattern)
		}
		frag, ok := strftimeDirectives[pattern[i]]
		if !ok {
			return "", fmt.Errorf("unsupported date format directive %%%c in %q", pattern[i], pattern)
		}
		b.WriteString(frag)
	}
	return b.String(), nil
}
