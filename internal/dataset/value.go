package dataset

import (
	"strconv"
	"time"
)

// Kind identifies the type of a cell value.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindDate
)

// DefaultDateLayout is used to render date cells that were created without
// an explicit layout.
const DefaultDateLayout = "2006-01-02"

// Value is a single immutable table cell. The zero value is the null cell.
type Value struct {
	kind   Kind
	num    float64
	text   string
	date   time.Time
	layout string
}

// Null returns the missing-value marker.
func Null() Value {
	return Value{kind: KindNull}
}

// Number returns a numeric cell.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text returns a text cell.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Date returns a date cell. The layout controls how the cell renders as a
// string; an empty layout falls back to DefaultDateLayout.
func Date(t time.Time, layout string) Value {
	if layout == "" {
		layout = DefaultDateLayout
	}
	return Value{kind: KindDate, date: t, layout: layout}
}

// Kind reports the cell type.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the cell is the missing-value marker.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric content of the cell.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Time returns the date content of the cell.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.date, true
}

// String renders the cell for reports and error messages. Numbers render
// without a fixed precision so 25.5 stays "25.5" and 60 stays "60"; the null
// cell renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindDate:
		return v.date.Format(v.layout)
	default:
		return ""
	}
}
