// Package exporter writes validated tables out as CSV files and Excel
// workbooks.
//
// CSVWriter handles delimited output with optional headers, append mode, and
// a UTF-8 BOM for Excel compatibility. ExcelWriter renders a table onto a
// Data sheet and draws summary charts (bar, line, scatter) onto a Charts
// sheet via excelize.
package exporter
