// Package loader reads tabular files into dataset tables.
//
// Three loaders share the Loader interface:
//
// CSVLoader: delimited text via encoding/csv, configurable delimiter.
//
// JSONLoader: a JSON array of flat objects, columns taken as the sorted
// union of object keys.
//
// ExcelLoader: one sheet of an xlsx workbook via excelize. Legacy .xls
// workbooks are rejected; excelize only reads the OOXML format.
//
// ForFile picks the loader from the file extension; an unsupported extension
// is an error. All loaders infer cell types the same way: empty tokens
// become the null marker, numeric tokens become numbers, and everything else
// (dates included) stays text for the validation rules to coerce.
package loader
