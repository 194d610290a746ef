// Package dataset provides the in-memory table type shared by the loaders,
// the validation engine, and the report generators.
//
// A Table is an ordered set of named columns over typed cells (number, text,
// date, or the null marker). Every row carries the integer index it had in
// the source data, and filtering preserves those indices instead of
// renumbering, so downstream defect messages always cite the row the user
// actually loaded.
//
// Tables are immutable by convention: Filter, Head, and WithColumn return new
// Table values and never touch the receiver. Loaders are the only writers,
// via AppendRow during construction.
package dataset
