// Package fieldpath parses and evaluates the dotted/bracketed field paths used
// throughout a wizard schema: `full_name`, `trustors[0].full_name`, and the
// repeated-group template form `trustors[].full_name`.
//
// Every component that reads or writes answers goes through this package so
// that placeholder resolution, array naming, and nested lookups behave the
// same way everywhere.
package fieldpath
