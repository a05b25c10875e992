// Package tables rebuilds tables from positioned text elements when the
// source has no ruling lines or cell markup.
//
// Columns are the connected components of horizontal overlap across the whole
// candidate set, rows the connected components of vertical overlap within a
// page. A row with fewer populated cells than the widest row is a wrapped
// continuation and is folded into the row above it.
package tables
