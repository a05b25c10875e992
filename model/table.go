package model

import (
	"strings"
)

// Table is a reconstructed table of cell strings. Row 0 is the header row and
// every row holds the same number of cells. A cell spanning several text
// lines keeps them separated by "\n".
type Table struct {
	Rows [][]string
}

// RowCount returns the number of rows, header included
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// NumColumns returns the number of cells per row
func (t *Table) NumColumns() int {
	if t == nil || len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Header returns the header row, or nil for an empty table.
func (t *Table) Header() []string {
	if t.RowCount() == 0 {
		return nil
	}
	return t.Rows[0]
}

// DataRows returns every row after the header.
func (t *Table) DataRows() [][]string {
	if t.RowCount() < 2 {
		return nil
	}
	return t.Rows[1:]
}

// Cell returns the cell at the given row and column (0-indexed), or "" when
// out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= t.RowCount() {
		return ""
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// ToMarkdown converts the table to markdown format
func (t *Table) ToMarkdown() string {
	if t.RowCount() == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		for _, cell := range row {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(strings.ReplaceAll(cell, "\n", " "), "|", "\\|"))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(t.Rows[0])
	for range t.Rows[0] {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")
	for _, row := range t.DataRows() {
		writeRow(row)
	}

	return sb.String()
}
