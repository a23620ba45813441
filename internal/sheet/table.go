// Package sheet models the spreadsheet-like tables the cube tools read and
// write, and the stores that persist them.
//
// A Table is a rectangular-ish grid of strings whose first row is the header.
// Rows may be ragged; reading past the end of a row yields "".
package sheet

import "strings"

// Table is a grid of cells. Row 0 is the header.
type Table [][]string

// Cell returns the value at (row, col), or "" when the position is outside
// the table. Out-of-range reads behave like empty spreadsheet cells.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t) || col < 0 || col >= len(t[row]) {
		return ""
	}
	return t[row][col]
}

// Header returns the first row, or nil for an empty table.
func (t Table) Header() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// DataRows returns every row below the header.
func (t Table) DataRows() [][]string {
	if len(t) <= 1 {
		return nil
	}
	return t[1:]
}

// Width returns the length of the longest row.
func (t Table) Width() int {
	w := 0
	for _, row := range t {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, row := range t {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// IsBlankRow reports whether every cell in row is empty after trimming.
func IsBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
