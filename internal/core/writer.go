package core

import (
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/PauperCube/internal/sheet"
)

// SerializeRow lays a CardRow out in header order. Every column gets a
// value; columns that are not Card List fields are left empty.
func SerializeRow(row CardRow, header []string) []string {
	out := make([]string, len(header))
	for i, field := range header {
		out[i], _ = row.Value(field)
	}
	return out
}

// WriteAll builds the Card List: the Column List header followed by one row
// per CardRow, in the order given.
func WriteAll(rows []CardRow, spec *ColumnSpec) sheet.Table {
	header := spec.Header()
	t := make(sheet.Table, 0, len(rows)+1)
	t = append(t, header)
	for _, row := range rows {
		t = append(t, SerializeRow(row, header))
	}
	return t
}

// SortTable returns a copy of t with the data rows ordered by the sort
// column ascending, then the name column ascending. The header stays first.
//
// Cells compare the way a spreadsheet range sort does: numbers before text,
// blanks last, text case-insensitively. Rows that tie keep their order.
func SortTable(t sheet.Table, sortCol, nameCol int) sheet.Table {
	out := t.Clone()
	if len(out) <= 2 {
		return out
	}

	data := out[1:]
	sort.SliceStable(data, func(i, j int) bool {
		if c := compareCells(cell(data[i], sortCol), cell(data[j], sortCol)); c != 0 {
			return c < 0
		}
		return compareCells(cell(data[i], nameCol), cell(data[j], nameCol)) < 0
	})
	return out
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// cellRank orders the kinds of cell value: numbers, then text, then blanks.
func cellRank(s string) (rank int, num float64) {
	if strings.TrimSpace(s) == "" {
		return 2, 0
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return 0, f
	}
	return 1, 0
}

func compareCells(a, b string) int {
	ra, na := cellRank(a)
	rb, nb := cellRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 0:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case 1:
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	}
	return 0
}
