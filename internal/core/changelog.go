package core

import (
	"strconv"
	"strings"

	"github.com/JonMunkholm/PauperCube/internal/sheet"
)

// Default Change Log positions: names in column D, counts in column G.
const (
	DefaultNameColumn  = 3
	DefaultCountColumn = 6
)

// ActiveSet returns the names of cards currently in the cube: every Change
// Log data row whose count is 1, in log order. Duplicated names are kept.
// Rows with count 0 are skipped, and a blank count reads as 0. Any other
// count aborts with *InvalidCountError.
func ActiveSet(changeLog sheet.Table, nameCol, countCol int) ([]string, error) {
	var names []string
	for row := 1; row < len(changeLog); row++ {
		raw := changeLog.Cell(row, countCol)
		count, ok := parseCount(raw)
		if !ok {
			return nil, &InvalidCountError{Row: row, Name: changeLog.Cell(row, nameCol), Value: raw}
		}
		switch count {
		case 1:
			names = append(names, changeLog.Cell(row, nameCol))
		case 0:
		default:
			return nil, &InvalidCountError{Row: row, Name: changeLog.Cell(row, nameCol), Value: raw}
		}
	}
	return names, nil
}

// parseCount reads a count cell numerically, so "1", "1.0" and " 1 " are all 1.
func parseCount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
