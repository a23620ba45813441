package core

import (
	"github.com/JonMunkholm/PauperCube/internal/sheet"
	"github.com/dlclark/regexp2"
)

// patternOptions makes tag patterns behave like the spreadsheet's
// case-insensitive JavaScript regexes, lookaheads included.
const patternOptions = regexp2.IgnoreCase | regexp2.ECMAScript

// ColumnSpec is the Column List sheet read as configuration: header names
// mapped to column positions, with tag patterns listed beneath tag headers.
// It is built once per run and never mutated.
type ColumnSpec struct {
	table sheet.Table
	index map[string]int
}

// TagRule is one tag column with its compiled patterns in top-down order.
type TagRule struct {
	Field    string
	Column   int
	Patterns []*regexp2.Regexp
}

// NewColumnSpec indexes the header row of the Column List. When a name
// appears more than once the leftmost column wins.
func NewColumnSpec(columnList sheet.Table) *ColumnSpec {
	s := &ColumnSpec{
		table: columnList,
		index: make(map[string]int),
	}
	for i, name := range columnList.Header() {
		if _, dup := s.index[name]; !dup {
			s.index[name] = i
		}
	}
	return s
}

// Header returns the Column List header, which is also the Card List header.
func (s *ColumnSpec) Header() []string {
	return append([]string(nil), s.table.Header()...)
}

// ResolveColumn returns the index of the header cell equal to name.
func (s *ColumnSpec) ResolveColumn(name string) (int, error) {
	if i, ok := s.index[name]; ok {
		return i, nil
	}
	return -1, &ColumnNotFoundError{Name: name}
}

// Require resolves every name, failing on the first one that is missing.
func (s *ColumnSpec) Require(names ...string) error {
	for _, name := range names {
		if _, err := s.ResolveColumn(name); err != nil {
			return err
		}
	}
	return nil
}

// TagRules resolves and compiles the patterns of each tag field.
//
// Patterns are the cells in rows 1..ColumnDataLength-1 of the tag column.
// Blank cells inside that range are skipped rather than compiled, since an
// empty pattern would match every card.
func (s *ColumnSpec) TagRules(fields []string) ([]TagRule, error) {
	rules := make([]TagRule, 0, len(fields))
	for _, field := range fields {
		col, err := s.ResolveColumn(field)
		if err != nil {
			return nil, err
		}

		rule := TagRule{Field: field, Column: col}
		n := ColumnDataLength(s.table, col)
		for row := 1; row < n; row++ {
			expr := s.table.Cell(row, col)
			if expr == "" {
				continue
			}
			re, err := regexp2.Compile(expr, patternOptions)
			if err != nil {
				return nil, &InvalidPatternError{Field: field, Row: row, Pattern: expr, Err: err}
			}
			rule.Patterns = append(rule.Patterns, re)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// ColumnDataLength returns one past the index of the last non-empty cell in
// column col, scanning from the bottom of the table up. The header counts,
// so a column with only a header returns 1 and a column with nothing returns
// 0. Blank cells above the last value do not shorten the result.
func ColumnDataLength(t sheet.Table, col int) int {
	for row := len(t) - 1; row >= 0; row-- {
		if t.Cell(row, col) != "" {
			return row + 1
		}
	}
	return 0
}
