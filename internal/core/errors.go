package core

import "fmt"

// ColumnNotFoundError means the Column List header has no cell equal to Name.
type ColumnNotFoundError struct {
	Name string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %q (must match the Column List header exactly, case-sensitive)", e.Name)
}

// InvalidCountError means a Change Log row has a count other than 0 or 1.
// Row is the zero-based table row, so the header is row 0.
type InvalidCountError struct {
	Row   int
	Name  string
	Value string
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("invalid card count %q for %q on change log row %d: must be 0 or 1", e.Value, e.Name, e.Row+1)
}

// InvalidPatternError means a tag pattern in the Column List does not compile.
// Row is the zero-based table row.
type InvalidPatternError struct {
	Field   string
	Row     int
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q in column %q, row %d: %v", e.Pattern, e.Field, e.Row+1, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }
