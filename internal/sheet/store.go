package sheet

import (
	"context"
	"errors"
	"fmt"
)

// ErrSheetNotFound is returned by Read when the named sheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// Sheet is a handle to one named table in a store.
type Sheet interface {
	Name() string
	Read(ctx context.Context) (Table, error)
	// Write replaces the whole sheet with t. Rows beyond len(t) that the
	// sheet held before are gone afterwards.
	Write(ctx context.Context, t Table) error
}

// Store opens sheets by name.
type Store interface {
	Open(name string) Sheet
}

// Workbook holds the three tables a card-list run works on. It is passed
// explicitly to every pipeline step instead of being looked up globally.
type Workbook struct {
	ChangeLog  Sheet
	ColumnList Sheet
	CardList   Sheet
}

// Names identifies the three sheets of a workbook.
type Names struct {
	ChangeLog  string
	ColumnList string
	CardList   string
}

// OpenWorkbook opens the named sheets from store.
func OpenWorkbook(store Store, names Names) (Workbook, error) {
	if store == nil {
		return Workbook{}, errors.New("open workbook: nil store")
	}
	if names.ChangeLog == "" || names.ColumnList == "" || names.CardList == "" {
		return Workbook{}, fmt.Errorf("open workbook: sheet names must be non-empty: %+v", names)
	}
	return Workbook{
		ChangeLog:  store.Open(names.ChangeLog),
		ColumnList: store.Open(names.ColumnList),
		CardList:   store.Open(names.CardList),
	}, nil
}
