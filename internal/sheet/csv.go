package sheet

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// utf8BOM is stripped from the start of files exported by spreadsheet tools.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVStore keeps each sheet as <Dir>/<name>.csv.
type CSVStore struct {
	Dir string

	mu sync.Mutex // serializes writes within this process
}

// NewCSVStore returns a store rooted at dir, creating the directory if needed.
func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sheet dir %s: %w", dir, err)
	}
	return &CSVStore{Dir: dir}, nil
}

// Open returns a handle for the named sheet. The file need not exist yet.
func (s *CSVStore) Open(name string) Sheet {
	return &csvSheet{store: s, name: name}
}

// Path returns the file backing the named sheet.
func (s *CSVStore) Path(name string) string {
	return filepath.Join(s.Dir, name+".csv")
}

type csvSheet struct {
	store *CSVStore
	name  string
}

func (c *csvSheet) Name() string { return c.name }

func (c *csvSheet) Read(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(c.store.Path(c.name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, c.name)
		}
		return nil, fmt.Errorf("open sheet %s: %w", c.name, err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", c.name, err)
	}
	return t, nil
}

func (c *csvSheet) Write(ctx context.Context, t Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	path := c.store.Path(c.name)
	tmp, err := os.CreateTemp(c.store.Dir, ".sheet-*.csv")
	if err != nil {
		return fmt.Errorf("write sheet %s: %w", c.name, err)
	}
	// No-op once renamed
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, t); err != nil {
		tmp.Close()
		return fmt.Errorf("write sheet %s: %w", c.name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write sheet %s: %w", c.name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace sheet %s: %w", c.name, err)
	}
	return nil
}

// ReadCSV parses r into a Table. Ragged rows are kept as-is, a leading
// UTF-8 byte order mark is dropped and invalid UTF-8 becomes U+FFFD.
func ReadCSV(r io.Reader) (Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(newUTF8Reader(br))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return Table(records), nil
}

// WriteCSV writes t to w. Every row is padded to the table width so the
// file stays rectangular.
func WriteCSV(w io.Writer, t Table) error {
	width := t.Width()
	cw := csv.NewWriter(w)
	for _, row := range t {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
