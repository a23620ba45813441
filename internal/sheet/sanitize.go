package sheet

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var replacementChar = []byte(string(utf8.RuneError))

// utf8Reader replaces invalid UTF-8 sequences with U+FFFD a line at a time.
// Sheets exported by older spreadsheet tools sometimes carry Latin-1 card
// names, and postgres rejects invalid UTF-8 in text columns.
type utf8Reader struct {
	br  *bufio.Reader
	buf []byte
	err error
}

func newUTF8Reader(r *bufio.Reader) *utf8Reader {
	return &utf8Reader{br: r}
}

func (r *utf8Reader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		var line []byte
		line, r.err = r.br.ReadBytes('\n')
		if !utf8.Valid(line) {
			line = bytes.ToValidUTF8(line, replacementChar)
		}
		r.buf = line
	}

	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

var _ io.Reader = (*utf8Reader)(nil)
