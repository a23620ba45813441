package sheet

import (
	"bufio"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestUTF8Reader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid ascii", "Ponder,1\nBrainstorm,0\n", "Ponder,1\nBrainstorm,0\n"},
		{"valid multibyte", "Æther Spellbomb,1\n", "Æther Spellbomb,1\n"},
		{"latin1 byte", "\xc6ther Spellbomb,1\n", "�ther Spellbomb,1\n"},
		{"invalid on last line without newline", "ok\nbad\xff", "ok\nbad�"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newUTF8Reader(bufio.NewReader(iotest.OneByteReader(strings.NewReader(tt.input))))
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadCSV_ReplacesInvalidUTF8(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("Card\n\"L\xf3tus Petal\"\n"))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got := tbl.Cell(1, 0); got != "L�tus Petal" {
		t.Errorf("Cell(1, 0) = %q", got)
	}
}
