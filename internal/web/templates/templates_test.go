package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestCardTable_PadsAndEscapes(t *testing.T) {
	var buf bytes.Buffer
	err := CardTable([]string{"Name", "Card Text"}, [][]string{{"Ponder"}, {"Bolt", "<b>3</b>"}}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "<td>") != 4 {
		t.Errorf("want 4 cells, got %d: %s", strings.Count(out, "<td>"), out)
	}
	if strings.Contains(out, "<b>3</b>") || !strings.Contains(out, "&lt;b&gt;3&lt;/b&gt;") {
		t.Errorf("cell not escaped: %s", out)
	}
	if !strings.Contains(out, "2 cards") {
		t.Errorf("count missing: %s", out)
	}
}

func TestRunsTable(t *testing.T) {
	var buf bytes.Buffer
	runs := []RunRow{
		{Action: "update", Rows: 3, OK: true},
		{Action: "sort", OK: false, Code: "RUN001", Error: "busy"},
	}
	if err := RunsTable(runs).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `class="ok"`) || !strings.Contains(out, "failed RUN001") {
		t.Errorf("unexpected output: %s", out)
	}

	buf.Reset()
	RunsTable(nil).Render(context.Background(), &buf)
	if !strings.Contains(buf.String(), "No runs yet") {
		t.Errorf("empty runs output: %s", buf.String())
	}
}

func TestErrorPage(t *testing.T) {
	var buf bytes.Buffer
	if err := ErrorPage("Card not found", "Check spelling", "CARD001").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<!DOCTYPE html>", "Card not found", "Check spelling", "Code: CARD001"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %s", want, out)
		}
	}
}
