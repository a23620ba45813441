// Package templates renders the cube web pages as templ components.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// RunRow is one finished run as shown in the runs table.
type RunRow struct {
	ID       string
	Action   string
	Started  string
	Duration string
	Rows     int
	OK       bool
	Code     string
	Error    string
}

// CardListPageData is everything the card list page shows.
type CardListPageData struct {
	Title   string
	Header  []string
	Rows    [][]string
	Busy    bool
	BusyFor string // action holding the run slot, when Busy
	Runs    []RunRow
}

// writer collects the first write error so templates read top to bottom.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) render(ctx context.Context, c templ.Component) {
	if w.err == nil {
		w.err = c.Render(ctx, w.w)
	}
}

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		w.text(title)
		w.raw(`</title><style>` + pageCSS + `</style></head><body><main>`)
		w.render(ctx, body)
		w.raw(`</main></body></html>`)
		return w.err
	})
}

// CardListPage is the index page: run controls, the Card List and recent runs.
func CardListPage(data CardListPageData) templ.Component {
	return Layout(data.Title, templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<h1>`)
		w.text(data.Title)
		w.raw(`</h1><section class="actions">`)
		w.raw(`<form method="post" action="/api/update"><button type="submit">Update Card List</button></form>`)
		w.raw(`<form method="post" action="/api/sort"><button type="submit">Sort Card List</button></form>`)
		w.raw(`<a href="/api/cards?format=csv">Download CSV</a>`)
		if data.Busy {
			w.raw(`<span class="busy">Running: `)
			w.text(data.BusyFor)
			w.raw(`</span>`)
		}
		w.raw(`</section>`)

		w.render(ctx, CardTable(data.Header, data.Rows))
		w.raw(`<h2>Recent runs</h2>`)
		w.render(ctx, RunsTable(data.Runs))
		return w.err
	}))
}

// CardTable renders a sheet as an HTML table. Rows shorter than the header
// are padded with empty cells.
func CardTable(header []string, rows [][]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		if len(header) == 0 {
			w.raw(`<p class="empty">The Card List is empty. Run an update to build it.</p>`)
			return w.err
		}

		w.raw(`<p class="count">`)
		w.text(fmt.Sprintf("%d cards", len(rows)))
		w.raw(`</p><table class="cards"><thead><tr>`)
		for _, h := range header {
			w.raw(`<th>`)
			w.text(h)
			w.raw(`</th>`)
		}
		w.raw(`</tr></thead><tbody>`)
		for _, row := range rows {
			w.raw(`<tr>`)
			for i := range header {
				cell := ""
				if i < len(row) {
					cell = row[i]
				}
				w.raw(`<td>`)
				w.text(cell)
				w.raw(`</td>`)
			}
			w.raw(`</tr>`)
		}
		w.raw(`</tbody></table>`)
		return w.err
	})
}

// RunsTable lists finished runs, newest first.
func RunsTable(runs []RunRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		if len(runs) == 0 {
			w.raw(`<p class="empty">No runs yet.</p>`)
			return w.err
		}
		w.raw(`<table class="runs"><thead><tr><th>Started</th><th>Action</th><th>Rows</th><th>Duration</th><th>Result</th></tr></thead><tbody>`)
		for _, run := range runs {
			w.raw(`<tr><td>`)
			w.text(run.Started)
			w.raw(`</td><td>`)
			w.text(run.Action)
			w.raw(`</td><td>`)
			w.text(fmt.Sprint(run.Rows))
			w.raw(`</td><td>`)
			w.text(run.Duration)
			w.raw(`</td>`)
			if run.OK {
				w.raw(`<td class="ok">ok</td>`)
			} else {
				w.raw(`<td class="failed" title="`)
				w.text(run.Error)
				w.raw(`">`)
				w.text(strings.TrimSpace("failed " + run.Code))
				w.raw(`</td>`)
			}
			w.raw(`</tr>`)
		}
		w.raw(`</tbody></table>`)
		return w.err
	})
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<div class="alert" role="alert"><strong>`)
		w.text(message)
		w.raw(`</strong>`)
		if action != "" {
			w.raw(`<p>`)
			w.text(action)
			w.raw(`</p>`)
		}
		w.raw(`<small>Code: `)
		w.text(code)
		w.raw(`</small></div>`)
		return w.err
	})
}

// ErrorPage is ErrorAlert inside the page shell.
func ErrorPage(message, action, code string) templ.Component {
	return Layout("Error", ErrorAlert(message, action, code))
}

const pageCSS = `body{font-family:system-ui,sans-serif;margin:0;background:#f7f7f5;color:#222}
main{max-width:1400px;margin:0 auto;padding:1rem 2rem}
.actions{display:flex;gap:.75rem;align-items:center;margin-bottom:1rem}
.actions form{margin:0}
.busy{color:#a15c00}
table{border-collapse:collapse;width:100%;background:#fff;font-size:.85rem}
th,td{border:1px solid #ddd;padding:.25rem .5rem;text-align:left;vertical-align:top;white-space:pre-line}
th{background:#eee;position:sticky;top:0}
.ok{color:#1a7f37}
.failed{color:#b42318}
.alert{border:1px solid #b42318;background:#fff1f0;padding:1rem;border-radius:4px}
.empty{color:#666}`
