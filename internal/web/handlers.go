package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/PauperCube/internal/core"
	"github.com/JonMunkholm/PauperCube/internal/sheet"
	"github.com/JonMunkholm/PauperCube/internal/web/templates"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 500
	pageRunsLimit    = 10
)

// CardsResponse is the JSON form of the Card List.
type CardsResponse struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
	Count  int        `json:"count"`
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// loadCardList reads the Card List, treating a sheet that was never written
// as empty.
func (s *Server) loadCardList(ctx context.Context) (sheet.Table, error) {
	t, err := s.service.CardList(ctx)
	if errors.Is(err, sheet.ErrSheetNotFound) {
		return sheet.Table{}, nil
	}
	return t, err
}

// handleIndex renders the card list page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	table, err := s.loadCardList(ctx)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}
	runs, err := s.service.RecentRuns(ctx, pageRunsLimit)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}
	status := s.service.LimiterStatus()

	data := templates.CardListPageData{
		Title:   s.cfg.Sheets.CardList,
		Header:  table.Header(),
		Rows:    table.DataRows(),
		Busy:    status.Busy,
		BusyFor: string(status.Action),
		Runs:    toRunRows(runs),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.CardListPage(data).Render(ctx, w)
}

// handleCards returns the Card List as JSON, or as CSV with ?format=csv.
func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	table, err := s.loadCardList(r.Context())
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="card-list.csv"`)
		if err := sheet.WriteCSV(w, table); err != nil {
			s.respondError(w, r, err, "")
		}
		return
	}

	rows := table.DataRows()
	if rows == nil {
		rows = [][]string{}
	}
	header := table.Header()
	if header == nil {
		header = []string{}
	}
	writeJSON(w, r, http.StatusOK, CardsResponse{Header: header, Rows: rows, Count: len(rows)})
}

// handleRuns returns recent runs, newest first. ?limit= caps the count.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := min(parseIntParam(r, "limit", defaultRunsLimit), maxRunsLimit)

	runs, err := s.service.RecentRuns(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}
	if runs == nil {
		runs = []core.RunRecord{}
	}
	writeJSON(w, r, http.StatusOK, runs)
}

// handleStatus reports whether a run holds the Card List.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.service.LimiterStatus())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpdate runs the full update pipeline.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, s.service.UpdateCardList)
}

// handleSort re-sorts the existing Card List.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, s.service.SortCardList)
}

// runAction executes a run and answers with its RunRecord. The run is
// detached from client disconnects so a started run always finishes or hits
// its own timeout. Form posts from the index page are redirected back to it.
func (s *Server) runAction(w http.ResponseWriter, r *http.Request, run func(context.Context) (*core.RunRecord, error)) {
	rec, err := run(context.WithoutCancel(r.Context()))
	if err != nil {
		var runID string
		if rec != nil {
			runID = rec.ID
		}
		s.respondError(w, r, err, runID)
		return
	}

	if isFormPost(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func toRunRows(runs []core.RunRecord) []templates.RunRow {
	out := make([]templates.RunRow, len(runs))
	for i, run := range runs {
		out[i] = templates.RunRow{
			ID:       run.ID,
			Action:   string(run.Action),
			Started:  run.StartedAt.Local().Format(time.DateTime),
			Duration: run.Duration().Round(time.Millisecond).String(),
			Rows:     run.Rows,
			OK:       run.Succeeded(),
			Code:     run.Code,
			Error:    run.Error,
		}
	}
	return out
}
