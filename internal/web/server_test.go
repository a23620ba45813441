package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/PauperCube/internal/config"
	"github.com/JonMunkholm/PauperCube/internal/core"
	"github.com/JonMunkholm/PauperCube/internal/metrics"
	"github.com/JonMunkholm/PauperCube/internal/scryfall"
	"github.com/JonMunkholm/PauperCube/internal/sheet"
)

type stubCards map[string]*scryfall.Card

func (s stubCards) Named(_ context.Context, name string) (*scryfall.Card, error) {
	if c, ok := s[name]; ok {
		return c, nil
	}
	return nil, &scryfall.NotFoundError{Name: name}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Sheets: config.SheetsConfig{
			ChangeLog: "Change Log", ColumnList: "Column List", CardList: "Card List",
			NameColumn: core.DefaultNameColumn, CountColumn: core.DefaultCountColumn,
		},
	}
}

func testColumnList() sheet.Table {
	header := append([]string(nil), core.RequiredFields...)
	patterns := make([]string, len(header))
	for i, h := range header {
		if h == core.FieldEvasion {
			patterns[i] = "flying"
		}
	}
	return sheet.Table{header, patterns}
}

func changeLog(entries ...string) sheet.Table {
	t := sheet.Table{{"Date", "Action", "Who", "Card", "Set", "Note", "In Cube"}}
	for _, name := range entries {
		t = append(t, []string{"", "", "", name, "", "", "1"})
	}
	return t
}

func newTestServer(t *testing.T, cfg *config.Config, log sheet.Table) (*Server, *sheet.MemoryStore) {
	t.Helper()

	store := sheet.NewMemoryStore(map[string]sheet.Table{
		cfg.Sheets.ChangeLog:  log,
		cfg.Sheets.ColumnList: testColumnList(),
	})
	book, err := sheet.OpenWorkbook(store, sheet.Names{
		ChangeLog:  cfg.Sheets.ChangeLog,
		ColumnList: cfg.Sheets.ColumnList,
		CardList:   cfg.Sheets.CardList,
	})
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}

	m := metrics.New()
	svc, err := core.NewService(core.ServiceConfig{
		Workbook: book,
		Cards: stubCards{
			"Squadron Hawk": {Name: "Squadron Hawk", ColorIdentity: []string{"W"}, TypeLine: "Creature — Bird", OracleText: "Flying", CMC: 2, Power: "1", Toughness: "1"},
			"Ponder":        {Name: "Ponder", ColorIdentity: []string{"U"}, TypeLine: "Sorcery", OracleText: "Look at the top three cards <of> your library.", CMC: 1},
		},
		Limiter:     core.NewRunLimiter(50 * time.Millisecond),
		Metrics:     m,
		NameColumn:  cfg.Sheets.NameColumn,
		CountColumn: cfg.Sheets.CountColumn,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return NewServer(svc, cfg, m), store
}

func do(s *Server, method, target string, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), changeLog())
	rec := do(s, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestUpdateThenCards(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), changeLog("Ponder", "Squadron Hawk"))

	rec := do(s, http.MethodPost, "/api/update", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/update status = %d, body %s", rec.Code, rec.Body)
	}
	var run core.RunRecord
	if err := json.NewDecoder(rec.Body).Decode(&run); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if run.Action != core.ActionUpdate || run.Rows != 2 || run.ID == "" {
		t.Errorf("run = %+v", run)
	}

	rec = do(s, http.MethodGet, "/api/cards", "", nil)
	var cards CardsResponse
	if err := json.NewDecoder(rec.Body).Decode(&cards); err != nil {
		t.Fatalf("decode cards: %v", err)
	}
	if cards.Count != 2 || cards.Rows[0][3] != "Squadron Hawk" || cards.Rows[1][3] != "Ponder" {
		t.Errorf("cards = %+v", cards)
	}

	rec = do(s, http.MethodGet, "/api/cards?format=csv", "", nil)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "Sort,Color,Section,Name") {
		t.Errorf("csv body starts %q", rec.Body.String()[:min(40, rec.Body.Len())])
	}

	rec = do(s, http.MethodGet, "/api/runs?limit=5", "", nil)
	var runs []core.RunRecord
	json.NewDecoder(rec.Body).Decode(&runs)
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Errorf("runs = %+v", runs)
	}
}

func TestUpdate_NotFoundMapsToCode(t *testing.T) {
	s, store := newTestServer(t, testConfig(), changeLog("Ponder", "No Such Card"))

	rec := do(s, http.MethodPost, "/api/update", "", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "CARD001" || resp.RunID == "" {
		t.Errorf("error response = %+v", resp)
	}
	if _, ok := store.Snapshot("Card List"); ok {
		t.Error("card list written despite failed run")
	}
}

func TestSort_FormPostRedirects(t *testing.T) {
	s, store := newTestServer(t, testConfig(), changeLog())
	store.Open("Card List").Write(context.Background(), sheet.Table{
		append([]string(nil), core.RequiredFields...),
		{"20051", "", "", "Ponder"},
		{"10012", "", "", "Squadron Hawk"},
	})

	rec := do(s, http.MethodPost, "/api/sort", url.Values{}.Encode(), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
		"Accept":       "text/html",
	})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("status = %d location %q, want 303 to /", rec.Code, rec.Header().Get("Location"))
	}

	got, _ := store.Snapshot("Card List")
	if got[1][3] != "Squadron Hawk" {
		t.Errorf("card list not sorted: %q", got)
	}
}

func TestIndex_EscapesCardText(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), changeLog("Ponder"))
	do(s, http.MethodPost, "/api/update", "", nil)

	rec := do(s, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "&lt;of&gt;") {
		t.Error("card text not escaped")
	}
	for _, want := range []string{"Update Card List", "Sort Card List", "Ponder"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestIndex_EmptyCardList(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), changeLog())
	rec := do(s, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "The Card List is empty") {
		t.Errorf("status = %d body %q", rec.Code, rec.Body.String())
	}
}

func TestRunEndpoints_RequireAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.Security = config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"secret"}}
	s, _ := newTestServer(t, cfg, changeLog())

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "nope", http.StatusForbidden},
		{"valid", "secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.key != "" {
				headers["X-API-Key"] = tt.key
			}
			if rec := do(s, http.MethodPost, "/api/update", "", headers); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	if rec := do(s, http.MethodGet, "/api/cards", "", nil); rec.Code != http.StatusOK {
		t.Errorf("read endpoint status = %d, want 200 without key", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), changeLog("Ponder"))
	do(s, http.MethodPost, "/api/update", "", nil)

	rec := do(s, http.MethodGet, "/metrics", "", nil)
	if !strings.Contains(rec.Body.String(), `cube_runs_total{action="update",status="ok"} 1`) {
		t.Errorf("metrics output missing run counter:\n%s", rec.Body)
	}
}

func TestCORS(t *testing.T) {
	cfg := testConfig()
	cfg.Server.AllowedOrigins = []string{"https://cube.example"}
	s, _ := newTestServer(t, cfg, changeLog())

	rec := do(s, http.MethodGet, "/api/status", "", map[string]string{"Origin": "https://cube.example"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://cube.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestStatusForCode(t *testing.T) {
	tests := map[string]int{
		"RUN001":  http.StatusConflict,
		"RUN003":  http.StatusGatewayTimeout,
		"CARD002": http.StatusBadGateway,
		"CARD001": http.StatusUnprocessableEntity,
		"CFG001":  http.StatusUnprocessableEntity,
		"LOG001":  http.StatusUnprocessableEntity,
		"ERR000":  http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := statusForCode(code); got != want {
			t.Errorf("statusForCode(%q) = %d, want %d", code, got, want)
		}
	}
}
