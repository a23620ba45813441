// Command cube maintains the cube's Card List.
//
// Usage:
//
//	cube [menu]    terminal menu (default)
//	cube update    rebuild the Card List from the Change Log
//	cube sort      re-sort the existing Card List
//	cube serve     HTTP server with the card list page and API
//	cube import    copy the CSV sheets into PostgreSQL
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/PauperCube/internal/application"
	"github.com/JonMunkholm/PauperCube/internal/config"
	"github.com/JonMunkholm/PauperCube/internal/core"
	"github.com/JonMunkholm/PauperCube/internal/database"
	"github.com/JonMunkholm/PauperCube/internal/logging"
	"github.com/JonMunkholm/PauperCube/internal/metrics"
	"github.com/JonMunkholm/PauperCube/internal/scryfall"
	"github.com/JonMunkholm/PauperCube/internal/sheet"
	"github.com/JonMunkholm/PauperCube/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const (
	usage       = "usage: cube [menu|update|sort|serve|import]"
	menuLogFile = "cube.log"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	cmd := "menu"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if err := run(cmd, cfg); err != nil {
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		}
		slog.Error("command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func run(cmd string, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	switch cmd {
	case "menu":
		// The menu owns the terminal
		f, err := os.OpenFile(menuLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open %s: %w", menuLogFile, err)
		}
		defer f.Close()
		logging.SetupWriter(f, cfg.Logging.Level, cfg.Logging.Format)
		return application.Run(app.service)

	case "update":
		rec, err := app.service.UpdateCardList(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Card List updated: %d cards (run %s)\n", rec.Rows, rec.ID)
		return nil

	case "sort":
		rec, err := app.service.SortCardList(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Card List sorted: %d rows (run %s)\n", rec.Rows, rec.ID)
		return nil

	case "serve":
		return serve(ctx, cfg, app)

	case "import":
		return importSheets(ctx, cfg, app)

	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

// app holds the wired dependencies shared by every command.
type app struct {
	service *core.Service
	metrics *metrics.Metrics
	pool    *pgxpool.Pool // nil for the csv store
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{metrics: metrics.New()}

	var (
		store   sheet.Store
		history core.RunHistory = core.NewMemoryHistory(cfg.Run.HistoryLimit)
	)

	switch strings.ToLower(cfg.Sheets.Store) {
	case config.StorePostgres:
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		slog.Info("connected to database", "name", database.Name(cfg.Database.URL))

		if err := database.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		store = database.NewPgStore(pool)
		history = database.NewPgHistory(pool)

	default:
		csvStore, err := sheet.NewCSVStore(cfg.Sheets.Dir)
		if err != nil {
			return nil, err
		}
		store = csvStore
		slog.Info("using csv sheets", "dir", cfg.Sheets.Dir)
	}

	book, err := sheet.OpenWorkbook(store, sheetNames(cfg))
	if err != nil {
		a.Close()
		return nil, err
	}

	cards := scryfall.NewClient(cfg.Scryfall.BaseURL,
		scryfall.WithTimeout(cfg.Scryfall.Timeout),
		scryfall.WithUserAgent(cfg.Scryfall.UserAgent),
	)

	a.service, err = core.NewService(core.ServiceConfig{
		Workbook:    book,
		Cards:       cards,
		History:     history,
		Limiter:     core.NewRunLimiter(cfg.Run.MaxWait),
		Metrics:     a.metrics,
		NameColumn:  cfg.Sheets.NameColumn,
		CountColumn: cfg.Sheets.CountColumn,
		RunTimeout:  cfg.Run.Timeout,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func sheetNames(cfg *config.Config) sheet.Names {
	return sheet.Names{
		ChangeLog:  cfg.Sheets.ChangeLog,
		ColumnList: cfg.Sheets.ColumnList,
		CardList:   cfg.Sheets.CardList,
	}
}

func serve(ctx context.Context, cfg *config.Config, a *app) error {
	server := web.NewServer(a.service, cfg, a.metrics)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr())
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Let an in-flight run finish writing the Card List
	if status := a.service.LimiterStatus(); status.Busy {
		slog.Info("waiting for run to complete", "action", status.Action)
		if err := a.service.WaitForRuns(shutdownCtx); err != nil {
			slog.Warn("run did not complete in time", "error", err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// importSheets seeds the postgres store from the CSV directory.
func importSheets(ctx context.Context, cfg *config.Config, a *app) error {
	if a.pool == nil {
		return errors.New("import needs SHEET_STORE=postgres")
	}
	src, err := sheet.NewCSVStore(cfg.Sheets.Dir)
	if err != nil {
		return err
	}

	names := sheetNames(cfg)
	skipped, err := database.NewPgStore(a.pool).Import(ctx, src, names.ChangeLog, names.ColumnList, names.CardList)
	if err != nil {
		return err
	}
	for _, name := range skipped {
		slog.Warn("sheet not found in csv dir, skipped", "sheet", name, "dir", cfg.Sheets.Dir)
	}
	fmt.Printf("Imported %d sheets from %s\n", 3-len(skipped), cfg.Sheets.Dir)
	return nil
}
