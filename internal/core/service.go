package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/PauperCube/internal/logging"
	"github.com/JonMunkholm/PauperCube/internal/metrics"
	"github.com/JonMunkholm/PauperCube/internal/scryfall"
	"github.com/JonMunkholm/PauperCube/internal/sheet"
	"github.com/google/uuid"
)

// DefaultRunTimeout bounds a whole update or sort run.
const DefaultRunTimeout = 10 * time.Minute

// CardSource looks up card metadata by exact name.
type CardSource interface {
	Named(ctx context.Context, name string) (*scryfall.Card, error)
}

// ServiceConfig wires a Service. Workbook and Cards are required; the rest
// fall back to in-memory or default values when zero.
type ServiceConfig struct {
	Workbook sheet.Workbook
	Cards    CardSource
	History  RunHistory
	Limiter  *RunLimiter
	Metrics  *metrics.Metrics

	// Change Log positions (zero-based).
	NameColumn  int
	CountColumn int

	RunTimeout time.Duration
}

// Service runs the card-list pipeline against one workbook. It can be shared
// by the terminal menu and the HTTP server; runs are serialized through the
// RunLimiter.
type Service struct {
	book    sheet.Workbook
	cards   CardSource
	history RunHistory
	limiter *RunLimiter
	metrics *metrics.Metrics

	nameCol    int
	countCol   int
	runTimeout time.Duration
}

// NewService creates a Service from cfg.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Workbook.ChangeLog == nil || cfg.Workbook.ColumnList == nil || cfg.Workbook.CardList == nil {
		return nil, errors.New("new service: workbook sheets must be set")
	}
	if cfg.Cards == nil {
		return nil, errors.New("new service: card source is required")
	}
	if cfg.NameColumn < 0 || cfg.CountColumn < 0 {
		return nil, fmt.Errorf("new service: change log columns must be non-negative (name=%d, count=%d)",
			cfg.NameColumn, cfg.CountColumn)
	}

	s := &Service{
		book:       cfg.Workbook,
		cards:      cfg.Cards,
		history:    cfg.History,
		limiter:    cfg.Limiter,
		metrics:    cfg.Metrics,
		nameCol:    cfg.NameColumn,
		countCol:   cfg.CountColumn,
		runTimeout: cfg.RunTimeout,
	}
	if s.history == nil {
		s.history = NewMemoryHistory(0)
	}
	if s.limiter == nil {
		s.limiter = NewRunLimiter(DefaultRunWait)
	}
	if s.runTimeout <= 0 {
		s.runTimeout = DefaultRunTimeout
	}
	return s, nil
}

// BuildCardList runs the read-fetch-transform part of an update without
// writing anything. It returns the sorted Card List and the card names that
// were fetched, in Change Log order.
//
// Any error aborts the build; rows computed before the failure are dropped.
func (s *Service) BuildCardList(ctx context.Context) (sheet.Table, []string, error) {
	log := logging.FromContext(ctx)

	columnList, err := s.book.ColumnList.Read(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("read column list: %w", err)
	}
	spec := NewColumnSpec(columnList)
	if err := spec.Require(RequiredFields...); err != nil {
		return nil, nil, err
	}
	rules, err := spec.TagRules(TagFields)
	if err != nil {
		return nil, nil, err
	}

	changeLog, err := s.book.ChangeLog.Read(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("read change log: %w", err)
	}
	names, err := ActiveSet(changeLog, s.nameCol, s.countCol)
	if err != nil {
		return nil, nil, err
	}
	log.Info("active set read", "cards", len(names))

	rows := make([]CardRow, 0, len(names))
	processed := make([]string, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, processed, err
		}

		start := time.Now()
		card, err := s.cards.Named(ctx, name)
		s.metrics.CardFetched(time.Since(start), err)
		if err != nil {
			return nil, processed, fmt.Errorf("fetch card %q: %w", name, err)
		}

		row, err := Transform(card, rules)
		if err != nil {
			return nil, processed, err
		}
		rows = append(rows, row)
		processed = append(processed, name)
		log.Debug("card processed", "name", name, "sort", row.Sort)
	}

	sortCol, _ := spec.ResolveColumn(FieldSort)
	nameCol, _ := spec.ResolveColumn(FieldName)
	return SortTable(WriteAll(rows, spec), sortCol, nameCol), processed, nil
}

// UpdateCardList rebuilds the Card List from the Change Log and writes it
// sorted. The previous contents, including rows beyond the new length, are
// replaced. Nothing is written when the build fails.
func (s *Service) UpdateCardList(ctx context.Context) (*RunRecord, error) {
	return s.run(ctx, ActionUpdate, func(ctx context.Context, rec *RunRecord) error {
		table, processed, err := s.BuildCardList(ctx)
		rec.Processed = processed
		if err != nil {
			return err
		}

		if err := s.book.CardList.Write(ctx, table); err != nil {
			return fmt.Errorf("write card list: %w", err)
		}
		rec.Rows = len(table) - 1
		s.metrics.RowsWritten(rec.Rows)
		return nil
	})
}

// SortCardList re-sorts the existing Card List by (Sort, Name) in place.
// The Sort and Name positions come from the Column List header.
func (s *Service) SortCardList(ctx context.Context) (*RunRecord, error) {
	return s.run(ctx, ActionSort, func(ctx context.Context, rec *RunRecord) error {
		columnList, err := s.book.ColumnList.Read(ctx)
		if err != nil {
			return fmt.Errorf("read column list: %w", err)
		}
		spec := NewColumnSpec(columnList)
		sortCol, err := spec.ResolveColumn(FieldSort)
		if err != nil {
			return err
		}
		nameCol, err := spec.ResolveColumn(FieldName)
		if err != nil {
			return err
		}

		cardList, err := s.book.CardList.Read(ctx)
		if err != nil {
			return fmt.Errorf("read card list: %w", err)
		}
		if len(cardList) == 0 {
			return nil
		}

		if err := s.book.CardList.Write(ctx, SortTable(cardList, sortCol, nameCol)); err != nil {
			return fmt.Errorf("write card list: %w", err)
		}
		rec.Rows = len(cardList) - 1
		return nil
	})
}

// CardList returns the current Card List table.
func (s *Service) CardList(ctx context.Context) (sheet.Table, error) {
	t, err := s.book.CardList.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read card list: %w", err)
	}
	return t, nil
}

// RecentRuns returns up to limit finished runs, newest first.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	return s.history.Recent(ctx, limit)
}

// LimiterStatus reports whether a run is in progress.
func (s *Service) LimiterStatus() RunLimiterStatus {
	return s.limiter.Status()
}

// WaitForRuns blocks until the in-flight run, if any, finishes or ctx ends.
func (s *Service) WaitForRuns(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// run holds the limiter slot for the duration of fn, stamps a RunRecord and
// stores it in the history whether fn fails or not.
func (s *Service) run(ctx context.Context, action RunAction, fn func(context.Context, *RunRecord) error) (*RunRecord, error) {
	if err := s.limiter.Acquire(ctx, action); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	rec := &RunRecord{
		ID:        uuid.New().String(),
		Action:    action,
		StartedAt: time.Now().UTC(),
	}
	ctx = logging.ContextWithRunID(ctx, rec.ID)
	log := logging.WithFields(ctx, "action", string(action))

	log.Info("run started")
	s.metrics.RunStarted()

	err := fn(ctx, rec)

	rec.FinishedAt = time.Now().UTC()
	s.metrics.RunFinished(string(action), rec.Duration(), err)
	if err != nil {
		msg := MapError(err)
		rec.Error = err.Error()
		rec.Code = msg.Code
		log.Error("run failed", "error", err, "code", msg.Code, "processed", len(rec.Processed))
	} else {
		log.Info("run completed", "rows", rec.Rows, "duration", rec.Duration())
	}

	if herr := s.history.Record(context.WithoutCancel(ctx), *rec); herr != nil {
		log.Warn("failed to record run", "error", herr)
	}
	return rec, err
}
