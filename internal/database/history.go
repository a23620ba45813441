package database

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/PauperCube/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgHistory stores run records in cube_runs. It implements core.RunHistory.
type PgHistory struct {
	pool *pgxpool.Pool
}

// NewPgHistory returns a history backed by pool. Call EnsureSchema first.
func NewPgHistory(pool *pgxpool.Pool) *PgHistory {
	return &PgHistory{pool: pool}
}

// Record inserts rec. Records are never updated.
func (h *PgHistory) Record(ctx context.Context, rec core.RunRecord) error {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return fmt.Errorf("record run: invalid id %q: %w", rec.ID, err)
	}

	processed := rec.Processed
	if processed == nil {
		processed = []string{}
	}

	_, err = h.pool.Exec(ctx, `
		INSERT INTO cube_runs (id, action, started_at, finished_at, row_count, processed, error, code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, string(rec.Action), rec.StartedAt, rec.FinishedAt, rec.Rows, processed, rec.Error, rec.Code,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. A limit <= 0 returns all.
func (h *PgHistory) Recent(ctx context.Context, limit int) ([]core.RunRecord, error) {
	query := `SELECT id::text, action, started_at, finished_at, row_count, processed, error, code
		FROM cube_runs ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := h.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	records := make([]core.RunRecord, 0)
	for rows.Next() {
		var (
			rec    core.RunRecord
			action string
		)
		if err := rows.Scan(&rec.ID, &action, &rec.StartedAt, &rec.FinishedAt,
			&rec.Rows, &rec.Processed, &rec.Error, &rec.Code); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Action = core.RunAction(action)
		rec.StartedAt = rec.StartedAt.UTC()
		rec.FinishedAt = rec.FinishedAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return records, nil
}
