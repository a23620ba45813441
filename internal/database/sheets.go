package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/PauperCube/internal/sheet"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore keeps sheets in the sheets and sheet_rows tables, one text[] per
// row. It implements sheet.Store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore returns a store backed by pool. Call EnsureSchema first.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// Open returns a handle for the named sheet.
func (s *PgStore) Open(name string) sheet.Sheet {
	return &pgSheet{pool: s.pool, name: name}
}

type pgSheet struct {
	pool *pgxpool.Pool
	name string
}

func (p *pgSheet) Name() string { return p.name }

// Read returns the sheet rows in order. A sheet that was never written is
// sheet.ErrSheetNotFound.
func (p *pgSheet) Read(ctx context.Context) (sheet.Table, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sheets WHERE name = $1)`, p.name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", p.name, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, p.name)
	}

	rows, err := p.pool.Query(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = $1 ORDER BY row_idx`, p.name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", p.name, err)
	}
	defer rows.Close()

	t := make(sheet.Table, 0)
	for rows.Next() {
		var cells []string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("scan sheet %q row %d: %w", p.name, len(t), err)
		}
		t = append(t, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", p.name, err)
	}
	return t, nil
}

// Write replaces every row of the sheet inside one transaction.
func (p *pgSheet) Write(ctx context.Context, t sheet.Table) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	_, err = tx.Exec(ctx, `
		INSERT INTO sheets (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET updated_at = now()`, p.name)
	if err != nil {
		return fmt.Errorf("write sheet %q: %w", p.name, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM sheet_rows WHERE sheet = $1`, p.name); err != nil {
		return fmt.Errorf("clear sheet %q: %w", p.name, err)
	}

	width := t.Width()
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"sheet_rows"},
		[]string{"sheet", "row_idx", "cells"},
		pgx.CopyFromSlice(len(t), func(i int) ([]any, error) {
			cells := make([]string, width)
			copy(cells, t[i])
			return []any{p.name, int32(i), cells}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy sheet %q rows: %w", p.name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Import copies every named sheet from src into the store, overwriting
// sheets with the same name. Sheets missing from src are skipped and
// reported.
func (s *PgStore) Import(ctx context.Context, src sheet.Store, names ...string) (skipped []string, err error) {
	for _, name := range names {
		t, err := src.Open(name).Read(ctx)
		if err != nil {
			if errors.Is(err, sheet.ErrSheetNotFound) {
				skipped = append(skipped, name)
				continue
			}
			return skipped, err
		}
		if err := s.Open(name).Write(ctx, t); err != nil {
			return skipped, err
		}
	}
	return skipped, nil
}
