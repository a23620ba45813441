// Package database stores workbook sheets and run history in PostgreSQL.
package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/JonMunkholm/PauperCube/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pool from cfg and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Name returns the database name from a connection URL, or "" when the URL
// does not parse. Used for logging without exposing credentials.
func Name(connURL string) string {
	u, err := url.Parse(connURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

// schema creates the sheet and run tables. Every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS sheets (
	name       text PRIMARY KEY,
	updated_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sheet_rows (
	sheet   text    NOT NULL REFERENCES sheets(name) ON DELETE CASCADE,
	row_idx integer NOT NULL,
	cells   text[]  NOT NULL,
	PRIMARY KEY (sheet, row_idx)
);

CREATE TABLE IF NOT EXISTS cube_runs (
	id          uuid        PRIMARY KEY,
	action      text        NOT NULL,
	started_at  timestamptz NOT NULL,
	finished_at timestamptz NOT NULL,
	row_count   integer     NOT NULL DEFAULT 0,
	processed   text[]      NOT NULL DEFAULT '{}',
	error       text        NOT NULL DEFAULT '',
	code        text        NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS cube_runs_started_at_idx ON cube_runs (started_at DESC);
`

// EnsureSchema creates the tables the store and history need.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
