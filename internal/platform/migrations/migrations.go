// Package migrations holds the catalogue schema and applies it.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

// Execer is satisfied by *sql.DB, *sql.Tx and *sqlx.DB.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// statements are idempotent and run in order.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS catalog_assets (
		seq             BIGSERIAL,
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL CHECK (title <> ''),
		description     TEXT NOT NULL DEFAULT '',
		category        TEXT NOT NULL DEFAULT '',
		file_formats    TEXT NOT NULL DEFAULT '',
		engines         TEXT[] NOT NULL DEFAULT '{}',
		engine          TEXT NOT NULL DEFAULT '',
		tags            TEXT[] NOT NULL DEFAULT '{}',
		source_store    TEXT NOT NULL DEFAULT '',
		external_url    TEXT NOT NULL DEFAULT '',
		price           DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (price >= 0),
		thumbnail       TEXT NOT NULL DEFAULT '',
		file_url        TEXT NOT NULL DEFAULT '',
		created_by      TEXT NOT NULL,
		downloads       BIGINT NOT NULL DEFAULT 0 CHECK (downloads >= 0),
		rating          DOUBLE PRECISION NOT NULL DEFAULT 0,
		ratings_count   BIGINT NOT NULL DEFAULT 0,
		search_document TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS catalog_assets_seq_idx ON catalog_assets (seq)`,
	`CREATE INDEX IF NOT EXISTS catalog_assets_search_idx ON catalog_assets USING GIN (to_tsvector('simple', search_document))`,
	`CREATE INDEX IF NOT EXISTS catalog_assets_category_idx ON catalog_assets (category)`,
	`CREATE INDEX IF NOT EXISTS catalog_assets_created_by_idx ON catalog_assets (created_by, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS catalog_assets_engines_idx ON catalog_assets USING GIN (engines)`,
}

// Count reports the number of statements Apply executes.
func Count() int {
	return len(statements)
}

// Apply executes every schema statement.
func Apply(ctx context.Context, db Execer) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
