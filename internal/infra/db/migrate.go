package db

import (
	"database/sql"
	"fmt"
)

// MigrateUp applies the schema for the given dialect. Statements are
// idempotent so every pipeline stage can run it at startup.
func MigrateUp(conn *sql.DB, dialect Dialect) error {
	var statements []string
	switch dialect {
	case DialectPostgres:
		statements = postgresSchema
	case DialectSQLite:
		statements = sqliteSchema
	default:
		return fmt.Errorf("MigrateUp: unknown dialect %q", dialect)
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("MigrateUp: %w", err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sources (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    source_url    TEXT NOT NULL UNIQUE,
    feed_url      TEXT,
    type          TEXT NOT NULL,
    active        INTEGER NOT NULL DEFAULT 1,
    last_fetch_at TIMESTAMP,
    etag          TEXT,
    last_modified TEXT
)`,
	`CREATE TABLE IF NOT EXISTS items (
    id           INTEGER PRIMARY KEY,
    source_id    INTEGER NOT NULL REFERENCES sources(id),
    title        TEXT NOT NULL,
    url          TEXT NOT NULL,
    guid         TEXT,
    published_at TIMESTAMP,
    fetched_at   TIMESTAMP NOT NULL,
    content_text TEXT,
    url_hash     TEXT NOT NULL UNIQUE,
    status       TEXT NOT NULL DEFAULT 'new',
    summary_json TEXT,
    model_used   TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_items_status ON items(status)`,
	`CREATE INDEX IF NOT EXISTS idx_items_published_at ON items(published_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sources_active ON sources(active)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS sources (
    id            BIGSERIAL PRIMARY KEY,
    name          TEXT NOT NULL,
    source_url    TEXT NOT NULL UNIQUE,
    feed_url      TEXT,
    type          TEXT NOT NULL,
    active        BOOLEAN NOT NULL DEFAULT TRUE,
    last_fetch_at TIMESTAMPTZ,
    etag          TEXT,
    last_modified TEXT
)`,
	`CREATE TABLE IF NOT EXISTS items (
    id           BIGSERIAL PRIMARY KEY,
    source_id    BIGINT NOT NULL REFERENCES sources(id),
    title        TEXT NOT NULL,
    url          TEXT NOT NULL,
    guid         TEXT,
    published_at TIMESTAMPTZ,
    fetched_at   TIMESTAMPTZ NOT NULL,
    content_text TEXT,
    url_hash     TEXT NOT NULL UNIQUE,
    status       TEXT NOT NULL DEFAULT 'new',
    summary_json TEXT,
    model_used   TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_items_status ON items(status)`,
	`CREATE INDEX IF NOT EXISTS idx_items_published_at ON items(published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_sources_active ON sources(active) WHERE active = TRUE`,
}
