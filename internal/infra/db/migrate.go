package db

import (
	"database/sql"
)

// MigrateUp creates the feed aggregator schema if it does not already
// exist. Statements are idempotent (IF NOT EXISTS) so this can run safely
// on every process start.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS feeds (
    id                  TEXT PRIMARY KEY,
    source_title        TEXT NOT NULL,
    user_title          TEXT,
    feed_url            TEXT NOT NULL UNIQUE,
    site_url            TEXT,
    http_etag           TEXT,
    http_last_modified  TEXT,
    sync_started_at     TIMESTAMPTZ,
    last_synced_at      TIMESTAMPTZ,
    last_sync_result    TEXT NOT NULL DEFAULT 'unexpected',
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS entries (
    id                TEXT PRIMARY KEY,
    feed_id           TEXT NOT NULL REFERENCES feeds(id) ON DELETE CASCADE,
    title             TEXT NOT NULL,
    url               TEXT NOT NULL,
    comments_url      TEXT,
    published_at      TIMESTAMPTZ,
    entry_updated_at  TIMESTAMPTZ,
    read_at           TIMESTAMPTZ,
    starred_at        TIMESTAMPTZ,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (feed_id, url)
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS icons (
    id           TEXT PRIMARY KEY,
    hash         TEXT NOT NULL UNIQUE,
    data         BYTEA NOT NULL,
    content_type TEXT NOT NULL
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS feed_icons (
    feed_id TEXT PRIMARY KEY REFERENCES feeds(id) ON DELETE CASCADE,
    icon_id TEXT NOT NULL REFERENCES icons(id) ON DELETE CASCADE
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS opml_import_jobs (
    id         TEXT PRIMARY KEY,
    status     TEXT NOT NULL DEFAULT 'running',
    total      INT NOT NULL DEFAULT 0,
    imported   INT NOT NULL DEFAULT 0,
    skipped    INT NOT NULL DEFAULT 0,
    failed     INT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS opml_import_items (
    id         TEXT PRIMARY KEY,
    job_id     TEXT NOT NULL REFERENCES opml_import_jobs(id) ON DELETE CASCADE,
    feed_url   TEXT NOT NULL,
    status     TEXT NOT NULL DEFAULT 'queued',
    error      TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		// entry pagination sorts on coalesce(published_at, entry_updated_at, created_at)
		`CREATE INDEX IF NOT EXISTS idx_entries_feed_sort ON entries(feed_id, published_at DESC, entry_updated_at DESC, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_unread ON entries(feed_id) WHERE read_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_entries_starred ON entries(feed_id) WHERE starred_at IS NOT NULL`,
		// sync claim scan
		`CREATE INDEX IF NOT EXISTS idx_feeds_last_synced_at ON feeds(last_synced_at ASC NULLS FIRST)`,
		`CREATE INDEX IF NOT EXISTS idx_opml_items_job_id ON opml_import_items(job_id)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Full-text/substring search over entry titles; pg_trgm lets QueryEntries'
	// ILIKE filter use a GIN index instead of a sequential scan.
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	_, _ = db.Exec(`CREATE INDEX IF NOT EXISTS idx_entries_title_gin ON entries USING gin(title gin_trgm_ops)`)

	return nil
}

// MigrateDown drops the feed aggregator schema. Use with caution: this
// deletes all data.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS opml_import_items CASCADE`,
		`DROP TABLE IF EXISTS opml_import_jobs CASCADE`,
		`DROP TABLE IF EXISTS feed_icons CASCADE`,
		`DROP TABLE IF EXISTS icons CASCADE`,
		`DROP TABLE IF EXISTS entries CASCADE`,
		`DROP TABLE IF EXISTS feeds CASCADE`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
