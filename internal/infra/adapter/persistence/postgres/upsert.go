package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"catchup-feed/internal/domain/entity"
)

// UpsertFeedAndEntriesAndIcon persists one successful sync atomically: the
// feed row (keyed on feed_url), every parsed entry (keyed on feed_id+url,
// first occurrence wins on duplicate URLs within the same batch), and the
// resolved favicon if any. All three either land together or not at all,
// so a crash mid-sync can never leave entries without their owning feed
// row committed.
func (s *Store) UpsertFeedAndEntriesAndIcon(ctx context.Context, feed entity.NewFeed, entries []entity.NewEntry, icon *entity.NewIcon) (string, error) {
	tx, err := s.cb.DB().BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("UpsertFeedAndEntriesAndIcon: begin: %w", err)
	}
	defer tx.Rollback()

	feedID, err := upsertFeed(ctx, tx, feed)
	if err != nil {
		return "", fmt.Errorf("UpsertFeedAndEntriesAndIcon: %w", err)
	}

	if err := upsertEntries(ctx, tx, feedID, entries); err != nil {
		return "", fmt.Errorf("UpsertFeedAndEntriesAndIcon: %w", err)
	}

	if icon != nil {
		if _, err := upsertIcon(ctx, tx, icon.Hash, icon.Data, icon.ContentType, feedID); err != nil {
			return "", fmt.Errorf("UpsertFeedAndEntriesAndIcon: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("UpsertFeedAndEntriesAndIcon: commit: %w", err)
	}
	return feedID, nil
}

func upsertFeed(ctx context.Context, tx *sql.Tx, feed entity.NewFeed) (string, error) {
	var feedID string
	err := tx.QueryRowContext(ctx, `
INSERT INTO feeds (id, source_title, feed_url, site_url, http_etag, http_last_modified,
	sync_started_at, last_synced_at, last_sync_result)
VALUES ($1, $2, $3, $4, $5, $6, NULL, now(), $7)
ON CONFLICT (feed_url) DO UPDATE SET
	source_title = EXCLUDED.source_title,
	site_url = EXCLUDED.site_url,
	http_etag = EXCLUDED.http_etag,
	http_last_modified = EXCLUDED.http_last_modified,
	sync_started_at = NULL,
	last_synced_at = now(),
	last_sync_result = EXCLUDED.last_sync_result,
	updated_at = now()
RETURNING id`,
		newID(), feed.SourceTitle, feed.FeedURL, feed.SiteURL,
		feed.HTTPETag, feed.HTTPLastModified, entity.SyncSuccess,
	).Scan(&feedID)
	if err != nil {
		return "", fmt.Errorf("upsertFeed: %w", err)
	}
	return feedID, nil
}

// upsertEntries dedups entries by URL within the batch (first occurrence
// wins, matching how a feed's own item list is rarely meant to contain
// true duplicates) before upserting on (feed_id, url).
func upsertEntries(ctx context.Context, tx *sql.Tx, feedID string, entries []entity.NewEntry) error {
	if len(entries) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(entries))
	deduped := make([]entity.NewEntry, 0, len(entries))
	for _, e := range entries {
		if seen[e.URL] {
			continue
		}
		seen[e.URL] = true
		deduped = append(deduped, e)
	}

	const stmt = `
INSERT INTO entries (id, feed_id, title, url, comments_url, published_at, entry_updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (feed_id, url) DO UPDATE SET
	title = EXCLUDED.title,
	comments_url = EXCLUDED.comments_url,
	published_at = EXCLUDED.published_at,
	entry_updated_at = EXCLUDED.entry_updated_at,
	updated_at = now()`

	for _, e := range deduped {
		if _, err := tx.ExecContext(ctx, stmt,
			newID(), feedID, e.Title, e.URL, e.CommentsURL, e.PublishedAt, e.EntryUpdatedAt,
		); err != nil {
			return fmt.Errorf("upsertEntries: %w", err)
		}
	}
	return nil
}
