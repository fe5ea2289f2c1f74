package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"catchup-feed/internal/domain/entity"
)

const feedWithCountsSelect = `
SELECT
	f.id, f.source_title, f.user_title, f.feed_url, f.site_url,
	f.created_at, f.updated_at, f.last_synced_at, f.sync_started_at,
	f.last_sync_result, f.http_etag, f.http_last_modified,
	COUNT(e.id) FILTER (WHERE e.id IS NOT NULL) AS entry_count,
	COUNT(e.id) FILTER (WHERE e.id IS NOT NULL AND e.read_at IS NULL) AS unread_count,
	EXISTS (SELECT 1 FROM feed_icons fi WHERE fi.feed_id = f.id) AS has_icon
FROM feeds f
LEFT JOIN entries e ON e.feed_id = f.id
`

func scanFeedWithCounts(row *sql.Row) (*entity.FeedWithCounts, error) {
	var f entity.FeedWithCounts
	err := row.Scan(
		&f.ID, &f.SourceTitle, &f.UserTitle, &f.FeedURL, &f.SiteURL,
		&f.CreatedAt, &f.UpdatedAt, &f.LastSyncedAt, &f.SyncStartedAt,
		&f.LastSyncResult, &f.HTTPETag, &f.HTTPLastModified,
		&f.EntryCount, &f.UnreadEntryCount, &f.HasIcon,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Store) ListFeeds(ctx context.Context) ([]entity.FeedWithCounts, error) {
	query := feedWithCountsSelect + " GROUP BY f.id ORDER BY f.source_title ASC"
	rows, err := s.cb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListFeeds: %w", err)
	}
	defer rows.Close()

	var out []entity.FeedWithCounts
	for rows.Next() {
		var f entity.FeedWithCounts
		if err := rows.Scan(
			&f.ID, &f.SourceTitle, &f.UserTitle, &f.FeedURL, &f.SiteURL,
			&f.CreatedAt, &f.UpdatedAt, &f.LastSyncedAt, &f.SyncStartedAt,
			&f.LastSyncResult, &f.HTTPETag, &f.HTTPLastModified,
			&f.EntryCount, &f.UnreadEntryCount, &f.HasIcon,
		); err != nil {
			return nil, fmt.Errorf("ListFeeds: scan: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListFeeds: %w", err)
	}
	return out, nil
}

func (s *Store) GetFeed(ctx context.Context, id string) (*entity.FeedWithCounts, error) {
	query := feedWithCountsSelect + " WHERE f.id = $1 GROUP BY f.id"
	row := s.cb.QueryRowContext(ctx, query, id)
	f, err := scanFeedWithCounts(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetFeed: %w", err)
	}
	return f, nil
}

func (s *Store) GetFeedByURL(ctx context.Context, feedURL string) (*entity.Feed, error) {
	const query = `
SELECT id, source_title, user_title, feed_url, site_url, created_at, updated_at,
	last_synced_at, sync_started_at, last_sync_result, http_etag, http_last_modified
FROM feeds WHERE feed_url = $1`
	row := s.cb.QueryRowContext(ctx, query, feedURL)

	var f entity.Feed
	err := row.Scan(
		&f.ID, &f.SourceTitle, &f.UserTitle, &f.FeedURL, &f.SiteURL,
		&f.CreatedAt, &f.UpdatedAt, &f.LastSyncedAt, &f.SyncStartedAt,
		&f.LastSyncResult, &f.HTTPETag, &f.HTTPLastModified,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetFeedByURL: %w", err)
	}
	return &f, nil
}

func (s *Store) UpdateFeed(ctx context.Context, id string, userTitle *string, feedURL string, siteURL *string) (*entity.FeedWithCounts, error) {
	const query = `
UPDATE feeds SET user_title = $2, feed_url = $3, site_url = $4, updated_at = now()
WHERE id = $1`
	res, err := s.cb.ExecContext(ctx, query, id, userTitle, feedURL, siteURL)
	if err != nil {
		return nil, fmt.Errorf("UpdateFeed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("UpdateFeed: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetFeed(ctx, id)
}

func (s *Store) DeleteFeed(ctx context.Context, id string) (bool, error) {
	res, err := s.cb.ExecContext(ctx, `DELETE FROM feeds WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("DeleteFeed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("DeleteFeed: %w", err)
	}
	return n > 0, nil
}

func (s *Store) GetFeedIcon(ctx context.Context, feedID string) (*entity.Icon, error) {
	const query = `
SELECT i.id, i.hash, i.data, i.content_type
FROM icons i
JOIN feed_icons fi ON fi.icon_id = i.id
WHERE fi.feed_id = $1`
	row := s.cb.QueryRowContext(ctx, query, feedID)

	var icon entity.Icon
	err := row.Scan(&icon.ID, &icon.Hash, &icon.Data, &icon.ContentType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetFeedIcon: %w", err)
	}
	return &icon, nil
}

// GetFeedsToSync claims up to limit feeds that are due: never synced, or
// last synced before threshold, or whose claim has gone stale (claimed more
// than 5 minutes ago with no result recorded). FOR UPDATE SKIP LOCKED lets
// concurrent schedulers (or overlapping ticks) divide the work without
// blocking on each other's rows.
func (s *Store) GetFeedsToSync(ctx context.Context, threshold time.Time, limit int) ([]entity.FeedToSync, error) {
	const query = `
WITH due AS (
	SELECT id FROM feeds
	WHERE last_sync_result <> 'parse_error'
	  AND ((sync_started_at IS NULL AND (last_synced_at IS NULL OR last_synced_at < $1))
	   OR (sync_started_at IS NOT NULL AND sync_started_at < $2))
	ORDER BY last_synced_at ASC NULLS FIRST
	LIMIT $3
	FOR UPDATE SKIP LOCKED
)
UPDATE feeds SET sync_started_at = now()
FROM due WHERE feeds.id = due.id
RETURNING feeds.id, feeds.feed_url, feeds.http_etag, feeds.http_last_modified`

	staleThreshold := time.Now().Add(-5 * time.Minute)
	rows, err := s.cb.QueryContext(ctx, query, threshold, staleThreshold, limit)
	if err != nil {
		return nil, fmt.Errorf("GetFeedsToSync: %w", err)
	}
	defer rows.Close()

	var out []entity.FeedToSync
	for rows.Next() {
		var f entity.FeedToSync
		if err := rows.Scan(&f.ID, &f.FeedURL, &f.HTTPETag, &f.HTTPLastModified); err != nil {
			return nil, fmt.Errorf("GetFeedsToSync: scan: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetFeedsToSync: %w", err)
	}
	return out, nil
}

func (s *Store) GetOneFeedToSync(ctx context.Context, id string) (*entity.FeedToSync, error) {
	const query = `
UPDATE feeds SET sync_started_at = now()
WHERE id = $1
RETURNING id, feed_url, http_etag, http_last_modified`
	row := s.cb.QueryRowContext(ctx, query, id)

	var f entity.FeedToSync
	err := row.Scan(&f.ID, &f.FeedURL, &f.HTTPETag, &f.HTTPLastModified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetOneFeedToSync: %w", err)
	}
	return &f, nil
}

func (s *Store) ReleaseClaim(ctx context.Context, feedID string, result entity.SyncResult) error {
	const query = `
UPDATE feeds SET sync_started_at = NULL, last_synced_at = now(), last_sync_result = $2
WHERE id = $1`
	if _, err := s.cb.ExecContext(ctx, query, feedID, result); err != nil {
		return fmt.Errorf("ReleaseClaim: %w", err)
	}
	return nil
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
