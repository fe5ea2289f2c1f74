package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catchup-feed/internal/domain/entity"
)

func (s *Store) GetExistingFeedURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	out := make(map[string]bool, len(urls))
	if len(urls) == 0 {
		return out, nil
	}

	rows, err := s.cb.QueryContext(ctx, `SELECT feed_url FROM feeds WHERE feed_url = ANY($1)`, urls)
	if err != nil {
		return nil, fmt.Errorf("GetExistingFeedURLs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("GetExistingFeedURLs: scan: %w", err)
		}
		out[u] = true
	}
	return out, rows.Err()
}

func (s *Store) InsertStubFeeds(ctx context.Context, urls []string) error {
	for _, u := range urls {
		_, err := s.cb.ExecContext(ctx, `
INSERT INTO feeds (id, source_title, feed_url, last_sync_result, sync_started_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (feed_url) DO NOTHING`, newID(), u, u, entity.SyncUnexpected)
		if err != nil {
			return fmt.Errorf("InsertStubFeeds: %w", err)
		}
	}
	return nil
}

func (s *Store) CreateOpmlImportJob(ctx context.Context, urls []string, skipped map[string]bool) (*entity.OpmlImportJob, []entity.OpmlImportItem, error) {
	tx, err := s.cb.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("CreateOpmlImportJob: %w", err)
	}
	defer tx.Rollback()

	jobID := newID()
	var job entity.OpmlImportJob
	err = tx.QueryRowContext(ctx, `
INSERT INTO opml_import_jobs (id, status, total, imported, skipped, failed)
VALUES ($1, $2, $3, 0, 0, 0)
RETURNING id, status, total, imported, skipped, failed, created_at, updated_at`,
		jobID, entity.OpmlJobRunning, len(urls)).Scan(
		&job.ID, &job.Status, &job.Total, &job.Imported, &job.Skipped, &job.Failed,
		&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("CreateOpmlImportJob: %w", err)
	}

	items := make([]entity.OpmlImportItem, 0, len(urls))
	for _, u := range urls {
		status := entity.OpmlItemQueued
		if skipped[u] {
			status = entity.OpmlItemSkipped
		}
		var item entity.OpmlImportItem
		err := tx.QueryRowContext(ctx, `
INSERT INTO opml_import_items (id, job_id, feed_url, status)
VALUES ($1, $2, $3, $4)
RETURNING id, job_id, feed_url, status, error, created_at, updated_at`,
			newID(), jobID, u, status).Scan(
			&item.ID, &item.JobID, &item.FeedURL, &item.Status, &item.Error,
			&item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("CreateOpmlImportJob: item: %w", err)
		}
		items = append(items, item)
	}

	if n := len(skipped); n > 0 {
		if _, err := tx.ExecContext(ctx, `
UPDATE opml_import_jobs SET skipped = $2, updated_at = now() WHERE id = $1`, jobID, n); err != nil {
			return nil, nil, fmt.Errorf("CreateOpmlImportJob: %w", err)
		}
		job.Skipped = n
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("CreateOpmlImportJob: commit: %w", err)
	}
	return &job, items, nil
}

func (s *Store) UpdateOpmlImportItem(ctx context.Context, itemID string, status entity.OpmlImportItemStatus, errMsg *string) error {
	_, err := s.cb.ExecContext(ctx, `
UPDATE opml_import_items SET status = $2, error = $3, updated_at = now() WHERE id = $1`,
		itemID, status, errMsg)
	if err != nil {
		return fmt.Errorf("UpdateOpmlImportItem: %w", err)
	}
	return nil
}

func (s *Store) IncrementOpmlImportJobCounts(ctx context.Context, jobID string, imported, skipped, failed int) error {
	_, err := s.cb.ExecContext(ctx, `
UPDATE opml_import_jobs
SET imported = imported + $2, skipped = skipped + $3, failed = failed + $4, updated_at = now()
WHERE id = $1`, jobID, imported, skipped, failed)
	if err != nil {
		return fmt.Errorf("IncrementOpmlImportJobCounts: %w", err)
	}
	return nil
}

func (s *Store) UpdateOpmlImportJobStatus(ctx context.Context, jobID string, status entity.OpmlImportJobStatus) error {
	_, err := s.cb.ExecContext(ctx, `
UPDATE opml_import_jobs SET status = $2, updated_at = now() WHERE id = $1`, jobID, status)
	if err != nil {
		return fmt.Errorf("UpdateOpmlImportJobStatus: %w", err)
	}
	return nil
}

func (s *Store) GetOpmlImportJob(ctx context.Context, jobID string) (*entity.OpmlImportJob, error) {
	row := s.cb.QueryRowContext(ctx, `
SELECT id, status, total, imported, skipped, failed, created_at, updated_at
FROM opml_import_jobs WHERE id = $1`, jobID)

	var job entity.OpmlImportJob
	err := row.Scan(&job.ID, &job.Status, &job.Total, &job.Imported, &job.Skipped,
		&job.Failed, &job.CreatedAt, &job.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetOpmlImportJob: %w", err)
	}
	return &job, nil
}

func (s *Store) GetOpmlImportRecentItems(ctx context.Context, jobID string, n int) ([]entity.OpmlImportItem, error) {
	rows, err := s.cb.QueryContext(ctx, `
SELECT id, job_id, feed_url, status, error, created_at, updated_at
FROM opml_import_items
WHERE job_id = $1
ORDER BY updated_at DESC
LIMIT $2`, jobID, n)
	if err != nil {
		return nil, fmt.Errorf("GetOpmlImportRecentItems: %w", err)
	}
	defer rows.Close()

	var out []entity.OpmlImportItem
	for rows.Next() {
		var item entity.OpmlImportItem
		if err := rows.Scan(&item.ID, &item.JobID, &item.FeedURL, &item.Status,
			&item.Error, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("GetOpmlImportRecentItems: scan: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
