// Package repository defines the storage layer's capability surface: the
// one set of operations every implementation (the relational one and the
// in-memory test double) must provide. Callers depend on this interface,
// never on a concrete implementation.
package repository

import (
	"context"
	"time"

	"catchup-feed/internal/common/cursor"
	"catchup-feed/internal/domain/entity"
)

// QueryFilters narrows the global entry query.
type QueryFilters struct {
	FeedID  *string
	Query   *string
	Unread  bool
	Starred bool
	Start   *time.Time
	End     *time.Time
	Sort    cursor.SortOrder
}

// Storage is the full capability surface the feed aggregator's core
// depends on.
type Storage interface {
	// Feeds
	ListFeeds(ctx context.Context) ([]entity.FeedWithCounts, error)
	GetFeed(ctx context.Context, id string) (*entity.FeedWithCounts, error)
	GetFeedByURL(ctx context.Context, feedURL string) (*entity.Feed, error)
	UpdateFeed(ctx context.Context, id string, userTitle *string, feedURL string, siteURL *string) (*entity.FeedWithCounts, error)
	DeleteFeed(ctx context.Context, id string) (bool, error)
	GetFeedIcon(ctx context.Context, feedID string) (*entity.Icon, error)

	// Sync claim
	GetFeedsToSync(ctx context.Context, threshold time.Time, limit int) ([]entity.FeedToSync, error)
	GetOneFeedToSync(ctx context.Context, id string) (*entity.FeedToSync, error)
	ReleaseClaim(ctx context.Context, feedID string, result entity.SyncResult) error

	// Upsert (§4.8)
	UpsertFeedAndEntriesAndIcon(ctx context.Context, feed entity.NewFeed, entries []entity.NewEntry, icon *entity.NewIcon) (feedID string, err error)

	// Entries (§4.9)
	GetFeedEntries(ctx context.Context, feedID string, params cursor.Params) (cursor.Page[entity.EntryForList], error)
	QueryEntries(ctx context.Context, filters QueryFilters, params cursor.Params) (cursor.Page[entity.EntryForQueryList], error)
	SetEntryRead(ctx context.Context, entryID string, read bool) error

	// OPML (§4.7)
	GetExistingFeedURLs(ctx context.Context, urls []string) (map[string]bool, error)
	InsertStubFeeds(ctx context.Context, urls []string) error
	CreateOpmlImportJob(ctx context.Context, urls []string, skipped map[string]bool) (*entity.OpmlImportJob, []entity.OpmlImportItem, error)
	UpdateOpmlImportItem(ctx context.Context, itemID string, status entity.OpmlImportItemStatus, errMsg *string) error
	IncrementOpmlImportJobCounts(ctx context.Context, jobID string, imported, skipped, failed int) error
	UpdateOpmlImportJobStatus(ctx context.Context, jobID string, status entity.OpmlImportJobStatus) error
	GetOpmlImportJob(ctx context.Context, jobID string) (*entity.OpmlImportJob, error)
	GetOpmlImportRecentItems(ctx context.Context, jobID string, n int) ([]entity.OpmlImportItem, error)
}
