// Package entity defines the core domain entities of the feed aggregator:
// Feed, Entry, Icon, and the OPML import job/item pair.
package entity

import "time"

// SyncResult is one of the fixed tags a sync attempt can leave on a Feed.
// These strings are the only authorized values of Feed.LastSyncResult.
type SyncResult string

const (
	SyncSuccess        SyncResult = "success"
	SyncNotModified     SyncResult = "not_modified"
	SyncNeedsChoice     SyncResult = "needs_choice"
	SyncNotFound        SyncResult = "not_found"
	SyncDisallowed      SyncResult = "disallowed"
	SyncParseError      SyncResult = "parse_error"
	SyncUnexpectedHTML  SyncResult = "unexpected_html"
	SyncInvalidURL      SyncResult = "invalid_url"
	SyncFetchError      SyncResult = "fetch_error"
	SyncUnexpected      SyncResult = "unexpected"
	SyncDbError         SyncResult = "db_error"
)

// Feed is a remote syndication document and its aggregator-side metadata.
type Feed struct {
	ID               string
	SourceTitle      string
	UserTitle        *string
	FeedURL          string
	SiteURL          *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	LastSyncedAt     *time.Time
	SyncStartedAt    *time.Time
	LastSyncResult   SyncResult
	HTTPETag         *string
	HTTPLastModified *string
}

// Title returns the effective display title: the operator override when
// present, otherwise the title the remote feed itself reports.
func (f *Feed) Title() string {
	if f.UserTitle != nil && *f.UserTitle != "" {
		return *f.UserTitle
	}
	return f.SourceTitle
}

// Claimed reports whether a worker currently holds this feed's sync claim.
func (f *Feed) Claimed() bool {
	return f.SyncStartedAt != nil
}

// FeedWithCounts decorates a Feed with entry statistics for list/get responses.
type FeedWithCounts struct {
	Feed
	EntryCount       int64
	UnreadEntryCount int64
	HasIcon          bool
}

// FeedToSync is the row shape returned by a sync-claim query.
type FeedToSync struct {
	ID               string
	FeedURL          string
	HTTPETag         *string
	HTTPLastModified *string
}

// NewFeed is the write-side shape the loader hands to the storage layer.
type NewFeed struct {
	SourceTitle      string
	FeedURL          string
	SiteURL          *string
	HTTPETag         *string
	HTTPLastModified *string
}
