package entity

import "time"

// Entry is one item in a feed (an RSS item or Atom entry). Uniqueness is
// (FeedID, URL); entries are never re-keyed once created.
type Entry struct {
	ID             string
	FeedID         string
	Title          string
	URL            string
	CommentsURL    *string
	PublishedAt    *time.Time
	EntryUpdatedAt *time.Time
	ReadAt         *time.Time
	StarredAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SortKey is the coalesced timestamp cursor pagination orders on:
// coalesce(published_at, entry_updated_at, created_at).
func (e *Entry) SortKey() time.Time {
	if e.PublishedAt != nil {
		return *e.PublishedAt
	}
	if e.EntryUpdatedAt != nil {
		return *e.EntryUpdatedAt
	}
	return e.CreatedAt
}

// NewEntry is the write-side shape the loader produces per parsed item.
type NewEntry struct {
	Title          string
	URL            string
	CommentsURL    *string
	PublishedAt    *time.Time
	EntryUpdatedAt *time.Time
}

// EntryForList is the shape returned by feed-scoped entry pagination.
type EntryForList struct {
	Entry
}

// EntryForQueryList is the shape returned by the global entry query; it
// additionally carries the owning feed's identity for display.
type EntryForQueryList struct {
	Entry
	FeedTitle string
	FeedURL   string
}
