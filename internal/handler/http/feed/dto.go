// Package feed provides HTTP handlers for feed-related endpoints: add,
// list, get, update, delete, icon, feed-scoped entries, manual sync, and
// OPML import/export.
package feed

import (
	"time"

	"catchup-feed/internal/domain/entity"
)

// DTO is the JSON shape of one feed plus its entry counts.
type DTO struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	UserTitle        *string    `json:"user_title"`
	SourceTitle      string     `json:"source_title"`
	FeedURL          string     `json:"feed_url"`
	SiteURL          *string    `json:"site_url"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	LastSyncedAt     *time.Time `json:"last_synced_at"`
	LastSyncResult   string     `json:"last_sync_result"`
	EntryCount       int64      `json:"entry_count"`
	UnreadEntryCount int64      `json:"unread_entry_count"`
	HasIcon          bool       `json:"has_icon"`
}

func toDTO(f *entity.FeedWithCounts) DTO {
	return DTO{
		ID:               f.ID,
		Title:            f.Title(),
		UserTitle:        f.UserTitle,
		SourceTitle:      f.SourceTitle,
		FeedURL:          f.FeedURL,
		SiteURL:          f.SiteURL,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
		LastSyncedAt:     f.LastSyncedAt,
		LastSyncResult:   string(f.LastSyncResult),
		EntryCount:       f.EntryCount,
		UnreadEntryCount: f.UnreadEntryCount,
		HasIcon:          f.HasIcon,
	}
}

func toDTOs(feeds []entity.FeedWithCounts) []DTO {
	out := make([]DTO, 0, len(feeds))
	for i := range feeds {
		out = append(out, toDTO(&feeds[i]))
	}
	return out
}

// AddFeedResponse is the response of POST /api/v1/feeds: exactly one of
// Feed/Candidates/Error is populated, depending on Status.
type AddFeedResponse struct {
	Status     string   `json:"status"`
	Feed       *DTO     `json:"feed,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
	Error      *string  `json:"error,omitempty"`
}

// UpdateFeedRequest is the JSON body of PUT /api/v1/feeds/{id}.
type UpdateFeedRequest struct {
	UserTitle *string `json:"user_title"`
	FeedURL   string  `json:"feed_url"`
	SiteURL   *string `json:"site_url"`
}

// ImportResponse is the response of POST /api/v1/feeds/import.
type ImportResponse struct {
	Status  string `json:"status"`
	JobID   string `json:"job_id"`
	Total   int    `json:"total"`
	Skipped int    `json:"skipped"`
}
