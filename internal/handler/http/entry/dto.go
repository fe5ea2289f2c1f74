// Package entry provides HTTP handlers for entry-related endpoints: the
// global cursor query and read-state toggling. The feed-scoped entry list
// lives under the feed package but shares this package's DTOs.
package entry

import (
	"time"

	"catchup-feed/internal/common/cursor"
	"catchup-feed/internal/domain/entity"
)

// DTO is the JSON shape of one entry within a single feed's list.
type DTO struct {
	ID             string     `json:"id"`
	FeedID         string     `json:"feed_id"`
	Title          string     `json:"title"`
	URL            string     `json:"url"`
	CommentsURL    *string    `json:"comments_url"`
	PublishedAt    *time.Time `json:"published_at"`
	EntryUpdatedAt *time.Time `json:"entry_updated_at"`
	Read           bool       `json:"read"`
	Starred        bool       `json:"starred"`
	CreatedAt      time.Time  `json:"created_at"`
}

// QueryDTO is the JSON shape of one entry within the global cross-feed
// query, additionally carrying the owning feed's identity.
type QueryDTO struct {
	DTO
	FeedTitle string `json:"feed_title"`
	FeedURL   string `json:"feed_url"`
}

// PageDTO is the JSON shape of one page of cursor-paginated results.
type PageDTO[T any] struct {
	Items   []T     `json:"items"`
	NextID  *string `json:"next_id"`
	PrevID  *string `json:"prev_id"`
	HasMore bool    `json:"has_more"`
}

func toDTO(e *entity.Entry) DTO {
	return DTO{
		ID:             e.ID,
		FeedID:         e.FeedID,
		Title:          e.Title,
		URL:            e.URL,
		CommentsURL:    e.CommentsURL,
		PublishedAt:    e.PublishedAt,
		EntryUpdatedAt: e.EntryUpdatedAt,
		Read:           e.ReadAt != nil,
		Starred:        e.StarredAt != nil,
		CreatedAt:      e.CreatedAt,
	}
}

// ListPageDTO converts a feed-scoped entry page to its JSON shape.
func ListPageDTO(page cursor.Page[entity.EntryForList]) PageDTO[DTO] {
	items := make([]DTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toDTO(&page.Items[i].Entry))
	}
	return PageDTO[DTO]{Items: items, NextID: page.NextID, PrevID: page.PrevID, HasMore: page.HasMore}
}

// QueryPageDTO converts a global entry query page to its JSON shape.
func QueryPageDTO(page cursor.Page[entity.EntryForQueryList]) PageDTO[QueryDTO] {
	items := make([]QueryDTO, 0, len(page.Items))
	for i := range page.Items {
		row := &page.Items[i]
		items = append(items, QueryDTO{DTO: toDTO(&row.Entry), FeedTitle: row.FeedTitle, FeedURL: row.FeedURL})
	}
	return PageDTO[QueryDTO]{Items: items, NextID: page.NextID, PrevID: page.PrevID, HasMore: page.HasMore}
}
