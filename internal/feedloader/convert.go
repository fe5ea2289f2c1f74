package feedloader

import (
	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/feedloader/feedparse"
)

func toNewFeed(parsed *feedparse.ParsedFeed, feedURL string) entity.NewFeed {
	return entity.NewFeed{
		SourceTitle: parsed.Title,
		FeedURL:     feedURL,
		SiteURL:     parsed.SiteURL,
	}
}

func toNewEntries(entries []feedparse.Entry) []entity.NewEntry {
	out := make([]entity.NewEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, entity.NewEntry{
			Title:          e.Title,
			URL:            e.URL,
			CommentsURL:    e.CommentsURL,
			PublishedAt:    e.PublishedAt,
			EntryUpdatedAt: e.EntryUpdatedAt,
		})
	}
	return out
}
