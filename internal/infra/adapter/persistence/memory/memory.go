// Package memory is an in-memory repository.Storage implementation used
// by handler, usecase, and loader tests so they never need a live
// Postgres instance. Per the polymorphic-storage design, it satisfies
// the exact same interface the Postgres-backed Store does.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"catchup-feed/internal/common/cursor"
	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/repository"
)

type Store struct {
	mu sync.Mutex

	feeds      map[string]*entity.Feed
	entries    map[string]*entity.Entry
	icons      map[string]*entity.Icon
	feedIcons  map[string]string // feedID -> iconID
	jobs       map[string]*entity.OpmlImportJob
	items      map[string]*entity.OpmlImportItem
	idSeq      int
}

func New() *Store {
	return &Store{
		feeds:     make(map[string]*entity.Feed),
		entries:   make(map[string]*entity.Entry),
		icons:     make(map[string]*entity.Icon),
		feedIcons: make(map[string]string),
		jobs:      make(map[string]*entity.OpmlImportJob),
		items:     make(map[string]*entity.OpmlImportItem),
	}
}

var _ repository.Storage = (*Store)(nil)

func (s *Store) nextID(prefix string) string {
	s.idSeq++
	return prefix + "-" + itoa(s.idSeq)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func (s *Store) withCounts(f *entity.Feed) entity.FeedWithCounts {
	var entryCount, unread int64
	for _, e := range s.entries {
		if e.FeedID != f.ID {
			continue
		}
		entryCount++
		if e.ReadAt == nil {
			unread++
		}
	}
	_, hasIcon := s.feedIcons[f.ID]
	return entity.FeedWithCounts{Feed: *f, EntryCount: entryCount, UnreadEntryCount: unread, HasIcon: hasIcon}
}

func (s *Store) ListFeeds(ctx context.Context) ([]entity.FeedWithCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.FeedWithCounts, 0, len(s.feeds))
	for _, f := range s.feeds {
		out = append(out, s.withCounts(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceTitle < out[j].SourceTitle })
	return out, nil
}

func (s *Store) GetFeed(ctx context.Context, id string) (*entity.FeedWithCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.feeds[id]
	if !ok {
		return nil, nil
	}
	c := s.withCounts(f)
	return &c, nil
}

func (s *Store) GetFeedByURL(ctx context.Context, feedURL string) (*entity.Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.feeds {
		if f.FeedURL == feedURL {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateFeed(ctx context.Context, id string, userTitle *string, feedURL string, siteURL *string) (*entity.FeedWithCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.feeds[id]
	if !ok {
		return nil, nil
	}
	f.UserTitle = userTitle
	f.FeedURL = feedURL
	f.SiteURL = siteURL
	f.UpdatedAt = time.Now()
	c := s.withCounts(f)
	return &c, nil
}

func (s *Store) DeleteFeed(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.feeds[id]; !ok {
		return false, nil
	}
	delete(s.feeds, id)
	delete(s.feedIcons, id)
	for eid, e := range s.entries {
		if e.FeedID == id {
			delete(s.entries, eid)
		}
	}
	return true, nil
}

func (s *Store) GetFeedIcon(ctx context.Context, feedID string) (*entity.Icon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	iconID, ok := s.feedIcons[feedID]
	if !ok {
		return nil, nil
	}
	icon := s.icons[iconID]
	if icon == nil {
		return nil, nil
	}
	cp := *icon
	return &cp, nil
}

func (s *Store) GetFeedsToSync(ctx context.Context, threshold time.Time, limit int) ([]entity.FeedToSync, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staleThreshold := time.Now().Add(-5 * time.Minute)
	var out []entity.FeedToSync
	for _, f := range s.feeds {
		if f.LastSyncResult == entity.SyncParseError {
			continue
		}
		due := f.SyncStartedAt == nil && (f.LastSyncedAt == nil || f.LastSyncedAt.Before(threshold))
		stale := f.SyncStartedAt != nil && f.SyncStartedAt.Before(staleThreshold)
		if !due && !stale {
			continue
		}
		if len(out) >= limit {
			break
		}
		now := time.Now()
		f.SyncStartedAt = &now
		out = append(out, entity.FeedToSync{ID: f.ID, FeedURL: f.FeedURL, HTTPETag: f.HTTPETag, HTTPLastModified: f.HTTPLastModified})
	}
	return out, nil
}

func (s *Store) GetOneFeedToSync(ctx context.Context, id string) (*entity.FeedToSync, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.feeds[id]
	if !ok {
		return nil, nil
	}
	now := time.Now()
	f.SyncStartedAt = &now
	return &entity.FeedToSync{ID: f.ID, FeedURL: f.FeedURL, HTTPETag: f.HTTPETag, HTTPLastModified: f.HTTPLastModified}, nil
}

func (s *Store) ReleaseClaim(ctx context.Context, feedID string, result entity.SyncResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.feeds[feedID]
	if !ok {
		return entity.ErrNotFound
	}
	f.SyncStartedAt = nil
	now := time.Now()
	f.LastSyncedAt = &now
	f.LastSyncResult = result
	return nil
}

func (s *Store) UpsertFeedAndEntriesAndIcon(ctx context.Context, feed entity.NewFeed, entries []entity.NewEntry, icon *entity.NewIcon) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var f *entity.Feed
	for _, existing := range s.feeds {
		if existing.FeedURL == feed.FeedURL {
			f = existing
			break
		}
	}
	now := time.Now()
	if f == nil {
		f = &entity.Feed{ID: s.nextID("feed"), CreatedAt: now}
		s.feeds[f.ID] = f
	}
	f.SourceTitle = feed.SourceTitle
	f.SiteURL = feed.SiteURL
	f.HTTPETag = feed.HTTPETag
	f.HTTPLastModified = feed.HTTPLastModified
	f.SyncStartedAt = nil
	f.LastSyncedAt = &now
	f.LastSyncResult = entity.SyncSuccess
	f.UpdatedAt = now

	seen := make(map[string]bool, len(entries))
	for _, ne := range entries {
		if seen[ne.URL] {
			continue
		}
		seen[ne.URL] = true

		var existing *entity.Entry
		for _, e := range s.entries {
			if e.FeedID == f.ID && e.URL == ne.URL {
				existing = e
				break
			}
		}
		if existing == nil {
			existing = &entity.Entry{ID: s.nextID("entry"), FeedID: f.ID, URL: ne.URL, CreatedAt: now}
			s.entries[existing.ID] = existing
		}
		existing.Title = ne.Title
		existing.CommentsURL = ne.CommentsURL
		existing.PublishedAt = ne.PublishedAt
		existing.EntryUpdatedAt = ne.EntryUpdatedAt
		existing.UpdatedAt = now
	}

	if icon != nil {
		var iconRow *entity.Icon
		for _, ic := range s.icons {
			if ic.Hash == icon.Hash {
				iconRow = ic
				break
			}
		}
		if iconRow == nil {
			iconRow = &entity.Icon{ID: s.nextID("icon"), Hash: icon.Hash, Data: icon.Data, ContentType: icon.ContentType}
			s.icons[iconRow.ID] = iconRow
		}
		s.feedIcons[f.ID] = iconRow.ID
	}

	return f.ID, nil
}

func sortKey(e *entity.Entry) time.Time {
	if e.PublishedAt != nil {
		return *e.PublishedAt
	}
	if e.EntryUpdatedAt != nil {
		return *e.EntryUpdatedAt
	}
	return e.CreatedAt
}

func (s *Store) paginate(rows []*entity.Entry, params cursor.Params) (page []*entity.Entry, hasMore bool) {
	newestFirst := params.Sort == cursor.Newest
	sort.Slice(rows, func(i, j int) bool {
		if newestFirst {
			return sortKey(rows[i]).After(sortKey(rows[j])) || (sortKey(rows[i]).Equal(sortKey(rows[j])) && rows[i].ID > rows[j].ID)
		}
		return sortKey(rows[i]).Before(sortKey(rows[j])) || (sortKey(rows[i]).Equal(sortKey(rows[j])) && rows[i].ID < rows[j].ID)
	})

	if params.Cursor != nil {
		idx := -1
		for i, r := range rows {
			if r.ID == params.Cursor.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, false
		}
		if params.Cursor.Dir == cursor.Right {
			rows = rows[idx+1:]
		} else {
			rows = rows[:idx]
			// reverse so limit+1 trims the nearest rows to the cursor
			for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
				rows[i], rows[j] = rows[j], rows[i]
			}
		}
	}

	hasMore = len(rows) > params.Limit
	if hasMore {
		rows = rows[:params.Limit]
	}
	if params.Cursor != nil && params.Cursor.Dir == cursor.Left {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	return rows, hasMore
}

func (s *Store) GetFeedEntries(ctx context.Context, feedID string, params cursor.Params) (cursor.Page[entity.EntryForList], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []*entity.Entry
	for _, e := range s.entries {
		if e.FeedID == feedID {
			rows = append(rows, e)
		}
	}
	page, hasMore := s.paginate(rows, params)

	items := make([]entity.EntryForList, 0, len(page))
	for _, e := range page {
		items = append(items, entity.EntryForList{Entry: *e})
	}
	nextID, prevID := cursor.Derive(items, func(e entity.EntryForList) string { return e.ID }, params.Cursor, hasMore)
	return cursor.Page[entity.EntryForList]{Items: items, NextID: nextID, PrevID: prevID, HasMore: hasMore}, nil
}

func (s *Store) QueryEntries(ctx context.Context, filters repository.QueryFilters, params cursor.Params) (cursor.Page[entity.EntryForQueryList], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []*entity.Entry
	for _, e := range s.entries {
		if filters.FeedID != nil && e.FeedID != *filters.FeedID {
			continue
		}
		if filters.Query != nil && *filters.Query != "" {
			q := strings.ToLower(*filters.Query)
			if !strings.Contains(strings.ToLower(e.Title), q) && !strings.Contains(strings.ToLower(e.URL), q) {
				continue
			}
		}
		if filters.Unread && e.ReadAt != nil {
			continue
		}
		if filters.Starred && e.StarredAt == nil {
			continue
		}
		key := sortKey(e)
		if filters.Start != nil && key.Before(*filters.Start) {
			continue
		}
		if filters.End != nil && key.After(*filters.End) {
			continue
		}
		rows = append(rows, e)
	}
	page, hasMore := s.paginate(rows, params)

	items := make([]entity.EntryForQueryList, 0, len(page))
	for _, e := range page {
		f := s.feeds[e.FeedID]
		title, url := "", ""
		if f != nil {
			title, url = f.Title(), f.FeedURL
		}
		items = append(items, entity.EntryForQueryList{Entry: *e, FeedTitle: title, FeedURL: url})
	}
	nextID, prevID := cursor.Derive(items, func(e entity.EntryForQueryList) string { return e.ID }, params.Cursor, hasMore)
	return cursor.Page[entity.EntryForQueryList]{Items: items, NextID: nextID, PrevID: prevID, HasMore: hasMore}, nil
}

func (s *Store) SetEntryRead(ctx context.Context, entryID string, read bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[entryID]
	if !ok {
		return entity.ErrNotFound
	}
	if read {
		now := time.Now()
		e.ReadAt = &now
	} else {
		e.ReadAt = nil
	}
	e.UpdatedAt = time.Now()
	return nil
}

func (s *Store) GetExistingFeedURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]bool, len(urls))
	want := make(map[string]bool, len(urls))
	for _, u := range urls {
		want[u] = true
	}
	for _, f := range s.feeds {
		if want[f.FeedURL] {
			out[f.FeedURL] = true
		}
	}
	return out, nil
}

func (s *Store) InsertStubFeeds(ctx context.Context, urls []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range urls {
		exists := false
		for _, f := range s.feeds {
			if f.FeedURL == u {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		now := time.Now()
		f := &entity.Feed{ID: s.nextID("feed"), SourceTitle: u, FeedURL: u, CreatedAt: now, UpdatedAt: now, SyncStartedAt: &now, LastSyncResult: entity.SyncUnexpected}
		s.feeds[f.ID] = f
	}
	return nil
}

func (s *Store) CreateOpmlImportJob(ctx context.Context, urls []string, skipped map[string]bool) (*entity.OpmlImportJob, []entity.OpmlImportItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	job := &entity.OpmlImportJob{ID: s.nextID("job"), Status: entity.OpmlJobRunning, Total: len(urls), CreatedAt: now, UpdatedAt: now}
	s.jobs[job.ID] = job

	var items []entity.OpmlImportItem
	for _, u := range urls {
		status := entity.OpmlItemQueued
		if skipped[u] {
			status = entity.OpmlItemSkipped
			job.Skipped++
		}
		item := &entity.OpmlImportItem{ID: s.nextID("item"), JobID: job.ID, FeedURL: u, Status: status, CreatedAt: now, UpdatedAt: now}
		s.items[item.ID] = item
		items = append(items, *item)
	}
	return job, items, nil
}

func (s *Store) UpdateOpmlImportItem(ctx context.Context, itemID string, status entity.OpmlImportItemStatus, errMsg *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return entity.ErrNotFound
	}
	item.Status = status
	item.Error = errMsg
	item.UpdatedAt = time.Now()
	return nil
}

func (s *Store) IncrementOpmlImportJobCounts(ctx context.Context, jobID string, imported, skipped, failed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return entity.ErrNotFound
	}
	job.Imported += imported
	job.Skipped += skipped
	job.Failed += failed
	job.UpdatedAt = time.Now()
	return nil
}

func (s *Store) UpdateOpmlImportJobStatus(ctx context.Context, jobID string, status entity.OpmlImportJobStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return entity.ErrNotFound
	}
	job.Status = status
	job.UpdatedAt = time.Now()
	return nil
}

func (s *Store) GetOpmlImportJob(ctx context.Context, jobID string) (*entity.OpmlImportJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, nil
	}
	cp := *job
	return &cp, nil
}

func (s *Store) GetOpmlImportRecentItems(ctx context.Context, jobID string, n int) ([]entity.OpmlImportItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.OpmlImportItem
	for _, item := range s.items {
		if item.JobID == jobID {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}
