package entry_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"catchup-feed/internal/common/cursor"
	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/handler/http/entry"
	"catchup-feed/internal/infra/adapter/persistence/memory"
)

func TestQueryHandler_ReturnsAllEntriesAcrossFeeds(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	if _, err := store.UpsertFeedAndEntriesAndIcon(ctx, entity.NewFeed{SourceTitle: "A", FeedURL: "https://a.example.com/feed.xml"},
		[]entity.NewEntry{{Title: "A1", URL: "https://a.example.com/1"}}, nil); err != nil {
		t.Fatalf("seed A: %v", err)
	}
	if _, err := store.UpsertFeedAndEntriesAndIcon(ctx, entity.NewFeed{SourceTitle: "B", FeedURL: "https://b.example.com/feed.xml"},
		[]entity.NewEntry{{Title: "B1", URL: "https://b.example.com/1"}}, nil); err != nil {
		t.Fatalf("seed B: %v", err)
	}

	h := entry.QueryHandler{Storage: store}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	var page entry.PageDTO[entry.QueryDTO]
	if err := json.NewDecoder(rr.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("len(page.Items) = %d, want 2", len(page.Items))
	}
}

func TestQueryHandler_FilterByQuery(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	if _, err := store.UpsertFeedAndEntriesAndIcon(ctx, entity.NewFeed{SourceTitle: "A", FeedURL: "https://a.example.com/feed.xml"},
		[]entity.NewEntry{
			{Title: "Golang release notes", URL: "https://a.example.com/1"},
			{Title: "Unrelated post", URL: "https://a.example.com/2"},
		}, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	h := entry.QueryHandler{Storage: store}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/entries?query=golang", nil)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	var page entry.PageDTO[entry.QueryDTO]
	if err := json.NewDecoder(rr.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("len(page.Items) = %d, want 1", len(page.Items))
	}
	if page.Items[0].Title != "Golang release notes" {
		t.Errorf("Title = %q, want %q", page.Items[0].Title, "Golang release notes")
	}
}

func TestQueryHandler_InvalidCursorParams(t *testing.T) {
	store := memory.New()
	h := entry.QueryHandler{Storage: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/entries?left=a&right=b", nil)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestQueryHandler_UnreadFilter(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	feedID, err := store.UpsertFeedAndEntriesAndIcon(ctx, entity.NewFeed{SourceTitle: "A", FeedURL: "https://a.example.com/feed.xml"},
		[]entity.NewEntry{
			{Title: "Read me", URL: "https://a.example.com/1"},
			{Title: "Unread me", URL: "https://a.example.com/2"},
		}, nil)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	page, err := store.GetFeedEntries(ctx, feedID, cursor.Params{Limit: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var readID string
	for _, item := range page.Items {
		if item.Title == "Read me" {
			readID = item.ID
		}
	}
	if err := store.SetEntryRead(ctx, readID, true); err != nil {
		t.Fatalf("set read: %v", err)
	}

	h := entry.QueryHandler{Storage: store}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/entries?unread=true", nil)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	var resultPage entry.PageDTO[entry.QueryDTO]
	if err := json.NewDecoder(rr.Body).Decode(&resultPage); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resultPage.Items) != 1 {
		t.Fatalf("len(resultPage.Items) = %d, want 1", len(resultPage.Items))
	}
	if resultPage.Items[0].Title != "Unread me" {
		t.Errorf("Title = %q, want %q", resultPage.Items[0].Title, "Unread me")
	}
}
