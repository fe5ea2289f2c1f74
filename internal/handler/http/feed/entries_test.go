package feed_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/handler/http/entry"
	"catchup-feed/internal/handler/http/feed"
	"catchup-feed/internal/infra/adapter/persistence/memory"
)

func TestEntriesHandler_ReturnsFeedScopedEntries(t *testing.T) {
	store := memory.New()
	id, err := store.UpsertFeedAndEntriesAndIcon(context.Background(), entity.NewFeed{
		SourceTitle: "Example Feed",
		FeedURL:     "https://example.com/feed.xml",
	}, []entity.NewEntry{
		{Title: "First", URL: "https://example.com/1"},
		{Title: "Second", URL: "https://example.com/2"},
	}, nil)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.UpsertFeedAndEntriesAndIcon(context.Background(), entity.NewFeed{
		SourceTitle: "Other Feed",
		FeedURL:     "https://other.example.com/feed.xml",
	}, []entity.NewEntry{{Title: "Unrelated", URL: "https://other.example.com/1"}}, nil); err != nil {
		t.Fatalf("seed other: %v", err)
	}

	h := feed.EntriesHandler{Storage: store}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/feeds/"+id+"/entries", nil)
	req.SetPathValue("id", id)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	var page entry.PageDTO[entry.DTO]
	if err := json.NewDecoder(rr.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("len(page.Items) = %d, want 2", len(page.Items))
	}
	for _, item := range page.Items {
		if item.FeedID != id {
			t.Errorf("item.FeedID = %q, want %q", item.FeedID, id)
		}
	}
}

func TestEntriesHandler_EmptyID(t *testing.T) {
	store := memory.New()
	h := feed.EntriesHandler{Storage: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/feeds//entries", nil)
	req.SetPathValue("id", "")
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestEntriesHandler_InvalidCursorParams(t *testing.T) {
	store := memory.New()
	id := seedFeed(t, store, "https://example.com/feed.xml", "Example Feed")

	h := feed.EntriesHandler{Storage: store}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/feeds/"+id+"/entries?left=bogus&right=bogus", nil)
	req.SetPathValue("id", id)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
