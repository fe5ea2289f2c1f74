package feed_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"catchup-feed/internal/handler/http/feed"
	"catchup-feed/internal/infra/adapter/persistence/memory"
)

func TestListHandler_Empty(t *testing.T) {
	store := memory.New()
	h := feed.ListHandler{Storage: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/feeds", nil)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	var dtos []feed.DTO
	if err := json.NewDecoder(rr.Body).Decode(&dtos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(dtos) != 0 {
		t.Errorf("len(dtos) = %d, want 0", len(dtos))
	}
}

func TestListHandler_ReturnsAllFeeds(t *testing.T) {
	store := memory.New()
	seedFeed(t, store, "https://a.example.com/feed.xml", "Feed A")
	seedFeed(t, store, "https://b.example.com/feed.xml", "Feed B")

	h := feed.ListHandler{Storage: store}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/feeds", nil)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	var dtos []feed.DTO
	if err := json.NewDecoder(rr.Body).Decode(&dtos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(dtos) != 2 {
		t.Fatalf("len(dtos) = %d, want 2", len(dtos))
	}
}
