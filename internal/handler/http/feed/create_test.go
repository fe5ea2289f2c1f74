package feed_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"catchup-feed/internal/handler/http/feed"
	"catchup-feed/internal/infra/adapter/persistence/memory"
)

func TestCreateHandler_MissingURL(t *testing.T) {
	store := memory.New()
	h := feed.CreateHandler{Storage: store, Logger: testLogger()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feeds", nil)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCreateHandler_SimilarFeedWithoutForce(t *testing.T) {
	store := memory.New()
	seedFeed(t, store, "https://example.com/feed.xml", "Example Feed")

	h := feed.CreateHandler{Storage: store, Logger: testLogger()}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feeds?url=https://example.com/feed.xml", nil)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp feed.AddFeedResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "similar_feed" {
		t.Errorf("Status = %q, want %q", resp.Status, "similar_feed")
	}
}
