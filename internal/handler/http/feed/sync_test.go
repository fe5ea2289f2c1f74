package feed_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"catchup-feed/internal/handler/http/feed"
	"catchup-feed/internal/infra/adapter/persistence/memory"
)

func TestSyncHandler_UnknownFeed(t *testing.T) {
	store := memory.New()
	h := feed.SyncHandler{Storage: store}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feeds/missing/sync", nil)
	req.SetPathValue("id", "missing")
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestSyncHandler_EmptyID(t *testing.T) {
	store := memory.New()
	h := feed.SyncHandler{Storage: store}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feeds//sync", nil)
	req.SetPathValue("id", "")
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
