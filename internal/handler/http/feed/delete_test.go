package feed_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"catchup-feed/internal/handler/http/feed"
	"catchup-feed/internal/infra/adapter/persistence/memory"
)

func TestDeleteHandler_Success(t *testing.T) {
	store := memory.New()
	id := seedFeed(t, store, "https://example.com/feed.xml", "Example Feed")

	h := feed.DeleteHandler{Storage: store}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/feeds/"+id, nil)
	req.SetPathValue("id", id)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNoContent)
	}

	get := feed.GetHandler{Storage: store}
	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/feeds/"+id, nil)
	req2.SetPathValue("id", id)
	rr2 := httptest.NewRecorder()
	get.ServeHTTP(rr2, req2)
	if rr2.Code != http.StatusNotFound {
		t.Errorf("after delete, GET status = %d, want %d", rr2.Code, http.StatusNotFound)
	}
}

func TestDeleteHandler_NotFound(t *testing.T) {
	store := memory.New()
	h := feed.DeleteHandler{Storage: store}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/feeds/missing", nil)
	req.SetPathValue("id", "missing")
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDeleteHandler_EmptyID(t *testing.T) {
	store := memory.New()
	h := feed.DeleteHandler{Storage: store}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/feeds/", nil)
	req.SetPathValue("id", "")
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
