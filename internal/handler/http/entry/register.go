package entry

import (
	"net/http"

	"catchup-feed/internal/repository"
)

// Register registers the entry routes that are not feed-scoped: the
// global cursor query and read-state toggling.
func Register(mux *http.ServeMux, storage repository.Storage) {
	mux.Handle("GET /api/v1/entries", QueryHandler{Storage: storage})
	mux.Handle("POST /api/v1/entries/{id}/read", ReadHandler{Storage: storage})
}
