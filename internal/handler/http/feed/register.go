package feed

import (
	"log/slog"
	"net/http"

	"catchup-feed/internal/feedloader"
	"catchup-feed/internal/opml"
	"catchup-feed/internal/repository"
)

// Register registers all feed-related HTTP handlers with the given mux,
// including the feed-scoped entry list and the OPML import endpoints.
func Register(mux *http.ServeMux, storage repository.Storage, loader *feedloader.Loader, coordinator *opml.Coordinator, logger *slog.Logger) {
	mux.Handle("POST /api/v1/feeds", CreateHandler{Storage: storage, Loader: loader, Logger: logger})
	mux.Handle("GET /api/v1/feeds", ListHandler{Storage: storage})
	mux.Handle("GET /api/v1/feeds/import/{job_id}/events", ImportEventsHandler{Storage: storage, Logger: logger})
	mux.Handle("POST /api/v1/feeds/import", ImportHandler{Coordinator: coordinator, Logger: logger})
	mux.Handle("GET /api/v1/feeds/{id}", GetHandler{Storage: storage})
	mux.Handle("PUT /api/v1/feeds/{id}", UpdateHandler{Storage: storage})
	mux.Handle("DELETE /api/v1/feeds/{id}", DeleteHandler{Storage: storage})
	mux.Handle("GET /api/v1/feeds/{id}/icon", IconHandler{Storage: storage})
	mux.Handle("GET /api/v1/feeds/{id}/entries", EntriesHandler{Storage: storage})
	mux.Handle("POST /api/v1/feeds/{id}/sync", SyncHandler{Storage: storage, Loader: loader, Logger: logger})
}
