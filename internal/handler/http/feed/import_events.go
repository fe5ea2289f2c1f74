package feed

import (
	"log/slog"
	"net/http"

	"catchup-feed/internal/handler/http/pathutil"
	"catchup-feed/internal/handler/http/respond"
	"catchup-feed/internal/opml"
	"catchup-feed/internal/repository"
)

// ImportEventsHandler handles GET /api/v1/feeds/import/{job_id}/events: an
// SSE stream of the import job's progress.
type ImportEventsHandler struct {
	Storage repository.Storage
	Logger  *slog.Logger
}

func (h ImportEventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathutil.ID(r.PathValue("job_id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}

	if err := opml.StreamProgress(r.Context(), w, h.Storage, jobID); err != nil {
		h.Logger.Error("opml progress stream failed", slog.String("job_id", jobID), slog.Any("error", err))
	}
}
