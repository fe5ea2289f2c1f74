package feed

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/handler/http/respond"
	"catchup-feed/internal/opml"
)

// ImportHandler handles POST /api/v1/feeds/import: a multipart OPML
// upload capped at opml.MaxUploadBytes.
type ImportHandler struct {
	Coordinator *opml.Coordinator
	Logger      *slog.Logger
}

func (h ImportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, opml.MaxUploadBytes)

	var (
		file multipart.File
		err  error
	)
	for _, field := range []string{"file", "opml"} {
		if file, _, err = r.FormFile(field); err == nil {
			break
		}
	}
	if err != nil {
		respond.Error(w, http.StatusBadRequest, entity.NewAppError(entity.KindBadRequest, "multipart file is required", err))
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, entity.NewAppError(entity.KindBadRequest, "upload too large or unreadable", err))
		return
	}

	urls, err := opml.ExtractFeedURLs(body)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, entity.NewAppError(entity.KindBadRequest, "malformed OPML", err))
		return
	}

	job, err := h.Coordinator.StartImport(r.Context(), urls)
	if err != nil {
		respond.AppErrorResponse(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, ImportResponse{
		Status:  string(job.Status),
		JobID:   job.ID,
		Total:   job.Total,
		Skipped: job.Skipped,
	})
}
