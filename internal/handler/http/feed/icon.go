package feed

import (
	"net/http"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/handler/http/pathutil"
	"catchup-feed/internal/handler/http/respond"
	"catchup-feed/internal/repository"
)

// IconHandler handles GET /api/v1/feeds/{id}/icon.
type IconHandler struct {
	Storage repository.Storage
}

func (h IconHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}

	icon, err := h.Storage.GetFeedIcon(r.Context(), id)
	if err != nil {
		respond.AppErrorResponse(w, err)
		return
	}
	if icon == nil {
		respond.Error(w, http.StatusNotFound, entity.ErrNotFound)
		return
	}

	w.Header().Set("Content-Type", icon.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(icon.Data)
}
