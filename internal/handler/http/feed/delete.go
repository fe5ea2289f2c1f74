package feed

import (
	"net/http"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/handler/http/pathutil"
	"catchup-feed/internal/handler/http/respond"
	"catchup-feed/internal/repository"
)

// DeleteHandler handles DELETE /api/v1/feeds/{id}.
type DeleteHandler struct {
	Storage repository.Storage
}

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}

	found, err := h.Storage.DeleteFeed(r.Context(), id)
	if err != nil {
		respond.AppErrorResponse(w, err)
		return
	}
	if !found {
		respond.Error(w, http.StatusNotFound, entity.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
