package feed

import (
	"net/http"
	"strconv"

	"catchup-feed/internal/common/cursor"
	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/handler/http/entry"
	"catchup-feed/internal/handler/http/pathutil"
	"catchup-feed/internal/handler/http/respond"
	"catchup-feed/internal/repository"
)

// EntriesHandler handles GET /api/v1/feeds/{id}/entries?left=&right=&limit=.
type EntriesHandler struct {
	Storage repository.Storage
}

func (h EntriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	params, err := cursor.ParseParams(q.Get("left"), q.Get("right"), limit, cursor.Newest)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, entity.NewAppError(entity.KindBadRequest, err.Error(), err))
		return
	}

	page, err := h.Storage.GetFeedEntries(r.Context(), id, params)
	if err != nil {
		respond.AppErrorResponse(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, entry.ListPageDTO(page))
}
