package feed

import (
	"net/http"

	"catchup-feed/internal/handler/http/respond"
	"catchup-feed/internal/repository"
)

// ListHandler handles GET /api/v1/feeds.
type ListHandler struct {
	Storage repository.Storage
}

// @Summary      フィード一覧取得
// @Tags         feeds
// @Produce      json
// @Success      200 {array} DTO
// @Router       /api/v1/feeds [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	feeds, err := h.Storage.ListFeeds(r.Context())
	if err != nil {
		respond.AppErrorResponse(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(feeds))
}
