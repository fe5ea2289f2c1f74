package feed

import (
	"net/http"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/handler/http/pathutil"
	"catchup-feed/internal/handler/http/respond"
	"catchup-feed/internal/repository"
)

// GetHandler handles GET /api/v1/feeds/{id}.
type GetHandler struct {
	Storage repository.Storage
}

// @Summary      フィード詳細取得
// @Tags         feeds
// @Produce      json
// @Param        id path string true "フィードID"
// @Success      200 {object} DTO
// @Failure      404 {object} map[string]string
// @Router       /api/v1/feeds/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}

	f, err := h.Storage.GetFeed(r.Context(), id)
	if err != nil {
		respond.AppErrorResponse(w, err)
		return
	}
	if f == nil {
		respond.Error(w, http.StatusNotFound, entity.ErrNotFound)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(f))
}
