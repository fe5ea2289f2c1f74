package feed

import (
	"encoding/json"
	"net/http"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/handler/http/pathutil"
	"catchup-feed/internal/handler/http/respond"
	"catchup-feed/internal/repository"
)

// UpdateHandler handles PUT /api/v1/feeds/{id}.
type UpdateHandler struct {
	Storage repository.Storage
}

// @Summary      フィード更新
// @Tags         feeds
// @Accept       json
// @Produce      json
// @Param        id path string true "フィードID"
// @Param        body body UpdateFeedRequest true "更新内容"
// @Success      200 {object} DTO
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /api/v1/feeds/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}

	var req UpdateFeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, entity.NewAppError(entity.KindBadRequest, "invalid request body", err))
		return
	}
	if req.FeedURL == "" {
		respond.Error(w, http.StatusBadRequest, entity.NewAppError(entity.KindBadRequest, "feed_url is required", nil))
		return
	}

	updated, err := h.Storage.UpdateFeed(r.Context(), id, req.UserTitle, req.FeedURL, req.SiteURL)
	if err != nil {
		respond.AppErrorResponse(w, err)
		return
	}
	if updated == nil {
		respond.Error(w, http.StatusNotFound, entity.ErrNotFound)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(updated))
}
