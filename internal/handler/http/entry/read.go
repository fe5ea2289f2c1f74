package entry

import (
	"encoding/json"
	"net/http"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/handler/http/pathutil"
	"catchup-feed/internal/handler/http/respond"
	"catchup-feed/internal/repository"
)

// ReadRequest is the JSON body of POST /api/v1/entries/{id}/read.
type ReadRequest struct {
	Read bool `json:"read"`
}

// ReadHandler handles POST /api/v1/entries/{id}/read.
type ReadHandler struct {
	Storage repository.Storage
}

func (h ReadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}

	var req ReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, entity.NewAppError(entity.KindBadRequest, "invalid request body", err))
		return
	}

	if err := h.Storage.SetEntryRead(r.Context(), id, req.Read); err != nil {
		respond.AppErrorResponse(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
