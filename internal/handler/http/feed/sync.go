package feed

import (
	"log/slog"
	"net/http"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/feedloader"
	"catchup-feed/internal/feedloader/synctag"
	"catchup-feed/internal/handler/http/pathutil"
	"catchup-feed/internal/handler/http/respond"
	"catchup-feed/internal/repository"
)

// SyncHandler handles POST /api/v1/feeds/{id}/sync: a manual, synchronous
// run of exactly the same load-classify-upsert-release sequence the
// background scheduler performs on its tick.
type SyncHandler struct {
	Storage repository.Storage
	Loader  *feedloader.Loader
	Logger  *slog.Logger
}

func (h SyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	claimed, err := h.Storage.GetOneFeedToSync(ctx, id)
	if err != nil {
		respond.AppErrorResponse(w, err)
		return
	}
	if claimed == nil {
		respond.Error(w, http.StatusNotFound, entity.ErrNotFound)
		return
	}

	outcome, loadErr := h.Loader.LoadFeed(ctx, claimed.FeedURL, claimed.HTTPETag, claimed.HTTPLastModified)
	result := synctag.Classify(outcome, loadErr)

	if loadErr == nil {
		if loaded, ok := outcome.(feedloader.Loaded); ok {
			if _, upsertErr := h.Storage.UpsertFeedAndEntriesAndIcon(ctx, loaded.Feed.Feed, loaded.Feed.Entries, loaded.Feed.Icon); upsertErr != nil {
				h.Logger.Error("upsert after manual sync failed", slog.String("feed_id", id), slog.Any("error", upsertErr))
				result = synctag.ClassifyDbError()
			}
		}
	}

	if err := h.Storage.ReleaseClaim(ctx, id, result); err != nil {
		respond.AppErrorResponse(w, err)
		return
	}

	updated, err := h.Storage.GetFeed(ctx, id)
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
