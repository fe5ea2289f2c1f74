package feed

import (
	"log/slog"
	"net/http"
	"strconv"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/feedloader"
	"catchup-feed/internal/feedloader/synctag"
	"catchup-feed/internal/handler/http/respond"
	"catchup-feed/internal/repository"
)

// CreateHandler handles POST /api/v1/feeds?url=&force_similar_feed=.
type CreateHandler struct {
	Storage repository.Storage
	Loader  *feedloader.Loader
	Logger  *slog.Logger
}

// ServeHTTP 登録済みフィードと同一URLなら force_similar_feed=true が無い限り
// similar_feed を返し、追加は行わない。
//
// @Summary      フィード追加
// @Description  URLをロードし、成功すれば登録する
// @Tags         feeds
// @Produce      json
// @Param        url query string true "フィードまたはサイトのURL"
// @Param        force_similar_feed query bool false "既存フィードと同一URLでも追加する"
// @Success      200 {object} AddFeedResponse
// @Failure      400 {object} map[string]string
// @Router       /api/v1/feeds [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		respond.Error(w, http.StatusBadRequest, entity.NewAppError(entity.KindBadRequest, "url is required", nil))
		return
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("force_similar_feed"))

	ctx := r.Context()

	if !force {
		if existing, err := h.Storage.GetFeedByURL(ctx, rawURL); err == nil && existing != nil {
			respond.JSON(w, http.StatusOK, AddFeedResponse{Status: "similar_feed"})
			return
		}
	}

	outcome, err := h.Loader.LoadFeed(ctx, rawURL, nil, nil)
	if err != nil {
		tag := string(synctag.Classify(nil, err))
		msg := err.Error()
		respond.JSON(w, http.StatusOK, AddFeedResponse{Status: tag, Error: &msg})
		return
	}

	switch o := outcome.(type) {
	case feedloader.Loaded:
		feedID, err := h.Storage.UpsertFeedAndEntriesAndIcon(ctx, o.Feed.Feed, o.Feed.Entries, o.Feed.Icon)
		if err != nil {
			h.Logger.Error("upsert after add feed failed", slog.String("url", rawURL), slog.Any("error", err))
			respond.AppErrorResponse(w, err)
			return
		}
		saved, err := h.Storage.GetFeed(ctx, feedID)
		if err != nil {
			respond.AppErrorResponse(w, err)
			return
		}
		dto := toDTO(saved)
		respond.JSON(w, http.StatusOK, AddFeedResponse{Status: "feed_added", Feed: &dto})
	case feedloader.NeedsChoice:
		respond.JSON(w, http.StatusOK, AddFeedResponse{Status: "discovered_multiple", Candidates: o.Candidates})
	default:
		tag := string(synctag.Classify(outcome, nil))
		respond.JSON(w, http.StatusOK, AddFeedResponse{Status: tag})
	}
}
