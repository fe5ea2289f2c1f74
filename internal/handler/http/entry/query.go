package entry

import (
	"net/http"
	"strconv"
	"time"

	"catchup-feed/internal/common/cursor"
	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/handler/http/respond"
	"catchup-feed/internal/repository"
)

// QueryHandler handles GET /api/v1/entries?left&right&limit&query&feed_id&unread&starred&start&end&sort.
type QueryHandler struct {
	Storage repository.Storage
}

func (h QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sort := cursor.Newest
	if q.Get("sort") == "oldest" {
		sort = cursor.Oldest
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	params, err := cursor.ParseParams(q.Get("left"), q.Get("right"), limit, sort)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, entity.NewAppError(entity.KindBadRequest, err.Error(), err))
		return
	}

	filters := repository.QueryFilters{
		Unread:  q.Has("unread") && q.Get("unread") != "false",
		Starred: q.Has("starred") && q.Get("starred") != "false",
		Sort:    sort,
	}
	if v := q.Get("feed_id"); v != "" {
		filters.FeedID = &v
	}
	if v := q.Get("query"); v != "" {
		filters.Query = &v
	}
	if v := q.Get("start"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.Start = &t
		}
	}
	if v := q.Get("end"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.End = &t
		}
	}

	page, err := h.Storage.QueryEntries(r.Context(), filters, params)
	if err != nil {
		respond.AppErrorResponse(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, QueryPageDTO(page))
}
