package opml

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"catchup-feed/internal/repository"
)

const (
	progressTick = 800 * time.Millisecond
	keepAlive    = 10 * time.Second
)

type progressItem struct {
	FeedURL string  `json:"feed_url"`
	Status  string  `json:"status"`
	Error   *string `json:"error,omitempty"`
}

type progressEvent struct {
	JobID    string         `json:"job_id"`
	Status   string         `json:"status"`
	Total    int            `json:"total"`
	Imported int            `json:"imported"`
	Skipped  int            `json:"skipped"`
	Failed   int            `json:"failed"`
	Done     bool           `json:"done"`
	Recent   []progressItem `json:"recent"`
}

// StreamProgress writes Server-Sent Events for one job's progress every
// 800ms, with a 10s keep-alive comment, until the job reaches a terminal
// count (imported+skipped+failed >= total) or the client disconnects.
func StreamProgress(ctx context.Context, w http.ResponseWriter, storage repository.Storage, jobID string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(progressTick)
	defer ticker.Stop()
	keepAliveTicker := time.NewTicker(keepAlive)
	defer keepAliveTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-keepAliveTicker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-ticker.C:
			ev, done, err := buildProgressEvent(ctx, storage, jobID)
			if err != nil {
				ev = progressEvent{JobID: jobID, Status: "failed", Done: true,
					Recent: []progressItem{{Status: "failed", Error: errString(err)}}}
				done = true
			}

			payload, _ := json.Marshal(ev)
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()

			if done {
				return nil
			}
		}
	}
}

func errString(err error) *string {
	s := err.Error()
	return &s
}

func buildProgressEvent(ctx context.Context, storage repository.Storage, jobID string) (progressEvent, bool, error) {
	job, err := storage.GetOpmlImportJob(ctx, jobID)
	if err != nil {
		return progressEvent{}, false, err
	}
	if job == nil {
		return progressEvent{}, false, fmt.Errorf("import job not found")
	}

	recentItems, err := storage.GetOpmlImportRecentItems(ctx, jobID, 10)
	if err != nil {
		return progressEvent{}, false, err
	}

	recent := make([]progressItem, 0, len(recentItems))
	for _, item := range recentItems {
		recent = append(recent, progressItem{FeedURL: item.FeedURL, Status: string(item.Status), Error: item.Error})
	}

	done := job.Done()
	return progressEvent{
		JobID:    job.ID,
		Status:   string(job.Status),
		Total:    job.Total,
		Imported: job.Imported,
		Skipped:  job.Skipped,
		Failed:   job.Failed,
		Done:     done,
		Recent:   recent,
	}, done, nil
}
