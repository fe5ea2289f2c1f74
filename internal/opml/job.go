package opml

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/feedloader"
	"catchup-feed/internal/observability/metrics"
	"catchup-feed/internal/repository"
)

const importConcurrency = 5

// Coordinator runs bulk OPML imports: it splits incoming URLs against
// feeds that already exist, records a job/item row per candidate, and
// fetches the new ones in a bounded-concurrency detached goroutine.
type Coordinator struct {
	storage repository.Storage
	loader  *feedloader.Loader
	logger  *slog.Logger
}

func NewCoordinator(storage repository.Storage, loader *feedloader.Loader, logger *slog.Logger) *Coordinator {
	return &Coordinator{storage: storage, loader: loader, logger: logger}
}

// StartImport records the job and kicks off the background worker. It
// returns as soon as bookkeeping is in place; the worker continues after
// this function returns.
func (c *Coordinator) StartImport(ctx context.Context, urls []string) (*entity.OpmlImportJob, error) {
	existing, err := c.storage.GetExistingFeedURLs(ctx, urls)
	if err != nil {
		return nil, err
	}

	job, items, err := c.storage.CreateOpmlImportJob(ctx, urls, existing)
	if err != nil {
		return nil, err
	}

	itemIDs := make(map[string]string, len(items))
	for _, item := range items {
		itemIDs[item.FeedURL] = item.ID
	}

	var toProcess []string
	for _, u := range urls {
		if !existing[u] {
			toProcess = append(toProcess, u)
		}
	}

	if err := c.storage.InsertStubFeeds(ctx, toProcess); err != nil {
		return nil, err
	}

	go c.run(context.WithoutCancel(ctx), job.ID, toProcess, itemIDs)

	return job, nil
}

// run is the detached worker; it outlives the HTTP request that started
// it, so it must never depend on the request's context being live.
func (c *Coordinator) run(ctx context.Context, jobID string, urls []string, itemIDs map[string]string) {
	if len(urls) == 0 {
		if err := c.storage.UpdateOpmlImportJobStatus(ctx, jobID, entity.OpmlJobImported); err != nil {
			c.logger.Error("opml job status update failed", slog.String("job_id", jobID), slog.Any("error", err))
		}
		metrics.RecordOpmlImportJob(string(entity.OpmlJobImported))
		return
	}

	sem := make(chan struct{}, importConcurrency)
	eg, egCtx := errgroup.WithContext(ctx)

	for _, u := range urls {
		u := u
		itemID, ok := itemIDs[u]
		if !ok {
			c.logger.Error("opml item id missing for url", slog.String("job_id", jobID), slog.String("url", u))
			continue
		}
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			c.importOne(egCtx, jobID, u, itemID)
			return nil
		})
	}
	_ = eg.Wait()

	if err := c.storage.UpdateOpmlImportJobStatus(ctx, jobID, entity.OpmlJobImported); err != nil {
		c.logger.Error("opml job status update failed", slog.String("job_id", jobID), slog.Any("error", err))
	}
	metrics.RecordOpmlImportJob(string(entity.OpmlJobImported))
}

func (c *Coordinator) importOne(ctx context.Context, jobID, feedURL, itemID string) {
	if err := c.markItem(ctx, itemID, entity.OpmlItemRunning, nil); err != nil {
		c.logger.Error("opml item update failed", slog.String("job_id", jobID), slog.String("url", feedURL), slog.Any("error", err))
	}

	outcome, err := c.loader.LoadSelectedFeed(ctx, feedURL, nil, nil)
	if err != nil {
		c.fail(ctx, jobID, feedURL, itemID, err.Error())
		return
	}
	if outcome == nil {
		c.fail(ctx, jobID, feedURL, itemID, "not_modified")
		return
	}

	if _, err := c.storage.UpsertFeedAndEntriesAndIcon(ctx, outcome.Feed, outcome.Entries, outcome.Icon); err != nil {
		c.fail(ctx, jobID, feedURL, itemID, err.Error())
		return
	}

	if err := c.markItem(ctx, itemID, entity.OpmlItemImported, nil); err != nil {
		c.logger.Error("opml item update failed", slog.String("job_id", jobID), slog.String("url", feedURL), slog.Any("error", err))
	}
	if err := c.storage.IncrementOpmlImportJobCounts(ctx, jobID, 1, 0, 0); err != nil {
		c.logger.Error("opml job counts update failed", slog.String("job_id", jobID), slog.Any("error", err))
	}
	metrics.RecordOpmlImportItem("imported")
}

func (c *Coordinator) fail(ctx context.Context, jobID, feedURL, itemID, reason string) {
	if err := c.markItem(ctx, itemID, entity.OpmlItemFailed, &reason); err != nil {
		c.logger.Error("opml item update failed", slog.String("job_id", jobID), slog.String("url", feedURL), slog.Any("error", err))
	}
	if err := c.storage.IncrementOpmlImportJobCounts(ctx, jobID, 0, 0, 1); err != nil {
		c.logger.Error("opml job counts update failed", slog.String("job_id", jobID), slog.Any("error", err))
	}
	metrics.RecordOpmlImportItem("failed")
}

// markItem updates the item the worker was handed directly by id, the
// same id CreateOpmlImportJob returned for it up front.
func (c *Coordinator) markItem(ctx context.Context, itemID string, status entity.OpmlImportItemStatus, errMsg *string) error {
	return c.storage.UpdateOpmlImportItem(ctx, itemID, status, errMsg)
}
