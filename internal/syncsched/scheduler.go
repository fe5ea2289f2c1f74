// Package syncsched runs the background sync loop: every tick, claim a
// batch of due feeds, fetch each concurrently, and persist the result.
package syncsched

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/feedloader"
	"catchup-feed/internal/feedloader/synctag"
	"catchup-feed/internal/observability/metrics"
	"catchup-feed/internal/repository"
)

const (
	tickInterval   = 60 * time.Second
	maxConcurrency = 10
	claimBatchSize = 50
	syncDueAfter   = 1 * time.Hour
)

// Scheduler drives the fixed-interval sync loop against a Storage and a
// Loader. It is deliberately built on a ticker plus an explicit shutdown
// watch rather than context cancellation alone, matching how this
// system's background worker has always signaled its own stop condition.
type Scheduler struct {
	storage  repository.Storage
	loader   *feedloader.Loader
	logger   *slog.Logger
	shutdown *ShutdownWatch
}

func New(storage repository.Storage, loader *feedloader.Loader, logger *slog.Logger) *Scheduler {
	return &Scheduler{storage: storage, loader: loader, logger: logger, shutdown: NewShutdownWatch()}
}

// Stop trips the shutdown watch; Run returns once its current tick
// finishes.
func (s *Scheduler) Stop() {
	s.shutdown.Signal()
}

// Run blocks, ticking every 60 seconds until ctx is cancelled or Stop is
// called.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	s.logger.Info("sync scheduler started", slog.Duration("interval", tickInterval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sync scheduler stopping: context cancelled")
			return
		case <-s.shutdown.Done():
			s.logger.Info("sync scheduler stopping: shutdown signaled")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	threshold := time.Now().Add(-syncDueAfter)
	due, err := s.storage.GetFeedsToSync(ctx, threshold, claimBatchSize)
	if err != nil {
		s.logger.Error("claim due feeds failed", slog.Any("error", err))
		return
	}
	if len(due) == 0 {
		return
	}

	s.logger.Info("sync tick claimed feeds", slog.Int("count", len(due)))

	sem := make(chan struct{}, maxConcurrency)
	eg, egCtx := errgroup.WithContext(ctx)

	for _, feed := range due {
		feed := feed
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			s.syncOne(egCtx, feed)
			return nil
		})
	}
	_ = eg.Wait()
}

// syncOne loads one feed and persists the result, never propagating an
// error upward — one feed's failure must not abort the batch.
func (s *Scheduler) syncOne(ctx context.Context, feed entity.FeedToSync) {
	start := time.Now()
	outcome, err := s.loader.LoadFeed(ctx, feed.FeedURL, feed.HTTPETag, feed.HTTPLastModified)
	result := synctag.Classify(outcome, err)
	defer func() { metrics.RecordFeedSync(string(result), time.Since(start)) }()

	if err == nil {
		if loaded, ok := outcome.(feedloader.Loaded); ok {
			_, upsertErr := s.storage.UpsertFeedAndEntriesAndIcon(ctx, loaded.Feed.Feed, loaded.Feed.Entries, loaded.Feed.Icon)
			if upsertErr != nil {
				s.logger.Error("upsert after sync failed",
					slog.String("feed_id", feed.ID), slog.String("feed_url", feed.FeedURL), slog.Any("error", upsertErr))
				result = synctag.ClassifyDbError()
			}
		}
	}

	if releaseErr := s.storage.ReleaseClaim(ctx, feed.ID, result); releaseErr != nil {
		s.logger.Error("release sync claim failed",
			slog.String("feed_id", feed.ID), slog.Any("error", releaseErr))
	}

	s.logger.Info("feed synced",
		slog.String("feed_id", feed.ID), slog.String("feed_url", feed.FeedURL), slog.String("result", string(result)))
}
