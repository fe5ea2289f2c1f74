package syncsched

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/feedloader"
	"catchup-feed/internal/infra/adapter/persistence/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const syncFeedDoc = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Synced Feed</title>
<link>http://example.com</link>
<item><title>Post</title><link>http://example.com/1</link></item>
</channel></rss>`

func TestTick_SyncsDueFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(syncFeedDoc))
	}))
	defer srv.Close()

	store := memory.New()
	ctx := context.Background()
	feedID, err := store.UpsertFeedAndEntriesAndIcon(ctx, entity.NewFeed{SourceTitle: "stub", FeedURL: srv.URL + "/feed.xml"}, nil, nil)
	require.NoError(t, err)

	scheduler := New(store, feedloader.New(), testLogger())
	scheduler.tick(ctx)

	feed, err := store.GetFeed(ctx, feedID)
	require.NoError(t, err)
	assert.Equal(t, entity.SyncSuccess, feed.LastSyncResult)
	assert.Nil(t, feed.SyncStartedAt)
}

func TestTick_NoFeedsDue(t *testing.T) {
	store := memory.New()
	scheduler := New(store, feedloader.New(), testLogger())
	// tick on an empty store must not panic and must return promptly
	scheduler.tick(context.Background())
}

func TestSyncOne_FetchErrorClassified(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	feedID, err := store.UpsertFeedAndEntriesAndIcon(ctx, entity.NewFeed{SourceTitle: "stub", FeedURL: "http://127.0.0.1:1/unreachable"}, nil, nil)
	require.NoError(t, err)

	scheduler := New(store, feedloader.New(), testLogger())
	due, err := store.GetFeedsToSync(ctx, time.Now().Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)

	scheduler.syncOne(ctx, due[0])

	feed, err := store.GetFeed(ctx, feedID)
	require.NoError(t, err)
	assert.Equal(t, entity.SyncFetchError, feed.LastSyncResult)
}

func TestScheduler_StopEndsRun(t *testing.T) {
	scheduler := New(memory.New(), feedloader.New(), testLogger())

	done := make(chan struct{})
	go func() {
		scheduler.Run(context.Background())
		close(done)
	}()

	scheduler.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
