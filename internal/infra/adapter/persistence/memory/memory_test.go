package memory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catchup-feed/internal/common/cursor"
	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/infra/adapter/persistence/memory"
	"catchup-feed/internal/repository"
)

func TestGetFeedsToSync_ClaimsDueFeed(t *testing.T) {
	store := memory.New()
	ctx := t.Context()

	feedID, err := store.UpsertFeedAndEntriesAndIcon(ctx, entity.NewFeed{SourceTitle: "A", FeedURL: "https://a.example/feed"}, nil, nil)
	require.NoError(t, err)

	due, err := store.GetFeedsToSync(ctx, time.Now().Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, feedID, due[0].ID)
}

func TestGetFeedsToSync_ExcludesParseError(t *testing.T) {
	store := memory.New()
	ctx := t.Context()

	feedID, err := store.UpsertFeedAndEntriesAndIcon(ctx, entity.NewFeed{SourceTitle: "A", FeedURL: "https://a.example/feed"}, nil, nil)
	require.NoError(t, err)

	// claim once so ReleaseClaim can tag it parse_error
	due, err := store.GetFeedsToSync(ctx, time.Now().Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.NoError(t, store.ReleaseClaim(ctx, feedID, entity.SyncParseError))

	// a feed tagged parse_error is never reclaimed, no matter how due
	due, err = store.GetFeedsToSync(ctx, time.Now().Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestGetFeedsToSync_NotDueYet(t *testing.T) {
	store := memory.New()
	ctx := t.Context()

	_, err := store.UpsertFeedAndEntriesAndIcon(ctx, entity.NewFeed{SourceTitle: "A", FeedURL: "https://a.example/feed"}, nil, nil)
	require.NoError(t, err)

	due, err := store.GetFeedsToSync(ctx, time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestQueryEntries_MatchesURLSubstring(t *testing.T) {
	store := memory.New()
	ctx := t.Context()

	_, err := store.UpsertFeedAndEntriesAndIcon(ctx, entity.NewFeed{SourceTitle: "A", FeedURL: "https://a.example/feed"},
		[]entity.NewEntry{{Title: "unrelated headline", URL: "https://a.example/unique-slug"}}, nil)
	require.NoError(t, err)

	query := "unique-slug"
	page, err := store.QueryEntries(ctx, repository.QueryFilters{Query: &query}, cursor.Params{Limit: cursor.DefaultLimit, Sort: cursor.Newest})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "https://a.example/unique-slug", page.Items[0].URL)
}

func TestQueryEntries_MatchesTitleSubstring(t *testing.T) {
	store := memory.New()
	ctx := t.Context()

	_, err := store.UpsertFeedAndEntriesAndIcon(ctx, entity.NewFeed{SourceTitle: "A", FeedURL: "https://a.example/feed"},
		[]entity.NewEntry{{Title: "breaking news today", URL: "https://a.example/1"}}, nil)
	require.NoError(t, err)

	query := "breaking"
	page, err := store.QueryEntries(ctx, repository.QueryFilters{Query: &query}, cursor.Params{Limit: cursor.DefaultLimit, Sort: cursor.Newest})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
}
