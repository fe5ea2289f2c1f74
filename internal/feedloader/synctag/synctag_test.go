package synctag_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/feedloader"
	"catchup-feed/internal/feedloader/synctag"
)

func TestClassify_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		outcome feedloader.FeedOutcome
		want    entity.SyncResult
	}{
		{"loaded", feedloader.Loaded{Feed: &feedloader.LoadedFeed{}}, entity.SyncSuccess},
		{"not modified", feedloader.NotModified{}, entity.SyncNotModified},
		{"needs choice", feedloader.NeedsChoice{Candidates: []string{"a"}}, entity.SyncNeedsChoice},
		{"not found", feedloader.NotFound{}, entity.SyncNotFound},
		{"disallowed", feedloader.Disallowed{}, entity.SyncDisallowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := synctag.Classify(tt.outcome, nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want entity.SyncResult
	}{
		{"invalid url", &feedloader.FeedError{Kind: feedloader.ErrInvalidURL}, entity.SyncInvalidURL},
		{"fetch error", &feedloader.FeedError{Kind: feedloader.ErrFetch}, entity.SyncFetchError},
		{"parse error", &feedloader.FeedError{Kind: feedloader.ErrParse}, entity.SyncParseError},
		{"unexpected html", &feedloader.FeedError{Kind: feedloader.ErrUnexpectedHTML}, entity.SyncUnexpectedHTML},
		// ErrUnexpectedStatus has no dedicated sync tag; it falls through
		// to unexpected, matching the original implementation's
		// sync_result_for_error rather than being folded into fetch_error.
		{"unexpected status", &feedloader.FeedError{Kind: feedloader.ErrUnexpectedStatus}, entity.SyncUnexpected},
		{"plain error", errors.New("boom"), entity.SyncUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := synctag.Classify(nil, tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_DbAppError(t *testing.T) {
	err := entity.NewAppError(entity.KindDb, "db exploded", nil)
	got := synctag.Classify(nil, err)
	assert.Equal(t, entity.SyncDbError, got)
}

func TestClassifyDbError(t *testing.T) {
	assert.Equal(t, entity.SyncDbError, synctag.ClassifyDbError())
}
