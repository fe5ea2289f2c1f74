// Package synctag maps a loader outcome or error to the fixed string tag
// persisted as Feed.LastSyncResult.
package synctag

import (
	"errors"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/feedloader"
)

// Classify returns the sync tag for a (outcome, err) pair exactly as one
// of them came back from the loader. Exactly one of outcome/err should be
// non-nil; if err is non-nil it takes precedence.
func Classify(outcome feedloader.FeedOutcome, err error) entity.SyncResult {
	if err != nil {
		return classifyError(err)
	}

	switch outcome.(type) {
	case feedloader.Loaded:
		return entity.SyncSuccess
	case feedloader.NotModified:
		return entity.SyncNotModified
	case feedloader.NeedsChoice:
		return entity.SyncNeedsChoice
	case feedloader.NotFound:
		return entity.SyncNotFound
	case feedloader.Disallowed:
		return entity.SyncDisallowed
	default:
		return entity.SyncUnexpected
	}
}

func classifyError(err error) entity.SyncResult {
	var feedErr *feedloader.FeedError
	if errors.As(err, &feedErr) {
		switch feedErr.Kind {
		case feedloader.ErrInvalidURL:
			return entity.SyncInvalidURL
		case feedloader.ErrFetch:
			return entity.SyncFetchError
		case feedloader.ErrParse:
			return entity.SyncParseError
		case feedloader.ErrUnexpectedHTML:
			return entity.SyncUnexpectedHTML
		case feedloader.ErrUnexpectedStatus:
			return entity.SyncUnexpected
		}
	}

	var appErr *entity.AppError
	if errors.As(err, &appErr) && appErr.Kind == entity.KindDb {
		return entity.SyncDbError
	}

	return entity.SyncUnexpected
}

// ClassifyDbError is used by callers (sync scheduler, OPML worker) after a
// successful Loaded outcome but a failed upsert — the outcome was
// "success" from the loader's point of view but storage rejected it.
func ClassifyDbError() entity.SyncResult {
	return entity.SyncDbError
}
