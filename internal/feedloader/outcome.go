package feedloader

import "catchup-feed/internal/domain/entity"

// FeedOutcome is the tagged union LoadFeed returns. Each variant is its
// own type implementing the marker method, per the state-machine
// encoding design note: no optional fields on one aggregate.
type FeedOutcome interface {
	isFeedOutcome()
}

// Loaded is the successful terminal outcome: a fully loaded feed.
type Loaded struct {
	Feed *LoadedFeed
}

func (Loaded) isFeedOutcome() {}

// NotModified means a conditional GET came back 304.
type NotModified struct{}

func (NotModified) isFeedOutcome() {}

// NeedsChoice means HTML discovery found 2+ feed candidates; the caller
// must pick one and retry with LoadSelectedFeed.
type NeedsChoice struct {
	Candidates []string
}

func (NeedsChoice) isFeedOutcome() {}

// NotFound means the remote resource is gone, or HTML discovery found no
// feed candidates.
type NotFound struct{}

func (NotFound) isFeedOutcome() {}

// Disallowed means the robots gate refused the fetch.
type Disallowed struct{}

func (Disallowed) isFeedOutcome() {}

// LoadedFeed is the full result of a successful load.
type LoadedFeed struct {
	Feed             entity.NewFeed
	Entries          []entity.NewEntry
	Icon             *entity.NewIcon
	HTTPETag         *string
	HTTPLastModified *string
}

// FeedError is a typed loader error. The loader never retries; it always
// returns one of these kinds for the sync/OPML layers to classify.
type FeedError struct {
	Kind ErrKind
	Msg  string
	Err  error
}

func (e *FeedError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *FeedError) Unwrap() error { return e.Err }

// ErrKind enumerates the ways a load can fail.
type ErrKind string

const (
	ErrInvalidURL       ErrKind = "invalid_url"
	ErrFetch            ErrKind = "fetch"
	ErrParse            ErrKind = "parse"
	ErrUnexpectedHTML   ErrKind = "unexpected_html"
	ErrUnexpectedStatus ErrKind = "unexpected_response"
)

func newErr(kind ErrKind, msg string, cause error) *FeedError {
	return &FeedError{Kind: kind, Msg: msg, Err: cause}
}
