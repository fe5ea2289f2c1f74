package pathutil

import "errors"

// ErrInvalidID is returned when a path's {id} segment is empty.
var ErrInvalidID = errors.New("invalid id")

// ID validates a string id pulled from http.Request.PathValue. Feed,
// entry, and icon ids are opaque UUIDv7 strings, not integers, so there
// is nothing to parse — only emptiness to reject.
func ID(raw string) (string, error) {
	if raw == "" {
		return "", ErrInvalidID
	}
	return raw, nil
}
