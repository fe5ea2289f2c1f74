// Package cursor implements the composite-key, direction-aware cursor
// pagination contract: sort key (coalesce(published_at, entry_updated_at,
// created_at), id), optional Left/Right cursor, has_more/next_id/prev_id
// derivation.
package cursor

import "fmt"

// Direction is the navigation step a cursor represents.
type Direction int

const (
	// Right pages after id (newer navigation step in the default order).
	Right Direction = iota
	// Left pages before id (older navigation step).
	Left
)

// Cursor is an opaque entry id plus a direction.
type Cursor struct {
	ID  string
	Dir Direction
}

// SortOrder is the overall listing direction, independent of any cursor.
type SortOrder int

const (
	Newest SortOrder = iota
	Oldest
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is the validated, defaulted request for one page.
type Params struct {
	Cursor *Cursor
	Limit  int
	Sort   SortOrder
}

// ParseParams validates raw left/right/limit query values. left and right
// are mutually exclusive; at most one of them may be non-empty.
func ParseParams(left, right string, limit int, sort SortOrder) (Params, error) {
	if left != "" && right != "" {
		return Params{}, fmt.Errorf("cursor: left and right are mutually exclusive")
	}

	p := Params{Limit: DefaultLimit, Sort: sort}
	if limit > 0 {
		p.Limit = limit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	switch {
	case left != "":
		p.Cursor = &Cursor{ID: left, Dir: Left}
	case right != "":
		p.Cursor = &Cursor{ID: right, Dir: Right}
	}
	return p, nil
}

// Page is one page of results plus the next/prev navigation ids.
type Page[T any] struct {
	Items   []T
	NextID  *string
	PrevID  *string
	HasMore bool
}

// Derive fills NextID/PrevID from the fetched rows according to this table:
//
//	has_more | cursor   | next_id | prev_id
//	true     | None     | last    | —
//	false    | None     | —       | —
//	true     | Some(*)  | last    | first
//	false    | Left     | last    | —
//	false    | Right    | —       | first
//
// rows must already be in the final display order (reversed back from the
// opposite-direction fetch when the cursor was Left) and already have the
// probe row (the limit+1'th) removed, with hasMore reflecting whether it
// existed.
func Derive[T any](rows []T, idOf func(T) string, c *Cursor, hasMore bool) (nextID, prevID *string) {
	if len(rows) == 0 {
		return nil, nil
	}
	first := idOf(rows[0])
	last := idOf(rows[len(rows)-1])

	switch {
	case hasMore && c == nil:
		return &last, nil
	case !hasMore && c == nil:
		return nil, nil
	case hasMore && c != nil:
		return &last, &first
	case !hasMore && c != nil && c.Dir == Left:
		return &last, nil
	case !hasMore && c != nil && c.Dir == Right:
		return nil, &first
	}
	return nil, nil
}
