package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"catchup-feed/internal/common/cursor"
	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/repository"
)

// sortKeyExpr is the composite timestamp every entry listing orders on.
const sortKeyExpr = "coalesce(e.published_at, e.entry_updated_at, e.created_at)"

// orderDesc reports whether the SQL fetch for this page should run in
// descending sort-key order. A Left cursor always fetches in the opposite
// direction from the base order, then gets reversed back before return.
func orderDesc(c *cursor.Cursor, newestFirst bool) bool {
	if c == nil || c.Dir == cursor.Right {
		return newestFirst
	}
	return !newestFirst
}

// cursorSeekClause looks up the sort key + id of the cursor row and
// returns a WHERE fragment seeking strictly past it in the fetch
// direction, plus its args. argBase is the first free placeholder index.
func (s *Store) cursorSeekClause(ctx context.Context, c *cursor.Cursor, desc bool, argBase int) (string, []any, error) {
	row := s.cb.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT %s, e.id FROM entries e WHERE e.id = $1`, sortKeyExpr), c.ID)
	var key interface{}
	var id string
	if err := row.Scan(&key, &id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, fmt.Errorf("cursor entry not found")
		}
		return "", nil, err
	}

	op := ">"
	if desc {
		op = "<"
	}
	clause := fmt.Sprintf("(%s, e.id) %s ($%d, $%d)", sortKeyExpr, op, argBase, argBase+1)
	return clause, []any{key, id}, nil
}

func reverseEntryList(items []entity.EntryForList) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

func reverseEntryQueryList(items []entity.EntryForQueryList) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

func (s *Store) GetFeedEntries(ctx context.Context, feedID string, params cursor.Params) (cursor.Page[entity.EntryForList], error) {
	newestFirst := params.Sort == cursor.Newest
	desc := orderDesc(params.Cursor, newestFirst)

	args := []any{feedID}
	where := "e.feed_id = $1"
	if params.Cursor != nil {
		clause, seekArgs, err := s.cursorSeekClause(ctx, params.Cursor, desc, 2)
		if err != nil {
			return cursor.Page[entity.EntryForList]{}, fmt.Errorf("GetFeedEntries: %w", err)
		}
		where += " AND " + clause
		args = append(args, seekArgs...)
	}

	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	args = append(args, params.Limit+1)
	query := fmt.Sprintf(`
SELECT e.id, e.feed_id, e.title, e.url, e.comments_url, e.published_at,
	e.entry_updated_at, e.read_at, e.starred_at, e.created_at, e.updated_at
FROM entries e
WHERE %s
ORDER BY %s %s, e.id %s
LIMIT $%d`, where, sortKeyExpr, dir, dir, len(args))

	rows, err := s.cb.QueryContext(ctx, query, args...)
	if err != nil {
		return cursor.Page[entity.EntryForList]{}, fmt.Errorf("GetFeedEntries: %w", err)
	}
	defer rows.Close()

	var items []entity.EntryForList
	for rows.Next() {
		var e entity.EntryForList
		if err := rows.Scan(
			&e.ID, &e.FeedID, &e.Title, &e.URL, &e.CommentsURL, &e.PublishedAt,
			&e.EntryUpdatedAt, &e.ReadAt, &e.StarredAt, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return cursor.Page[entity.EntryForList]{}, fmt.Errorf("GetFeedEntries: scan: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return cursor.Page[entity.EntryForList]{}, fmt.Errorf("GetFeedEntries: %w", err)
	}

	hasMore := len(items) > params.Limit
	if hasMore {
		items = items[:params.Limit]
	}
	if params.Cursor != nil && params.Cursor.Dir == cursor.Left {
		reverseEntryList(items)
	}

	nextID, prevID := cursor.Derive(items, func(e entity.EntryForList) string { return e.ID }, params.Cursor, hasMore)
	return cursor.Page[entity.EntryForList]{Items: items, NextID: nextID, PrevID: prevID, HasMore: hasMore}, nil
}

// QueryEntries is GetFeedEntries generalized over the global search/filter
// surface: same seek/order/has_more logic, a dynamically built WHERE
// clause, and the feed title/url joined in for display.
func (s *Store) QueryEntries(ctx context.Context, filters repository.QueryFilters, params cursor.Params) (cursor.Page[entity.EntryForQueryList], error) {
	newestFirst := params.Sort == cursor.Newest
	desc := orderDesc(params.Cursor, newestFirst)

	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.FeedID != nil {
		conds = append(conds, "e.feed_id = "+arg(*filters.FeedID))
	}
	if filters.Query != nil && *filters.Query != "" {
		placeholder := arg("%" + *filters.Query + "%")
		conds = append(conds, "(e.title ILIKE "+placeholder+" OR e.url ILIKE "+placeholder+")")
	}
	if filters.Unread {
		conds = append(conds, "e.read_at IS NULL")
	}
	if filters.Starred {
		conds = append(conds, "e.starred_at IS NOT NULL")
	}
	if filters.Start != nil {
		conds = append(conds, sortKeyExpr+" >= "+arg(*filters.Start))
	}
	if filters.End != nil {
		conds = append(conds, sortKeyExpr+" <= "+arg(*filters.End))
	}

	if params.Cursor != nil {
		clause, seekArgs, err := s.cursorSeekClause(ctx, params.Cursor, desc, len(args)+1)
		if err != nil {
			return cursor.Page[entity.EntryForQueryList]{}, fmt.Errorf("QueryEntries: %w", err)
		}
		args = append(args, seekArgs...)
		conds = append(conds, clause)
	}

	where := "TRUE"
	if len(conds) > 0 {
		where = strings.Join(conds, " AND ")
	}

	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	args = append(args, params.Limit+1)
	query := fmt.Sprintf(`
SELECT e.id, e.feed_id, e.title, e.url, e.comments_url, e.published_at,
	e.entry_updated_at, e.read_at, e.starred_at, e.created_at, e.updated_at,
	f.source_title, f.feed_url
FROM entries e
JOIN feeds f ON f.id = e.feed_id
WHERE %s
ORDER BY %s %s, e.id %s
LIMIT $%d`, where, sortKeyExpr, dir, dir, len(args))

	rows, err := s.cb.QueryContext(ctx, query, args...)
	if err != nil {
		return cursor.Page[entity.EntryForQueryList]{}, fmt.Errorf("QueryEntries: %w", err)
	}
	defer rows.Close()

	var items []entity.EntryForQueryList
	for rows.Next() {
		var e entity.EntryForQueryList
		if err := rows.Scan(
			&e.ID, &e.FeedID, &e.Title, &e.URL, &e.CommentsURL, &e.PublishedAt,
			&e.EntryUpdatedAt, &e.ReadAt, &e.StarredAt, &e.CreatedAt, &e.UpdatedAt,
			&e.FeedTitle, &e.FeedURL,
		); err != nil {
			return cursor.Page[entity.EntryForQueryList]{}, fmt.Errorf("QueryEntries: scan: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return cursor.Page[entity.EntryForQueryList]{}, fmt.Errorf("QueryEntries: %w", err)
	}

	hasMore := len(items) > params.Limit
	if hasMore {
		items = items[:params.Limit]
	}
	if params.Cursor != nil && params.Cursor.Dir == cursor.Left {
		reverseEntryQueryList(items)
	}

	nextID, prevID := cursor.Derive(items, func(e entity.EntryForQueryList) string { return e.ID }, params.Cursor, hasMore)
	return cursor.Page[entity.EntryForQueryList]{Items: items, NextID: nextID, PrevID: prevID, HasMore: hasMore}, nil
}

func (s *Store) SetEntryRead(ctx context.Context, entryID string, read bool) error {
	query := `UPDATE entries SET read_at = now(), updated_at = now() WHERE id = $1`
	if !read {
		query = `UPDATE entries SET read_at = NULL, updated_at = now() WHERE id = $1`
	}
	res, err := s.cb.ExecContext(ctx, query, entryID)
	if err != nil {
		return fmt.Errorf("SetEntryRead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("SetEntryRead: %w", err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
