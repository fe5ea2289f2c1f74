package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// upsertIcon inserts the icon by content hash if it doesn't already exist
// and links it to feedID, returning the icon's id. Run inside the caller's
// transaction. Unlike the icon CTE this was modeled on, the feed_icons
// link is always (re)inserted here, even when the icon row already
// existed — a feed switching to an icon some other feed already uses
// must still pick up the link.
func upsertIcon(ctx context.Context, tx *sql.Tx, hash string, data []byte, contentType string, feedID string) (string, error) {
	var iconID string
	err := tx.QueryRowContext(ctx, `
INSERT INTO icons (id, hash, data, content_type)
VALUES ($1, $2, $3, $4)
ON CONFLICT (hash) DO UPDATE SET hash = EXCLUDED.hash
RETURNING id`, newID(), hash, data, contentType).Scan(&iconID)
	if err != nil {
		return "", fmt.Errorf("upsertIcon: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO feed_icons (feed_id, icon_id)
VALUES ($1, $2)
ON CONFLICT (feed_id) DO UPDATE SET icon_id = EXCLUDED.icon_id`, feedID, iconID)
	if err != nil {
		return "", fmt.Errorf("upsertIcon: link: %w", err)
	}
	return iconID, nil
}
