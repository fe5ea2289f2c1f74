// Package robots is the reserved, currently-disabled robots.txt gate in
// front of every outbound loader fetch. The design calls for per-origin
// caching of parsed robots files gating every fetch; this implementation
// keeps the call site wired in but always allows, matching the source
// repository's own behavior. Enabling real enforcement later means
// replacing Cache.IsAllowed's body, not changing any caller.
package robots

import (
	"context"
	"sync"
)

// Cache would hold one parsed robots.txt per origin. It is unused by the
// current allow-all implementation but kept so the shape doesn't change
// when enforcement is turned on.
type Cache struct {
	mu      sync.Mutex
	origins map[string]struct{}
}

// NewCache returns an empty per-origin cache.
func NewCache() *Cache {
	return &Cache{origins: make(map[string]struct{})}
}

// IsAllowed reports whether url may be fetched. Always true: robots
// enforcement is reserved but disabled, per design.
func (c *Cache) IsAllowed(ctx context.Context, url string) bool {
	return true
}
