package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

const uuidPattern = `[0-9a-fA-F-]{8,36}`

// pathPatterns defines the list of patterns for dynamic routes, evaluated
// most-specific first. Pre-compiled at package init.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/api/v1/feeds/` + uuidPattern + `/entries$`), Template: "/api/v1/feeds/:id/entries"},
	{Pattern: regexp.MustCompile(`^/api/v1/feeds/` + uuidPattern + `/icon$`), Template: "/api/v1/feeds/:id/icon"},
	{Pattern: regexp.MustCompile(`^/api/v1/feeds/` + uuidPattern + `/sync$`), Template: "/api/v1/feeds/:id/sync"},
	{Pattern: regexp.MustCompile(`^/api/v1/feeds/` + uuidPattern + `$`), Template: "/api/v1/feeds/:id"},
	{Pattern: regexp.MustCompile(`^/api/v1/entries/` + uuidPattern + `/read$`), Template: "/api/v1/entries/:id/read"},
	{Pattern: regexp.MustCompile(`^/api/v1/feeds/import/` + uuidPattern + `/events$`), Template: "/api/v1/feeds/import/:id/events"},
}

// NormalizePath collapses a URL path carrying an opaque feed/entry id
// into its route template, so metrics label cardinality stays bounded by
// route count rather than row count.
//
//	NormalizePath("/api/v1/feeds/018f.../entries") // "/api/v1/feeds/:id/entries"
//	NormalizePath("/api/v1/feeds")                 // "/api/v1/feeds" (unchanged)
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
