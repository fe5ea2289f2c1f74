// Package feedloader drives the state machine that turns a URL into a
// validated feed, its entries, and an optional favicon:
//
//	Initial -> Fetched -> Classified(Feed|Html|NotFound|NotModified)
//	  -> [HTMLDiscovery -> Selected ->] FetchedFeed -> Parsed -> Finished
//
// Each call to LoadFeed/LoadSelectedFeed builds a fresh machine; the
// loader owns no state across calls (design note).
package feedloader

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"catchup-feed/internal/feedloader/feedparse"
	"catchup-feed/internal/feedloader/htmlscan"
	"catchup-feed/internal/feedloader/httpclient"
	"catchup-feed/internal/feedloader/robots"
)

const maxDiscoveryDepth = 1

// Loader drives feed loads. It holds only process-wide, reusable
// collaborators (HTTP client, robots cache) — no per-load state.
type Loader struct {
	robots *robots.Cache
}

// New builds a Loader. Construct once per process; it is safe for
// concurrent use since its collaborators are themselves singletons/caches.
func New() *Loader {
	return &Loader{robots: robots.NewCache()}
}

// LoadFeed drives the full discovery-to-finish pipeline for an arbitrary
// user-supplied URL.
func (l *Loader) LoadFeed(ctx context.Context, rawURL string, etag, lastModified *string) (FeedOutcome, error) {
	return l.load(ctx, rawURL, etag, lastModified, 0)
}

// LoadSelectedFeed is used once the caller has already disambiguated a
// single candidate URL; any non-feed response is an error, not a further
// discovery round.
func (l *Loader) LoadSelectedFeed(ctx context.Context, rawURL string, etag, lastModified *string) (*LoadedFeed, error) {
	outcome, err := l.load(ctx, rawURL, etag, lastModified, maxDiscoveryDepth)
	if err != nil {
		return nil, err
	}
	switch o := outcome.(type) {
	case Loaded:
		return o.Feed, nil
	case NotModified:
		return nil, nil
	default:
		return nil, newErr(ErrUnexpectedHTML, "selected url did not resolve to a feed", nil)
	}
}

func (l *Loader) load(ctx context.Context, rawURL string, etag, lastModified *string, depth int) (FeedOutcome, error) {
	normalized := ensureScheme(rawURL)
	if _, err := url.Parse(normalized); err != nil {
		return nil, newErr(ErrInvalidURL, "could not parse url", err)
	}

	if !l.robots.IsAllowed(ctx, normalized) {
		return Disallowed{}, nil
	}

	resp, finalURL, err := conditionalFetch(ctx, normalized, etag, lastModified)
	if err != nil {
		return nil, newErr(ErrFetch, "fetch failed", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		return NotModified{}, nil
	case http.StatusNotFound:
		return NotFound{}, nil
	case http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
		if err != nil {
			return nil, newErr(ErrFetch, "reading response body failed", err)
		}
		return l.classifyOK(ctx, resp, body, finalURL, depth)
	default:
		return nil, newErr(ErrUnexpectedStatus, "unexpected http status", nil)
	}
}

func (l *Loader) classifyOK(ctx context.Context, resp *http.Response, body []byte, finalURL string, depth int) (FeedOutcome, error) {
	ct := resp.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "text/html"):
		if depth >= maxDiscoveryDepth {
			// Open Question 2: no recursion past one discovery level.
			return nil, newErr(ErrUnexpectedHTML, "html discovery recursed past one level", nil)
		}
		return l.discoverFromHTML(ctx, body, finalURL, depth)
	case isFeedContentType(ct):
		return l.parseFeedResponse(resp, body, finalURL)
	default:
		// Permissive by design: unknown content-type is assumed to be a
		// feed and left to the parser to accept or reject.
		return l.parseFeedResponse(resp, body, finalURL)
	}
}

func isFeedContentType(ct string) bool {
	for _, prefix := range []string{"text/xml", "application/xml", "application/rss+xml", "application/atom+xml"} {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}

func (l *Loader) discoverFromHTML(ctx context.Context, body []byte, finalURL string, depth int) (FeedOutcome, error) {
	origin, err := originOf(finalURL)
	if err != nil {
		return nil, newErr(ErrInvalidURL, "could not derive origin for html discovery", err)
	}

	candidates := absolutizeAll(htmlscan.FeedURLs(body), origin)
	switch len(candidates) {
	case 0:
		return NotFound{}, nil
	case 1:
		return l.load(ctx, candidates[0], nil, nil, depth+1)
	default:
		return NeedsChoice{Candidates: candidates}, nil
	}
}

func (l *Loader) parseFeedResponse(resp *http.Response, body []byte, finalURL string) (FeedOutcome, error) {
	parsed, entries, err := feedparse.Parse(body, finalURL)
	if err != nil {
		return nil, newErr(ErrParse, "feed parse failed", err)
	}

	feed := toNewFeed(parsed, finalURL)
	feed.HTTPETag = headerOrNil(resp.Header.Get("ETag"))
	feed.HTTPLastModified = headerOrNil(resp.Header.Get("Last-Modified"))

	icon := l.resolveFavicon(resp.Request.Context(), parsed, finalURL)

	return Loaded{Feed: &LoadedFeed{
		Feed:             feed,
		Entries:          toNewEntries(entries),
		Icon:             icon,
		HTTPETag:         feed.HTTPETag,
		HTTPLastModified: feed.HTTPLastModified,
	}}, nil
}

func headerOrNil(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func ensureScheme(raw string) string {
	if strings.HasPrefix(raw, "http") {
		return raw
	}
	return "https://" + raw
}

func conditionalFetch(ctx context.Context, rawURL string, etag, lastModified *string) (*http.Response, string, error) {
	req, err := httpclient.NewRequest(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, "", err
	}
	if etag != nil && *etag != "" {
		req.Header.Set("If-None-Match", *etag)
	}
	if lastModified != nil && *lastModified != "" {
		req.Header.Set("If-Modified-Since", *lastModified)
	}

	resp, err := httpclient.Get().Do(req)
	if err != nil {
		return nil, "", err
	}

	final := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	return resp, final, nil
}

func originOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return u.Scheme + "://" + u.Host, nil
}

// absolutize joins a relative href against origin with a single "/"
// separator, both sides trimmed of "/".
func absolutize(href, origin string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(href, "/")
}

func absolutizeAll(hrefs []string, origin string) []string {
	out := make([]string, 0, len(hrefs))
	for _, h := range hrefs {
		out = append(out, absolutize(h, origin))
	}
	return out
}
