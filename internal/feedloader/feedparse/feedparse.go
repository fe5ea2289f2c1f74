// Package feedparse turns a byte buffer into normalized feed metadata and
// entries, covering both RSS and Atom semantics via gofeed's single
// format-detecting parse.
package feedparse

import (
	"errors"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// ErrParse is returned when the buffer is neither a valid RSS nor Atom
// document.
var ErrParse = errors.New("feed: could not parse as rss or atom")

// ParsedFeed is the normalized metadata extracted from the remote document.
type ParsedFeed struct {
	Title   string
	SiteURL *string
}

// Entry is one normalized, to-be-persisted feed item.
type Entry struct {
	Title          string
	URL            string
	CommentsURL    *string
	PublishedAt    *time.Time
	EntryUpdatedAt *time.Time
}

// Parse parses body as RSS or Atom and returns normalized metadata plus
// entries. Malformed items are skipped, not surfaced; only a total parse
// failure returns ErrParse. feedURL is used for Atom's site-link fallback
// heuristic (the first link whose href differs from the feed's own URL).
func Parse(body []byte, feedURL string) (*ParsedFeed, []Entry, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseString(string(body))
	if err != nil || feed == nil {
		return nil, nil, ErrParse
	}

	switch feed.FeedType {
	case "rss":
		return parseRSS(feed)
	case "atom":
		return parseAtom(feed, feedURL)
	default:
		// gofeed detected a format it doesn't tag as rss/atom (e.g. json
		// feed extensions); treat it under RSS rules, which are the more
		// permissive of the two skip rules.
		return parseRSS(feed)
	}
}

func parseRSS(feed *gofeed.Feed) (*ParsedFeed, []Entry, error) {
	pf := &ParsedFeed{Title: feed.Title}
	if feed.Link != "" {
		link := feed.Link
		pf.SiteURL = &link
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" || item.Link == "" {
			continue
		}

		// Open Question 1: an RFC-2822 pubDate that's present but fails to
		// parse skips the item entirely, rather than leaving PublishedAt
		// nil and keeping the entry (matches the other skip rules' spirit).
		if item.Published != "" && item.PublishedParsed == nil {
			continue
		}

		e := Entry{Title: title, URL: item.Link}
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			e.PublishedAt = &t
		}
		if c, ok := commentsURL(item); ok {
			e.CommentsURL = &c
		}
		entries = append(entries, e)
	}
	return pf, entries, nil
}

func commentsURL(item *gofeed.Item) (string, bool) {
	if item.Extensions == nil {
		return "", false
	}
	// gofeed surfaces RSS <comments> as a custom extension when present.
	if ext, ok := item.Extensions[""]; ok {
		if vals, ok := ext["comments"]; ok && len(vals) > 0 {
			return vals[0].Value, true
		}
	}
	return "", false
}

func parseAtom(feed *gofeed.Feed, feedURL string) (*ParsedFeed, []Entry, error) {
	pf := &ParsedFeed{Title: feed.Title}
	pf.SiteURL = atomSiteURL(feed, feedURL)

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" || len(item.Links) == 0 {
			continue
		}

		e := Entry{Title: title, URL: item.Link}
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			e.PublishedAt = &t
		}
		if item.UpdatedParsed != nil {
			t := item.UpdatedParsed.UTC()
			e.EntryUpdatedAt = &t
		}
		// Atom entries never carry a comments_url per spec.
		entries = append(entries, e)
	}
	return pf, entries, nil
}

func atomSiteURL(feed *gofeed.Feed, feedURL string) *string {
	// gofeed's Atom translator sets Feed.Link to the first rel="alternate"
	// link; Feed.Links ([]string) carries every href without its rel.
	if feed.Link != "" {
		link := feed.Link
		return &link
	}
	for _, l := range feed.Links {
		if l != "" && l != feedURL {
			link := l
			return &link
		}
	}
	return nil
}
