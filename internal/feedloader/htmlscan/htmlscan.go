// Package htmlscan extracts feed and favicon candidate URLs from a page's
// <head>. It parses once and copies every string it needs out of the DOM
// before returning, so no caller ever holds a reference into the parse
// tree (the "shared DOM ownership" design note).
package htmlscan

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var iconRels = map[string]bool{
	"icon":              true,
	"shortcut icon":     true,
	"apple-touch-icon":  true,
}

// FeedURLs returns, in document order, the href of every <head><link>
// whose href or type attribute contains "rss" or "atom". A missing
// <html>/<head> or unparseable document yields an empty (non-nil) slice.
func FeedURLs(body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return []string{}
	}

	var hrefs []string
	doc.Find("html head link").Each(func(_ int, s *goquery.Selection) {
		href, hasHref := s.Attr("href")
		if !hasHref || href == "" {
			return
		}
		typ, _ := s.Attr("type")
		if containsFeedHint(href) || containsFeedHint(typ) {
			hrefs = append(hrefs, href)
		}
	})
	if hrefs == nil {
		hrefs = []string{}
	}
	return hrefs
}

// FaviconURLs returns, in document order, the href of every <head><link>
// whose rel is icon, shortcut icon, or apple-touch-icon (case-sensitive).
func FaviconURLs(body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return []string{}
	}

	var hrefs []string
	doc.Find("html head link").Each(func(_ int, s *goquery.Selection) {
		rel, hasRel := s.Attr("rel")
		if !hasRel || !iconRels[rel] {
			return
		}
		href, hasHref := s.Attr("href")
		if hasHref && href != "" {
			hrefs = append(hrefs, href)
		}
	})
	if hrefs == nil {
		hrefs = []string{}
	}
	return hrefs
}

func containsFeedHint(v string) bool {
	l := strings.ToLower(v)
	return strings.Contains(l, "rss") || strings.Contains(l, "atom")
}
