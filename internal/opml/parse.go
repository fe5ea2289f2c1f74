// Package opml parses and generates OPML documents, and coordinates bulk
// feed imports in the background with SSE progress reporting.
package opml

import (
	"bytes"
	"encoding/xml"
	"io"
	"net/url"
	"strings"
)

// MaxUploadBytes is the cap enforced on the multipart upload body via
// http.MaxBytesReader.
const MaxUploadBytes = 5 << 20

// ExtractFeedURLs streams the OPML document looking for <outline
// xmlUrl="..."> attributes, normalizes each to an absolute http(s) URL,
// and returns the deduplicated, order-preserved list.
func ExtractFeedURLs(body []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	seen := make(map[string]bool)
	var urls []string

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "outline" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local != "xmlUrl" {
				continue
			}
			if u := normalizeURL(attr.Value); u != "" && !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}
	return urls, nil
}

func normalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return parsed.String()
}
