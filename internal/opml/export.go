package opml

import (
	"bytes"
	"encoding/xml"
	"time"

	"catchup-feed/internal/domain/entity"
)

type opmlOutline struct {
	Type    string `xml:"type,attr"`
	Text    string `xml:"text,attr"`
	XMLURL  string `xml:"xmlUrl,attr"`
	HTMLURL string `xml:"htmlUrl,attr,omitempty"`
}

type opmlHead struct {
	Title       string `xml:"title"`
	DateCreated string `xml:"dateCreated"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlDoc struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    opmlHead `xml:"head"`
	Body    opmlBody `xml:"body"`
}

// Export renders the given feeds as an OPML 2.0 document.
func Export(feeds []entity.FeedWithCounts) ([]byte, error) {
	doc := opmlDoc{
		Version: "2.0",
		Head: opmlHead{
			Title:       "Exported Feeds",
			DateCreated: time.Now().UTC().Format(time.RFC1123Z),
		},
	}
	doc.Body.Outlines = make([]opmlOutline, 0, len(feeds))
	for _, f := range feeds {
		outline := opmlOutline{Type: "rss", Text: f.Title(), XMLURL: f.FeedURL}
		if f.SiteURL != nil {
			outline.HTMLURL = *f.SiteURL
		}
		doc.Body.Outlines = append(doc.Body.Outlines, outline)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
