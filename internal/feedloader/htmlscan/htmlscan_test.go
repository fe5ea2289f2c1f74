package htmlscan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"catchup-feed/internal/feedloader/htmlscan"
)

const pageDoc = `<!DOCTYPE html>
<html>
<head>
<title>Example</title>
<link rel="alternate" type="application/rss+xml" href="/feed.rss">
<link rel="alternate" type="application/atom+xml" href="https://example.com/feed.atom">
<link rel="icon" href="/favicon.ico">
<link rel="shortcut icon" href="/favicon-legacy.ico">
<link rel="apple-touch-icon" href="/apple-touch.png">
<link rel="stylesheet" href="/site.css">
</head>
<body></body>
</html>`

func TestFeedURLs(t *testing.T) {
	got := htmlscan.FeedURLs([]byte(pageDoc))
	assert.Equal(t, []string{"/feed.rss", "https://example.com/feed.atom"}, got)
}

func TestFeedURLs_NoMatches(t *testing.T) {
	got := htmlscan.FeedURLs([]byte(`<html><head><link rel="stylesheet" href="/site.css"></head></html>`))
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFeedURLs_Malformed(t *testing.T) {
	got := htmlscan.FeedURLs([]byte{0x00, 0xff})
	assert.NotNil(t, got)
}

func TestFaviconURLs(t *testing.T) {
	got := htmlscan.FaviconURLs([]byte(pageDoc))
	assert.Equal(t, []string{"/favicon.ico", "/favicon-legacy.ico", "/apple-touch.png"}, got)
}

func TestFaviconURLs_NoMatches(t *testing.T) {
	got := htmlscan.FaviconURLs([]byte(`<html><head></head></html>`))
	assert.Empty(t, got)
}
