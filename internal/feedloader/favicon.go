package feedloader

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"strings"

	"catchup-feed/internal/domain/entity"
	"catchup-feed/internal/feedloader/feedparse"
	"catchup-feed/internal/feedloader/htmlscan"
	"catchup-feed/internal/feedloader/httpclient"
)

// resolveFavicon is best-effort and never fails the overall load: any
// error here is swallowed and nil is returned.
func (l *Loader) resolveFavicon(ctx context.Context, parsed *feedparse.ParsedFeed, feedURL string) *entity.NewIcon {
	origin := faviconOrigin(parsed, feedURL)
	if origin == "" {
		return nil
	}

	candidates := faviconCandidates(ctx, origin)
	for _, candidate := range candidates {
		if icon := tryFavicon(ctx, candidate); icon != nil {
			return icon
		}
	}
	return nil
}

// faviconOrigin resolves Open Question 3: prefer the origin obtained by
// actually parsing site_url, never treating it as a raw origin string;
// fall back to the final feed URL's origin.
func faviconOrigin(parsed *feedparse.ParsedFeed, feedURL string) string {
	if parsed.SiteURL != nil && *parsed.SiteURL != "" {
		if o, err := originOf(*parsed.SiteURL); err == nil && o != "://" {
			return o
		}
	}
	o, err := originOf(feedURL)
	if err != nil {
		return ""
	}
	return o
}

func faviconCandidates(ctx context.Context, origin string) []string {
	req, err := httpclient.NewRequest(ctx, http.MethodGet, origin)
	if err != nil {
		return []string{origin + "/favicon.ico"}
	}
	resp, err := httpclient.Get().Do(req)
	if err != nil {
		return []string{origin + "/favicon.ico"}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return []string{origin + "/favicon.ico"}
	}

	hrefs := htmlscan.FaviconURLs(body)
	candidates := absolutizeAll(hrefs, origin)
	candidates = append(candidates, origin+"/favicon.ico")
	return candidates
}

func tryFavicon(ctx context.Context, candidate string) *entity.NewIcon {
	if strings.HasPrefix(candidate, "data:") {
		return decodeDataURL(candidate)
	}
	if !strings.HasPrefix(candidate, "http") {
		return nil
	}

	req, err := httpclient.NewRequest(ctx, http.MethodGet, candidate)
	if err != nil {
		return nil
	}
	resp, err := httpclient.Get().Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil || len(body) == 0 {
		return nil
	}

	return &entity.NewIcon{
		Hash:        hashBytes(body),
		Data:        body,
		ContentType: ct,
	}
}

// decodeDataURL parses data:<mediatype>[;base64],<payload>.
func decodeDataURL(raw string) *entity.NewIcon {
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return nil
	}
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil
	}
	header := rest[:comma]
	payload := rest[comma+1:]

	isBase64 := strings.Contains(header, "base64")
	contentType := strings.TrimSuffix(header, ";base64")
	if idx := strings.IndexByte(contentType, ';'); idx >= 0 {
		contentType = contentType[:idx]
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var data []byte
	var err error
	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var unescaped string
		unescaped, err = url.QueryUnescape(payload)
		data = []byte(unescaped)
	}
	if err != nil || len(data) == 0 {
		return nil
	}

	return &entity.NewIcon{
		Hash:        hashBytes(data),
		Data:        data,
		ContentType: contentType,
	}
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
