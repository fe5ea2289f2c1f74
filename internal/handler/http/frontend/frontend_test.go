package frontend

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>root</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sw.js"), []byte("self.addEventListener"), 0o644))
	return dir
}

func TestHandler_ServesExistingFile(t *testing.T) {
	dir := writeTestSite(t)
	h := Handler(dir)

	req := httptest.NewRequest("GET", "/app.js", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "console.log")
}

func TestHandler_FallsBackToIndexForUnknownPath(t *testing.T) {
	dir := writeTestSite(t)
	h := Handler(dir)

	req := httptest.NewRequest("GET", "/feeds/42", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "root")
}

func TestHandler_SetsSecurityHeaders(t *testing.T) {
	dir := writeTestSite(t)
	h := Handler(dir)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	headers := rec.Header()
	assert.Equal(t, "SAMEORIGIN", headers.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
	assert.Equal(t, "same-origin", headers.Get("Cross-Origin-Opener-Policy"))
	assert.Equal(t, "require-corp", headers.Get("Cross-Origin-Embedder-Policy"))
	assert.NotEmpty(t, headers.Get("Content-Security-Policy"))
}

func TestHandler_CacheControlByExtension(t *testing.T) {
	dir := writeTestSite(t)
	h := Handler(dir)

	reqJS := httptest.NewRequest("GET", "/app.js", nil)
	recJS := httptest.NewRecorder()
	h.ServeHTTP(recJS, reqJS)
	assert.Equal(t, "public, max-age=31536000, immutable", recJS.Header().Get("Cache-Control"))

	reqSW := httptest.NewRequest("GET", "/sw.js", nil)
	recSW := httptest.NewRecorder()
	h.ServeHTTP(recSW, reqSW)
	assert.Equal(t, "no-cache, no-store, must-revalidate", recSW.Header().Get("Cache-Control"))

	reqIndex := httptest.NewRequest("GET", "/", nil)
	recIndex := httptest.NewRecorder()
	h.ServeHTTP(recIndex, reqIndex)
	assert.Empty(t, recIndex.Header().Get("Cache-Control"))
}

func TestCachePolicyFor(t *testing.T) {
	cases := map[string]cachePolicy{
		"/app.js":       cacheImmutable,
		"/styles.css":   cacheImmutable,
		"/font.woff2":   cacheImmutable,
		"/logo.svg":     cacheImmutable,
		"/sw.js":        cacheNoStore,
		"/index.html":   cacheDefault,
		"/":             cacheDefault,
		"/feeds/42/raw": cacheDefault,
	}
	for path, want := range cases {
		assert.Equal(t, want, cachePolicyFor(path), "path %s", path)
	}
}
