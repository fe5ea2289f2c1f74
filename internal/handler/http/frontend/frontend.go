// Package frontend serves the built SPA, when FRONTEND_DIR is configured,
// with the same security-header set the standalone frontend server used
// to apply: a strict CSP, cross-origin isolation headers, and a cache
// policy keyed off file extension.
package frontend

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"catchup-feed/pkg/security/csp"
)

var frontendCSP = csp.NewCSPBuilder().
	DefaultSrc("'self'").
	ScriptSrc("'self'").
	StyleSrc("'self'").
	ImgSrc("'self'", "data:").
	FontSrc("'self'", "data:").
	ConnectSrc("'self'").
	FrameAncestors("'self'").
	BaseUri("'self'").
	FormAction("'self'").
	Build()

// Handler serves dir as a static SPA: any path that doesn't resolve to a
// file under dir falls back to dir/index.html, and every response carries
// the security header set below.
func Handler(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	index := dir + "/index.html"

	fallback := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, index)
	})

	spa := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := filepath.Clean(r.URL.Path)
		info, err := os.Stat(filepath.Join(dir, clean))
		if err != nil || info.IsDir() {
			fallback.ServeHTTP(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})

	return withSecurityHeaders(spa)
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", frontendCSP)
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		h.Set("Cross-Origin-Resource-Policy", "same-origin")
		h.Set("Cross-Origin-Embedder-Policy", "require-corp")
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("X-Permitted-Cross-Domain-Policies", "none")

		switch cachePolicyFor(r.URL.Path) {
		case cacheNoStore:
			h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		case cacheImmutable:
			h.Set("Cache-Control", "public, max-age=31536000, immutable")
		}

		next.ServeHTTP(w, r)
	})
}

type cachePolicy int

const (
	cacheDefault cachePolicy = iota
	cacheNoStore
	cacheImmutable
)

var immutableExts = map[string]bool{
	".js": true, ".css": true, ".woff": true, ".woff2": true, ".ttf": true,
	".eot": true, ".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".ico": true, ".svg": true,
}

func cachePolicyFor(path string) cachePolicy {
	if strings.HasSuffix(path, "sw.js") {
		return cacheNoStore
	}
	dot := strings.LastIndexByte(path, '.')
	if dot == -1 {
		return cacheDefault
	}
	if immutableExts[path[dot:]] {
		return cacheImmutable
	}
	return cacheDefault
}

