// Package http provides HTTP handlers and middleware shared across the
// feed/entry handler packages: health checks, metrics, request-id
// propagation, and response helpers.
package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// HealthHandler reports liveness. A DB ping failure still returns 200 —
// readiness is not the same contract as liveness, and the sync scheduler
// degrades gracefully on its own when storage is unreachable.
type HealthHandler struct {
	DB *sql.DB
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		_ = h.DB.PingContext(ctx)
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
