// Package config loads this service's environment-driven settings using
// the validate-with-fallback idiom from internal/pkg/config: a malformed
// value never fails startup, it logs a warning and falls back to default.
package config

import (
	"log/slog"
	"os"
	"time"

	pkgconfig "catchup-feed/internal/pkg/config"
)

// Config holds every environment-driven setting the API and sync binaries
// need. DatabaseURL and Host are required; everything else has a default.
type Config struct {
	DatabaseURL string
	Host        string
	FrontendDir string

	// SyncHost is the address cmd/sync's own /metrics and /api/health
	// server binds to — distinct from Host so the two binaries can run
	// on the same machine without a port collision.
	SyncHost string

	OpmlConcurrency int
	OpmlMaxBytes    int64

	// HTTPClientTimeout bounds every outbound feed/icon fetch the loader
	// makes.
	HTTPClientTimeout time.Duration
}

// Load reads Config from the environment, logging a warning for each
// fallback it had to apply.
func Load(logger *slog.Logger) (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, errRequiredEnv("DATABASE_URL")
	}
	host := os.Getenv("HOST")
	if host == "" {
		return nil, errRequiredEnv("HOST")
	}

	syncHost := os.Getenv("SYNC_HOST")
	if syncHost == "" {
		syncHost = ":9090"
	}

	cfg := &Config{
		DatabaseURL: databaseURL,
		Host:        host,
		FrontendDir: os.Getenv("FRONTEND_DIR"),
		SyncHost:    syncHost,
	}

	opmlConcurrency := pkgconfig.LoadEnvInt("OPML_CONCURRENCY", 5, func(v int) error {
		return pkgconfig.ValidateIntRange(v, 1, 100)
	})
	logFallback(logger, opmlConcurrency)
	cfg.OpmlConcurrency = opmlConcurrency.Value.(int)

	opmlMaxBytes := pkgconfig.LoadEnvInt("OPML_MAX_BYTES", 5<<20, func(v int) error {
		return pkgconfig.ValidateIntRange(v, 1024, 100<<20)
	})
	logFallback(logger, opmlMaxBytes)
	cfg.OpmlMaxBytes = int64(opmlMaxBytes.Value.(int))

	httpClientTimeout := pkgconfig.LoadEnvDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second, pkgconfig.ValidatePositiveDuration)
	logFallback(logger, httpClientTimeout)
	cfg.HTTPClientTimeout = httpClientTimeout.Value.(time.Duration)

	return cfg, nil
}

func logFallback(logger *slog.Logger, result pkgconfig.ConfigLoadResult) {
	if !result.FallbackApplied {
		return
	}
	for _, warning := range result.Warnings {
		logger.Warn("configuration fallback applied", slog.String("detail", warning))
	}
}

type requiredEnvError struct {
	key string
}

func (e *requiredEnvError) Error() string {
	return e.key + " must be set"
}

func errRequiredEnv(key string) error {
	return &requiredEnvError{key: key}
}
