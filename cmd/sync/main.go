// Command sync runs the background feed sync loop: every tick it claims a
// batch of due feeds and fetches them concurrently. It exposes its own
// small HTTP server for /metrics and /api/health so it can be scraped and
// probed independently of the API process.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"catchup-feed/internal/config"
	"catchup-feed/internal/feedloader"
	"catchup-feed/internal/feedloader/httpclient"
	hhttp "catchup-feed/internal/handler/http"
	"catchup-feed/internal/infra/adapter/persistence/postgres"
	"catchup-feed/internal/infra/db"
	"catchup-feed/internal/observability/logging"
	"catchup-feed/internal/resilience/retry"
	"catchup-feed/internal/syncsched"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	database := openDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	storage := postgres.New(database)
	httpclient.Init(cfg.HTTPClientTimeout)
	loader := feedloader.New()
	scheduler := syncsched.New(storage, loader, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := startSideServer(logger, database, cfg.SyncHost)
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		scheduler.Stop()
	}()

	scheduler.Run(ctx)
	logger.Info("sync scheduler exited")
}

func openDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
		return database.PingContext(ctx)
	}); err != nil {
		logger.Error("database unreachable at startup", slog.Any("error", err))
		os.Exit(1)
	}

	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// startSideServer exposes /metrics and /api/health on the sync process's
// own address so it can be scraped/probed without going through the API.
func startSideServer(logger *slog.Logger, database *sql.DB, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /api/health", &hhttp.HealthHandler{DB: database})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("sync side server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("sync side server failed", slog.Any("error", err))
		}
	}()

	return srv
}
