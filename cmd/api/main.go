// Command api serves the HTTP surface: feed/entry CRUD, OPML import and
// its SSE progress stream, metrics, health, and (optionally) the built
// SPA frontend. The background sync loop runs in a separate binary
// (cmd/sync) so the two can scale and restart independently.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"catchup-feed/internal/config"
	"catchup-feed/internal/feedloader"
	"catchup-feed/internal/feedloader/httpclient"
	hhttp "catchup-feed/internal/handler/http"
	hentry "catchup-feed/internal/handler/http/entry"
	hfeed "catchup-feed/internal/handler/http/feed"
	"catchup-feed/internal/handler/http/frontend"
	"catchup-feed/internal/handler/http/requestid"
	"catchup-feed/internal/infra/adapter/persistence/postgres"
	"catchup-feed/internal/infra/db"
	"catchup-feed/internal/observability/logging"
	"catchup-feed/internal/observability/tracing"
	"catchup-feed/internal/opml"
	"catchup-feed/internal/resilience/retry"
)

// @title           Catchup Feed API
// @version         1.0
// @description     RSS/Atom feed aggregator backend: add feeds, sync them on
// @description     a schedule or on demand, browse and triage entries, bulk
// @description     import via OPML.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	database := openDatabase(logger, cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	handler := buildHandler(logger, cfg, database)
	runServer(logger, cfg, handler)
}

func openDatabase(logger *slog.Logger, cfg *config.Config) *sql.DB {
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

func buildHandler(logger *slog.Logger, cfg *config.Config, database *sql.DB) http.Handler {
	storage := postgres.New(database)
	httpclient.Init(cfg.HTTPClientTimeout)
	loader := feedloader.New()
	coordinator := opml.NewCoordinator(storage, loader, logger)

	mux := http.NewServeMux()
	mux.Handle("GET /api/health", &hhttp.HealthHandler{DB: database})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /api/docs/", httpSwagger.WrapHandler)

	hfeed.Register(mux, storage, loader, coordinator, logger)
	hentry.Register(mux, storage)

	if cfg.FrontendDir != "" {
		mux.Handle("/", frontend.Handler(cfg.FrontendDir))
		logger.Info("frontend enabled", slog.String("dir", cfg.FrontendDir))
	}

	var handler http.Handler = mux
	handler = hhttp.MetricsMiddleware(handler)
	handler = hhttp.LimitRequestBody(opml.MaxUploadBytes)(handler)
	handler = hhttp.Logging(logger)(handler)
	handler = hhttp.Recover(logger)(handler)
	handler = tracing.Middleware(handler)
	handler = requestid.Middleware(handler)

	return handler
}

func runServer(logger *slog.Logger, cfg *config.Config, handler http.Handler) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.Host,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting", slog.String("addr", cfg.Host))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
