// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business metrics track feed aggregation operations. HTTP-level metrics
// live alongside the mux middleware in internal/handler/http; this package
// covers the background sync loop, the OPML worker, and storage.
var (
	// FeedsTotal tracks total number of feeds in database
	FeedsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feeds_total",
			Help: "Total number of feeds in the database",
		},
	)

	// EntriesTotal tracks total number of entries in database
	EntriesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "entries_total",
			Help: "Total number of entries in the database",
		},
	)

	// FeedSyncsTotal counts sync attempts by their result tag
	FeedSyncsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_syncs_total",
			Help: "Total number of feed sync attempts by result tag",
		},
		[]string{"result"},
	)

	// FeedSyncDuration measures time to load and upsert one feed
	FeedSyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_sync_duration_seconds",
			Help:    "Time taken to load and upsert one feed",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"result"},
	)

	// FaviconResolutionsTotal counts favicon resolution attempts by outcome
	FaviconResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favicon_resolutions_total",
			Help: "Total number of favicon resolution attempts",
		},
		[]string{"outcome"}, // found, none
	)

	// OpmlImportJobsTotal counts OPML import jobs by terminal status
	OpmlImportJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opml_import_jobs_total",
			Help: "Total number of OPML import jobs by terminal status",
		},
		[]string{"status"},
	)

	// OpmlImportItemsTotal counts individual OPML import items by outcome
	OpmlImportItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opml_import_items_total",
			Help: "Total number of OPML import items by outcome",
		},
		[]string{"outcome"}, // imported, skipped, failed
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)
