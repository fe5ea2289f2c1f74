package metrics

import "time"

// RecordFeedSync records the outcome and duration of one sync attempt,
// tagged with the same string synctag.Classify produces.
func RecordFeedSync(result string, duration time.Duration) {
	FeedSyncsTotal.WithLabelValues(result).Inc()
	FeedSyncDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordFaviconResolution records whether a feed's favicon resolution
// produced an icon.
func RecordFaviconResolution(found bool) {
	outcome := "none"
	if found {
		outcome = "found"
	}
	FaviconResolutionsTotal.WithLabelValues(outcome).Inc()
}

// RecordOpmlImportJob records the terminal status of one OPML import job.
func RecordOpmlImportJob(status string) {
	OpmlImportJobsTotal.WithLabelValues(status).Inc()
}

// RecordOpmlImportItem records the outcome of one URL within an OPML
// import job: imported, skipped, or failed.
func RecordOpmlImportItem(outcome string) {
	OpmlImportItemsTotal.WithLabelValues(outcome).Inc()
}

// UpdateFeedsTotal updates the total count of feeds in the database.
func UpdateFeedsTotal(count int) {
	FeedsTotal.Set(float64(count))
}

// UpdateEntriesTotal updates the total count of entries in the database.
func UpdateEntriesTotal(count int) {
	EntriesTotal.Set(float64(count))
}

// RecordDBQuery records the duration of a database query operation.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
