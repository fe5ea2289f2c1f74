// Package metrics provides Prometheus metrics registry and recording
// utilities for the feed sync loop, the OPML worker, and storage.
// HTTP-request-level metrics live alongside the mux middleware in
// internal/handler/http instead, since they're recorded per-request from
// that layer's wrapped ResponseWriter.
//
// All metrics are automatically registered with the Prometheus default
// registry and exposed via the /metrics endpoint.
package metrics
