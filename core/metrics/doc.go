// Package metrics exposes reconciliation counters and latencies to Prometheus.
//
// A Metrics value is passed to the reconcile engine as its Observer; the
// start command mounts Handler at GET /metrics, outside API-key auth.
package metrics
