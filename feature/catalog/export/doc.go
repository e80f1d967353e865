// Package export turns the persisted catalog back into a staged dataset.
//
// Relations are written as lookup dictionaries, the same shape the
// reconciler reads, so an exported dataset can be reconciled again and
// reports every record as unchanged.
//
// Snapshots are loaded with one query per entity kind, run concurrently,
// and cached for a configurable time. Reconciliation runs invalidate the
// cache.
package export
