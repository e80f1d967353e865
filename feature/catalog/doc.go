// Package catalog implements the seed catalog feature.
//
// It reconciles staged datasets (indexes, common names, botanical names,
// series, cultivars and packets) into the database and exports the catalog
// back as a dataset.
//
// # Components
//
//   - Service: serializes reconciliation runs, checks thumbnails in storage and
//     owns the export cache.
//   - Handler: exposes the HTTP endpoints below.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - POST /catalog/reconcile : Reconcile a JSON or YAML dataset (supports ?dry_run=true).
//   - GET /catalog/export : Export the catalog (?format=yaml, ?upload=true).
//   - GET /catalog/cultivars/lookup : Find one cultivar by its lookup fields.
//   - GET /catalog/runs/:id : Get a stored reconciliation run.
package catalog
