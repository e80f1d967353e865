// Package integrity provides health checks for the catalog's storage and
// database.
//
// Unlike the 'catalog' package which reconciles catalog content, this
// package validates the infrastructure the catalog relies on.
//
// # Checks Provided
//
//   - Structure: Checks if the required folders exist in the storage bucket (e.g., /thumbnails, /exports).
//   - Schema: Validates that the connected database schema matches the catalog models (columns, type families).
//   - Thumbnails: Compares catalog images with the objects stored under the thumbnail folder.
//   - Quantities: Lists packet quantities that no packet uses any more.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/schema : Runs schema check.
//   - GET /integrity/thumbnails : Runs thumbnail check.
//   - GET /integrity/quantities : Runs quantity check (supports ?fix=true).
package integrity
