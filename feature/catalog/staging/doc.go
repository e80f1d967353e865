// Package staging turns external catalog documents into typed staged
// records: dataset documents (JSON or YAML, one list per entity kind) and
// trees scraped from common-name pages.
//
// Optional columns keep their absence: a nil field is left untouched by
// reconciliation while a present empty value clears. Rows that cannot be
// typed keep their error in Err and are rejected individually.
package staging
