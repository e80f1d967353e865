// Package naming normalizes catalog names: storage casing (Dbify), slugs,
// pluralization, cultivar display names and botanical-name validation.
package naming
