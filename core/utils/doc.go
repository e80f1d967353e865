// Package utils holds loose value conversions used when typing staged
// records decoded from JSON or YAML documents.
package utils
