// Package server holds the HTTP server configuration.
//
// The start command owns the Fiber app; this package only defines the
// settings it reads: the listen port, the API key checked by the auth
// middleware and the body limit applied to uploaded datasets.
package server
