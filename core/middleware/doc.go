// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or api_key query parameter).
//   - rayid: a unique request id (RayID) for every incoming request, stored in
//     the context locals and echoed in the X-Ray-ID response header.
//
// The start command registers rayid first so every log line carries the id,
// then request logging, then auth.
package middleware
