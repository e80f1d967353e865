// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so features can be
// tested against core/storage/mocks. Both AWS S3 and self-hosted MinIO work.
//
// The catalog keeps two prefixes in its bucket:
//
//   - thumbnails/: images referenced by Index and Cultivar records
//   - exports/: datasets written by the export command and endpoint
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	ok, err := storage.ObjectExists(ctx, client, "catalog", "thumbnails/pink.jpg")
package storage
