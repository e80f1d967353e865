package checks

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"seed-catalog/core/storage"
	"seed-catalog/feature/catalog/models"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

// ThumbnailReport compares the images known to the catalog with the
// objects stored under the thumbnail folder.
type ThumbnailReport struct {
	Referenced int `json:"referenced"`
	Stored     int `json:"stored"`
	// Missing are catalog images with no object in storage.
	Missing []string `json:"missing"`
	// Unused are stored objects no catalog image points at.
	Unused []string `json:"unused"`
}

// CheckThumbnails lists catalog images missing from storage and stored
// thumbnails unknown to the catalog.
func CheckThumbnails(ctx context.Context, db *gorm.DB, client storage.Client, bucket, prefix string) (*ThumbnailReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var images []models.Image
	if err := db.WithContext(ctx).Order("filename").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	stored := make(map[string]bool)
	opts := minio.ListObjectsOptions{Prefix: folderKey(prefix), Recursive: true}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, folderKey(prefix))
		// Skip the folder marker itself
		if name == "" {
			continue
		}
		stored[name] = true
	}

	report := &ThumbnailReport{
		Referenced: len(images),
		Stored:     len(stored),
		Missing:    []string{},
		Unused:     []string{},
	}
	known := make(map[string]bool, len(images))
	for _, img := range images {
		known[img.Filename] = true
		if !stored[img.Filename] {
			report.Missing = append(report.Missing, path.Join(prefix, img.Filename))
		}
	}
	for name := range stored {
		if !known[name] {
			report.Unused = append(report.Unused, path.Join(prefix, name))
		}
	}
	sort.Strings(report.Unused)
	return report, nil
}
