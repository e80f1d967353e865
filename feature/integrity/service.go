package integrity

import (
	"context"
	"errors"

	"seed-catalog/core/storage"
	"seed-catalog/feature/catalog/repository"
	"seed-catalog/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoDatabase is returned by checks that need the catalog database when
// none is configured.
var ErrNoDatabase = errors.New("database is not configured")

// Service handles integrity checks.
type Service struct {
	client          storage.Client
	bucket          string
	thumbnailPrefix string
	logger          *zap.Logger
	db              *gorm.DB
	repo            *repository.Repository
}

// NewService creates a new integrity service. db may be nil, in which case
// only the storage checks are available.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, thumbnailPrefix string) *Service {
	if thumbnailPrefix == "" {
		thumbnailPrefix = "thumbnails"
	}
	s := &Service{
		client:          client,
		bucket:          bucket,
		thumbnailPrefix: thumbnailPrefix,
		logger:          logger,
		db:              db,
	}
	if db != nil {
		s.repo = repository.New(db)
	}
	return s
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckThumbnails compares catalog images with stored thumbnails.
func (s *Service) CheckThumbnails(ctx context.Context) (*checks.ThumbnailReport, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	return checks.CheckThumbnails(ctx, s.db, s.client, s.bucket, s.thumbnailPrefix)
}

// CheckSchema compares the live schema with the catalog models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	return checks.CheckSchema(s.db)
}

// CheckQuantities lists quantities no packet uses.
func (s *Service) CheckQuantities(ctx context.Context) ([]string, error) {
	if s.repo == nil {
		return nil, ErrNoDatabase
	}
	return checks.OrphanedQuantities(ctx, s.repo)
}

// FixQuantities deletes quantities no packet uses.
func (s *Service) FixQuantities(ctx context.Context) ([]string, error) {
	if s.repo == nil {
		return nil, ErrNoDatabase
	}
	return checks.FixOrphanedQuantities(ctx, s.repo, s.logger)
}
