package cmd

import (
	"fmt"

	"seed-catalog/core/config"
	"seed-catalog/core/database"
	"seed-catalog/core/reconcile"
	"seed-catalog/core/storage"
	"seed-catalog/feature/catalog"
	"seed-catalog/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// connectCatalog opens the catalog database and runs migrations when enabled.
func connectCatalog(cfg *config.Config, logg *zap.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Catalog.AutoMigrate {
		if err := models.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate catalog tables: %w", err)
		}
		logg.Debug("Catalog tables migrated")
	}
	return db, nil
}

// optionalStorage returns a storage client, or nil with a warning when the
// storage backend cannot be configured.
func optionalStorage(cfg *config.Config, logg *zap.Logger) storage.Client {
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		logg.Warn("Storage unavailable; thumbnail checks and uploads are disabled", zap.Error(err))
		return nil
	}
	return client
}

// newCatalogService wires the catalog service from configuration.
func newCatalogService(cfg *config.Config, db *gorm.DB, client storage.Client, logg *zap.Logger, observer reconcile.Observer) *catalog.Service {
	return catalog.NewService(db, client, catalog.Config{
		Bucket:          cfg.Storage.Bucket,
		ThumbnailPrefix: cfg.Catalog.ThumbnailPrefix,
		ExportPrefix:    cfg.Catalog.ExportPrefix,
		SnapshotTTL:     cfg.Catalog.SnapshotTTL(),
		CheckThumbnails: cfg.Catalog.CheckThumbnails,
	}, logg, observer)
}
