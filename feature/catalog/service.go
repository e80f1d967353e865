package catalog

import (
	"context"
	"errors"
	"path"
	"sync"
	"time"

	"seed-catalog/core/dbctx"
	"seed-catalog/core/logger"
	"seed-catalog/core/reconcile"
	"seed-catalog/core/storage"
	"seed-catalog/feature/catalog/export"
	"seed-catalog/feature/catalog/models"
	catalog "seed-catalog/feature/catalog/reconcile"
	"seed-catalog/feature/catalog/repository"
	"seed-catalog/feature/catalog/staging"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrRunInProgress is returned when a reconciliation is requested while
// another one is still running.
var ErrRunInProgress = errors.New("a reconciliation run is already in progress")

// Config holds the catalog service settings.
type Config struct {
	Bucket          string
	ThumbnailPrefix string
	ExportPrefix    string
	SnapshotTTL     time.Duration
	CheckThumbnails bool
}

// Service handles catalog operations.
type Service struct {
	client   storage.Client
	cfg      Config
	logger   *zap.Logger
	driver   *catalog.Driver
	exporter *export.Exporter
	// Only one pass may write at a time; dry runs share the lock since they
	// hold an open transaction for the whole pass.
	runMu sync.Mutex
}

// NewService creates a new catalog service. client may be nil, which
// disables thumbnail checks and export uploads.
func NewService(db *gorm.DB, client storage.Client, cfg Config, logger *zap.Logger, observer reconcile.Observer) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ThumbnailPrefix == "" {
		cfg.ThumbnailPrefix = "thumbnails"
	}
	s := &Service{
		client: client,
		cfg:    cfg,
		logger: logger,
	}

	var opts []catalog.Option
	if observer != nil {
		opts = append(opts, catalog.WithObserver(observer))
	}
	if client != nil && cfg.CheckThumbnails {
		opts = append(opts, catalog.WithThumbnailChecker(s))
	}
	s.driver = catalog.NewDriver(db, logger, opts...)
	s.exporter = export.NewExporter(s.driver.Repository(), client, export.Config{
		Bucket: cfg.Bucket,
		Prefix: cfg.ExportPrefix,
		TTL:    cfg.SnapshotTTL,
	}, logger)
	return s
}

// ThumbnailExists reports whether a thumbnail is present in storage.
func (s *Service) ThumbnailExists(ctx context.Context, filename string) (bool, error) {
	return storage.ObjectExists(ctx, s.client, s.cfg.Bucket, path.Join(s.cfg.ThumbnailPrefix, filename))
}

// Reconcile applies ds to the catalog.
func (s *Service) Reconcile(ctx context.Context, ds *staging.Dataset, source string, opts reconcile.Options) (*reconcile.Report, error) {
	if !s.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	report, err := s.driver.Run(ctx, ds, source, opts)
	if report != nil && !report.DryRun && len(report.Records) > 0 {
		s.exporter.Invalidate()
	}
	if err != nil {
		return report, err
	}

	totals := report.Totals()
	logger.WithRun(s.logger, report.RunID).Info("Reconciliation finished",
		zap.String("source", source),
		zap.Bool("dry_run", report.DryRun),
		zap.Int("created", totals.Created),
		zap.Int("updated", totals.Updated),
		zap.Int("unchanged", totals.Unchanged),
		zap.Int("rejected", totals.Rejected))
	return report, nil
}

// Export returns the catalog as a staged dataset.
func (s *Service) Export(ctx context.Context) (*staging.Dataset, error) {
	return s.exporter.Dataset(ctx)
}

// UploadExport writes the current catalog to object storage and returns the key.
func (s *Service) UploadExport(ctx context.Context, format staging.Format) (string, error) {
	ds, err := s.exporter.Dataset(ctx)
	if err != nil {
		return "", err
	}
	return s.exporter.Upload(ctx, ds, format)
}

// LookupCultivar returns one cultivar in staged form.
func (s *Service) LookupCultivar(ctx context.Context, l models.CultivarLookup) (*staging.CultivarRecord, error) {
	return s.exporter.FindCultivar(ctx, l)
}

// GetRun returns a stored reconciliation run.
func (s *Service) GetRun(ctx context.Context, runID string) (*models.ReconcileRun, error) {
	return s.driver.Repository().Runs.FindByKey(dbctx.Context{Ctx: ctx}, repository.RunKey{RunID: runID})
}
