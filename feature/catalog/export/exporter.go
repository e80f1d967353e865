package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"seed-catalog/core/dbctx"
	"seed-catalog/core/reconcile"
	"seed-catalog/core/storage"
	"seed-catalog/feature/catalog/models"
	"seed-catalog/feature/catalog/naming"
	"seed-catalog/feature/catalog/repository"
	"seed-catalog/feature/catalog/staging"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const snapshotKey = "catalog"

// ErrStorageDisabled is returned by Upload when no storage client is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

// Exporter builds, caches and uploads catalog datasets.
type Exporter struct {
	repo   *repository.Repository
	cache  *reconcile.SnapshotCache[*staging.Dataset]
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger
	now    func() time.Time
}

// Config holds the storage target of uploaded exports.
type Config struct {
	Bucket string
	Prefix string
	TTL    time.Duration
}

// NewExporter creates a new Exporter. client may be nil, which disables Upload.
func NewExporter(repo *repository.Repository, client storage.Client, cfg Config, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "exports"
	}
	return &Exporter{
		repo:   repo,
		cache:  reconcile.NewSnapshotCache[*staging.Dataset](cfg.TTL),
		client: client,
		bucket: cfg.Bucket,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

// Dataset returns the current catalog as a staged dataset.
func (e *Exporter) Dataset(ctx context.Context) (*staging.Dataset, error) {
	return e.cache.Get(ctx, snapshotKey, func(ctx context.Context) (*staging.Dataset, error) {
		start := time.Now()
		snap, err := LoadSnapshot(ctx, e.repo)
		if err != nil {
			return nil, err
		}
		ds := snap.Dataset()
		e.logger.Debug("Built catalog snapshot",
			zap.Int("records", ds.Len()),
			zap.Duration("elapsed", time.Since(start)))
		return ds, nil
	})
}

// Invalidate drops the cached dataset so the next export reads the database.
func (e *Exporter) Invalidate() {
	e.cache.Invalidate(snapshotKey)
}

// Upload writes ds to object storage under the export prefix and returns
// the object key.
func (e *Exporter) Upload(ctx context.Context, ds *staging.Dataset, format staging.Format) (string, error) {
	if e.client == nil {
		return "", ErrStorageDisabled
	}

	var buf bytes.Buffer
	if err := staging.Encode(&buf, ds, format); err != nil {
		return "", err
	}

	key := path.Join(e.prefix, fmt.Sprintf("catalog-%s.%s", e.now().UTC().Format("20060102-150405"), format))
	opts := minio.PutObjectOptions{ContentType: contentType(format)}
	if _, err := e.client.PutObject(ctx, e.bucket, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), opts); err != nil {
		return "", fmt.Errorf("failed to upload export %s: %w", key, err)
	}
	e.logger.Info("Uploaded catalog export", zap.String("key", key), zap.Int("bytes", buf.Len()))
	return key, nil
}

func contentType(format staging.Format) string {
	if format == staging.FormatJSON {
		return "application/json"
	}
	return "application/yaml"
}

// FindCultivar looks up one cultivar by its natural key without creating
// anything and returns it in staged form.
func (e *Exporter) FindCultivar(ctx context.Context, l models.CultivarLookup) (*staging.CultivarRecord, error) {
	dc := dbctx.Context{Ctx: ctx}
	idx, err := e.repo.Indexes.FindByKey(dc, repository.IndexKey{Name: naming.Dbify(l.Index)})
	if err != nil {
		return nil, err
	}
	cn, err := e.repo.CommonNames.FindByKey(dc, repository.CommonNameKey{IndexID: idx.ID, Name: naming.Dbify(l.CommonName)})
	if err != nil {
		return nil, err
	}
	key := repository.CultivarKey{CommonNameID: cn.ID, Name: naming.Dbify(l.Cultivar)}
	if l.Series != "" {
		s, err := e.repo.Series.FindByKey(dc, repository.SeriesKey{CommonNameID: cn.ID, Name: naming.Dbify(l.Series)})
		if err != nil {
			return nil, err
		}
		key.SeriesID = s.ID
	}
	cv, err := e.repo.Cultivars.FindByKey(dc, key)
	if err != nil {
		return nil, err
	}
	r := CultivarRecord(cv, 0)
	return &r, nil
}
