package reconcile

import (
	"context"
	"encoding/json"
	"fmt"

	"seed-catalog/core/dbctx"
	"seed-catalog/core/logger"
	"seed-catalog/core/reconcile"
	"seed-catalog/feature/catalog/models"
	"seed-catalog/feature/catalog/naming"
	"seed-catalog/feature/catalog/repository"
	"seed-catalog/feature/catalog/staging"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ThumbnailChecker reports whether a thumbnail file exists in storage.
type ThumbnailChecker interface {
	ThumbnailExists(ctx context.Context, filename string) (bool, error)
}

// Driver reconciles staged datasets into the catalog.
type Driver struct {
	repo       *repository.Repository
	resolver   *Resolver
	engine     *reconcile.Engine
	thumbnails ThumbnailChecker
	logger     *zap.Logger
	engineOpts []reconcile.EngineOption
}

// Option customizes a Driver.
type Option func(*Driver)

// WithThumbnailChecker enables storage checks for referenced thumbnails.
func WithThumbnailChecker(c ThumbnailChecker) Option {
	return func(d *Driver) {
		d.thumbnails = c
	}
}

// WithObserver forwards per-record measurements to o.
func WithObserver(o reconcile.Observer) Option {
	return func(d *Driver) {
		d.engineOpts = append(d.engineOpts, reconcile.WithObserver(o))
	}
}

// NewDriver creates a new Driver.
func NewDriver(db *gorm.DB, logger *zap.Logger, opts ...Option) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	repo := repository.New(db)
	d := &Driver{
		repo:     repo,
		resolver: NewResolver(repo),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	engineOpts := append([]reconcile.EngineOption{reconcile.WithKindOrder(KindOrder...)}, d.engineOpts...)
	d.engine = reconcile.NewEngine(db, logger, engineOpts...)
	return d
}

// Repository returns the stores the driver writes through.
func (d *Driver) Repository() *repository.Repository {
	return d.repo
}

// Units turns a dataset into engine units, one per staged record.
func (d *Driver) Units(ds *staging.Dataset) []reconcile.Unit {
	units := make([]reconcile.Unit, 0, ds.Len())
	for _, r := range ds.Indexes {
		units = append(units, reconcile.Unit{
			Kind:  KindIndex,
			Label: r.Name,
			Row:   r.Row,
			Apply: func(dc dbctx.Context, rec *reconcile.Recorder) error { return d.applyIndex(dc, rec, r) },
		})
	}
	for _, r := range ds.CommonNames {
		units = append(units, reconcile.Unit{
			Kind:     KindCommonName,
			Label:    r.Name,
			Row:      r.Row,
			Apply:    func(dc dbctx.Context, rec *reconcile.Recorder) error { return d.applyCommonName(dc, rec, r) },
			OnReject: d.commonNameStillReferenced(r.Lookup()),
		})
	}
	for _, r := range ds.BotanicalNames {
		units = append(units, reconcile.Unit{
			Kind:  KindBotanicalName,
			Label: r.Name,
			Row:   r.Row,
			Apply: func(dc dbctx.Context, rec *reconcile.Recorder) error { return d.applyBotanicalName(dc, rec, r) },
		})
	}
	for _, r := range ds.Series {
		units = append(units, reconcile.Unit{
			Kind:  KindSeries,
			Label: r.Name,
			Row:   r.Row,
			Apply: func(dc dbctx.Context, rec *reconcile.Recorder) error { return d.applySeries(dc, rec, r) },
		})
	}
	for _, r := range ds.Cultivars {
		units = append(units, reconcile.Unit{
			Kind:     KindCultivar,
			Label:    r.Lookup().String(),
			Row:      r.Row,
			Apply:    func(dc dbctx.Context, rec *reconcile.Recorder) error { return d.applyCultivar(dc, rec, r) },
			OnReject: d.cultivarStillReferenced(r.Lookup()),
		})
	}
	for _, r := range ds.Packets {
		units = append(units, reconcile.Unit{
			Kind:  KindPacket,
			Label: r.SKU,
			Row:   r.Row,
			Apply: func(dc dbctx.Context, rec *reconcile.Recorder) error { return d.applyPacket(dc, rec, r) },
		})
	}
	return units
}

// Run reconciles ds. Non-dry runs are recorded as a ReconcileRun labelled
// with source. A failed commit is returned unmodified.
func (d *Driver) Run(ctx context.Context, ds *staging.Dataset, source string, opts reconcile.Options) (*reconcile.Report, error) {
	report, err := d.engine.Run(ctx, d.Units(ds), opts)
	if err != nil {
		return report, err
	}
	if report.DryRun {
		return report, nil
	}
	if err := d.recordRun(ctx, source, report); err != nil {
		return report, err
	}
	return report, nil
}

func (d *Driver) recordRun(ctx context.Context, source string, report *reconcile.Report) error {
	events, err := json.Marshal(report.Events)
	if err != nil {
		return fmt.Errorf("failed to marshal run events: %w", err)
	}
	rejected, err := json.Marshal(report.Rejected)
	if err != nil {
		return fmt.Errorf("failed to marshal run rejections: %w", err)
	}

	totals := report.Totals()
	run := &models.ReconcileRun{
		RunID:      report.RunID,
		Source:     source,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Created:    totals.Created,
		Updated:    totals.Updated,
		Unchanged:  totals.Unchanged,
		Rejected:   totals.Rejected,
		Events:     datatypes.JSON(events),
		Rejections: datatypes.JSON(rejected),
	}
	if err := d.repo.Runs.Save(dbctx.Context{Ctx: ctx}, run); err != nil {
		return fmt.Errorf("failed to record run %s: %w", report.RunID, err)
	}
	return nil
}

// commonNameStillReferenced warns when a rejected common name remains the
// target of grows-with edges. The edges and the hidden placeholder are kept.
func (d *Driver) commonNameStillReferenced(l models.CommonNameLookup) func(dbctx.Context, error) []reconcile.Event {
	return func(dc dbctx.Context, _ error) []reconcile.Event {
		idx, err := d.repo.Indexes.FindByKey(dc, repository.IndexKey{Name: naming.Dbify(l.Index)})
		if err != nil {
			return nil
		}
		cn, err := d.repo.CommonNames.FindByKey(dc, repository.CommonNameKey{IndexID: idx.ID, Name: naming.Dbify(l.Name)})
		if err != nil {
			return nil
		}
		return d.stillReferenced(dc, KindCommonName, cn.Name, cn.ID,
			repository.CommonNameGrowsWith, repository.CultivarGrowsWithCommonNames)
	}
}

func (d *Driver) cultivarStillReferenced(l models.CultivarLookup) func(dbctx.Context, error) []reconcile.Event {
	return func(dc dbctx.Context, _ error) []reconcile.Event {
		idx, err := d.repo.Indexes.FindByKey(dc, repository.IndexKey{Name: naming.Dbify(l.Index)})
		if err != nil {
			return nil
		}
		cn, err := d.repo.CommonNames.FindByKey(dc, repository.CommonNameKey{IndexID: idx.ID, Name: naming.Dbify(l.CommonName)})
		if err != nil {
			return nil
		}
		key := repository.CultivarKey{CommonNameID: cn.ID, Name: naming.Dbify(l.Cultivar)}
		if l.Series != "" {
			s, err := d.repo.Series.FindByKey(dc, repository.SeriesKey{CommonNameID: cn.ID, Name: naming.Dbify(l.Series)})
			if err != nil {
				return nil
			}
			key.SeriesID = s.ID
		}
		cv, err := d.repo.Cultivars.FindByKey(dc, key)
		if err != nil {
			return nil
		}
		return d.stillReferenced(dc, KindCultivar, cv.FullName(), cv.ID,
			repository.CommonNameGrowsWithCultivars, repository.CultivarGrowsWith)
	}
}

func (d *Driver) stillReferenced(dc dbctx.Context, kind, entity string, id uint, links ...repository.Link) []reconcile.Event {
	var total int64
	for _, link := range links {
		n, err := d.repo.Links.Owners(dc, link, id)
		if err != nil {
			d.logger.Warn("Failed to count grows-with owners", append(logger.RecordFields(kind, entity, 0), zap.Error(err))...)
			return nil
		}
		total += n
	}
	if total == 0 {
		return nil
	}
	return []reconcile.Event{reconcile.Warning(kind, entity,
		fmt.Sprintf("'%s' was rejected but is still listed in Grows With of %d record(s); the existing entry is kept.", entity, total))}
}
