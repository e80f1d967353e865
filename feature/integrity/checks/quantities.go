package checks

import (
	"context"

	"seed-catalog/core/dbctx"
	"seed-catalog/feature/catalog/repository"

	"go.uber.org/zap"
)

// OrphanedQuantities lists the labels of quantities no packet uses.
func OrphanedQuantities(ctx context.Context, repo *repository.Repository) ([]string, error) {
	orphans, err := repo.Quantities.Orphans(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(orphans))
	for i := range orphans {
		labels = append(labels, orphans[i].Label())
	}
	return labels, nil
}

// FixOrphanedQuantities deletes quantities no packet uses and returns their
// labels.
func FixOrphanedQuantities(ctx context.Context, repo *repository.Repository, logger *zap.Logger) ([]string, error) {
	dc := dbctx.Context{Ctx: ctx}
	orphans, err := repo.Quantities.Orphans(dc)
	if err != nil {
		return nil, err
	}

	removed := make([]string, 0, len(orphans))
	for i := range orphans {
		q := &orphans[i]
		if err := repo.Quantities.Delete(dc, q); err != nil {
			logger.Error("Failed to delete quantity", zap.String("quantity", q.Label()), zap.Error(err))
			return removed, err
		}
		logger.Info("Deleted orphaned quantity", zap.String("quantity", q.Label()))
		removed = append(removed, q.Label())
	}
	return removed, nil
}
