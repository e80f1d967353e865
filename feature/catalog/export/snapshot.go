package export

import (
	"context"
	"fmt"

	"seed-catalog/core/dbctx"
	"seed-catalog/feature/catalog/models"
	"seed-catalog/feature/catalog/repository"

	"golang.org/x/sync/errgroup"
)

// Snapshot holds every catalog entity with the relations an export needs.
type Snapshot struct {
	Indexes        []models.Index
	CommonNames    []models.CommonName
	BotanicalNames []models.BotanicalName
	Series         []models.Series
	Cultivars      []models.Cultivar
	Packets        []models.Packet
}

// LoadSnapshot reads all entity kinds in parallel.
func LoadSnapshot(ctx context.Context, repo *repository.Repository) (*Snapshot, error) {
	var snap Snapshot
	g, ctxGroup := errgroup.WithContext(ctx)
	dc := dbctx.Context{Ctx: ctxGroup}

	g.Go(func() (err error) {
		snap.Indexes, err = repo.Indexes.List(dc)
		return err
	})
	g.Go(func() (err error) {
		snap.CommonNames, err = repo.CommonNames.List(dc)
		return err
	})
	g.Go(func() (err error) {
		snap.BotanicalNames, err = repo.BotanicalNames.List(dc)
		return err
	})
	g.Go(func() (err error) {
		snap.Series, err = repo.Series.List(dc)
		return err
	})
	g.Go(func() (err error) {
		snap.Cultivars, err = repo.Cultivars.List(dc)
		return err
	})
	g.Go(func() (err error) {
		snap.Packets, err = repo.Packets.List(dc)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load catalog snapshot: %w", err)
	}
	return &snap, nil
}
