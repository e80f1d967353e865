package reconcile

import (
	"errors"
	"fmt"

	"seed-catalog/core/dbctx"
	"seed-catalog/core/reconcile"
	"seed-catalog/feature/catalog/codec"
	"seed-catalog/feature/catalog/models"
	"seed-catalog/feature/catalog/naming"
	"seed-catalog/feature/catalog/repository"
	"seed-catalog/feature/catalog/staging"

	"go.uber.org/zap"
)

// commit emits the field events and saves the entity when anything about
// its own columns changed.
func commit(rec *reconcile.Recorder, events []reconcile.Event, dirty bool, save func() error) error {
	rec.Emit(events...)
	if len(events) == 0 && !dirty {
		return nil
	}
	return save()
}

func (d *Driver) applyIndex(dc dbctx.Context, rec *reconcile.Recorder, r staging.IndexRecord) error {
	if r.Err != nil {
		return r.Err
	}
	idx, created, err := d.resolver.Index(dc, rec, r.Name)
	if err != nil {
		return err
	}
	if err := rec.Resolved(idx.Name, created); err != nil {
		return err
	}

	thumb, err := d.thumbnailField(dc, rec, KindIndex, idx.Name, r.Thumbnail, &idx.ThumbnailID, &idx.Thumbnail)
	if err != nil {
		return err
	}
	events := reconcile.DiffFields(KindIndex, idx.Name,
		reconcile.Text("Description", r.Description, &idx.Description),
		thumb,
	)
	return commit(rec, events, false, func() error { return d.repo.Indexes.Save(dc, idx) })
}

func (d *Driver) applyCommonName(dc dbctx.Context, rec *reconcile.Recorder, r staging.CommonNameRecord) error {
	if r.Err != nil {
		return r.Err
	}
	cn, created, err := d.resolver.CommonName(dc, rec, r.Lookup())
	if err != nil {
		return err
	}
	if err := rec.Resolved(cn.Name, created); err != nil {
		return err
	}

	parent, err := d.parentField(dc, rec, cn, r.Parent)
	if err != nil {
		return err
	}
	events := reconcile.DiffFields(KindCommonName, cn.Name,
		reconcile.Text("Description", r.Description, &cn.Description),
		reconcile.Text("Planting Instructions", r.Instructions, &cn.Instructions),
		parent,
	)
	shown, dirty := applyVisibility(KindCommonName, cn.Name, created, r.Visible, &cn.Invisible)
	events = append(events, shown...)
	if err := commit(rec, events, dirty, func() error { return d.repo.CommonNames.Save(dc, cn) }); err != nil {
		return err
	}

	id := cn.ID
	synonyms, err := d.reconcileSynonyms(dc, KindCommonName, cn.Name, cn.Synonyms, r.Synonyms,
		func(s *models.Synonym) { s.CommonNameID = &id })
	if err != nil {
		return err
	}
	rec.Emit(synonyms...)

	if r.GrowsWith != nil {
		events, err := d.reconcileCommonNames(dc, rec, KindCommonName, cn.Name, cn.ID,
			repository.CommonNameGrowsWith, RelationGrowsWith, cn.GrowsWithCommonNames, *r.GrowsWith)
		if err != nil {
			return err
		}
		rec.Emit(events...)
	}
	if r.GrowsWithCultivars != nil {
		events, err := d.reconcileCultivars(dc, rec, KindCommonName, cn.Name, cn.ID,
			repository.CommonNameGrowsWithCultivars, RelationGrowsWithCultivars, cn.GrowsWithCultivars, *r.GrowsWithCultivars)
		if err != nil {
			return err
		}
		rec.Emit(events...)
	}
	return nil
}

func (d *Driver) applyBotanicalName(dc dbctx.Context, rec *reconcile.Recorder, r staging.BotanicalNameRecord) error {
	if r.Err != nil {
		return r.Err
	}
	bn, created, err := d.resolver.BotanicalName(dc, rec, r.Name, false)
	if err != nil {
		return err
	}
	if err := rec.Resolved(bn.Name, created); err != nil {
		return err
	}

	shown, dirty := applyVisibility(KindBotanicalName, bn.Name, created, r.Visible, &bn.Invisible)
	if err := commit(rec, shown, dirty, func() error { return d.repo.BotanicalNames.Save(dc, bn) }); err != nil {
		return err
	}

	if r.Synonyms != nil {
		if err := naming.ValidateBotanicalSynonyms(reconcile.SplitList(*r.Synonyms)); err != nil {
			return err
		}
	}
	id := bn.ID
	synonyms, err := d.reconcileSynonyms(dc, KindBotanicalName, bn.Name, bn.Synonyms, r.Synonyms,
		func(s *models.Synonym) { s.BotanicalNameID = &id })
	if err != nil {
		return err
	}
	rec.Emit(synonyms...)

	if r.CommonNames != nil {
		events, err := d.reconcileCommonNames(dc, rec, KindBotanicalName, bn.Name, bn.ID,
			repository.BotanicalNameCommonNames, RelationCommonNames, bn.CommonNames, *r.CommonNames)
		if err != nil {
			return err
		}
		rec.Emit(events...)
	}
	return nil
}

func (d *Driver) applySeries(dc dbctx.Context, rec *reconcile.Recorder, r staging.SeriesRecord) error {
	if r.Err != nil {
		return r.Err
	}
	cn, _, err := d.resolver.CommonName(dc, rec, r.CommonName)
	if err != nil {
		return err
	}
	s, created, err := d.resolver.Series(dc, rec, r.Name, cn)
	if err != nil {
		return err
	}
	if err := rec.Resolved(s.Name, created); err != nil {
		return err
	}

	events := reconcile.DiffFields(KindSeries, s.Name,
		reconcile.Text("Description", r.Description, &s.Description),
		positionField(r.Position, &s.Position),
	)
	return commit(rec, events, false, func() error { return d.repo.Series.Save(dc, s) })
}

func (d *Driver) applyCultivar(dc dbctx.Context, rec *reconcile.Recorder, r staging.CultivarRecord) error {
	if r.Err != nil {
		return r.Err
	}
	cv, created, err := d.resolver.Cultivar(dc, rec, r.Lookup())
	if err != nil {
		return err
	}
	entity := cv.FullName()
	if err := rec.Resolved(entity, created); err != nil {
		return err
	}

	botanical, botanicalCreated, err := d.botanicalNameField(dc, rec, cv, r.BotanicalName)
	if err != nil {
		return err
	}
	thumb, err := d.thumbnailField(dc, rec, KindCultivar, entity, r.Thumbnail, &cv.ThumbnailID, &cv.Thumbnail)
	if err != nil {
		return err
	}
	newUntil, err := dateField("New Until", r.NewUntil, &cv.NewUntil)
	if err != nil {
		return err
	}
	events := reconcile.DiffFields(KindCultivar, entity,
		botanical,
		reconcile.Text("Description", r.Description, &cv.Description),
		reconcile.Text("Subtitle", r.Subtitle, &cv.Subtitle),
		thumb,
		reconcile.Flag("In Stock", r.InStock, &cv.InStock),
		reconcile.Flag("Active", r.Active, &cv.Active),
		newUntil,
	)
	shown, dirty := applyVisibility(KindCultivar, entity, created, r.Visible, &cv.Invisible)
	events = append(events, shown...)
	if err := commit(rec, events, dirty, func() error { return d.repo.Cultivars.Save(dc, cv) }); err != nil {
		return err
	}

	if botanicalCreated {
		if err := d.linkBotanicalName(dc, rec, cv); err != nil {
			return err
		}
	}

	id := cv.ID
	synonyms, err := d.reconcileSynonyms(dc, KindCultivar, entity, cv.Synonyms, r.Synonyms,
		func(s *models.Synonym) { s.CultivarID = &id })
	if err != nil {
		return err
	}
	rec.Emit(synonyms...)

	if r.GrowsWith != nil {
		events, err := d.reconcileCommonNames(dc, rec, KindCultivar, entity, cv.ID,
			repository.CultivarGrowsWithCommonNames, RelationGrowsWith, cv.GrowsWithCommonNames, *r.GrowsWith)
		if err != nil {
			return err
		}
		rec.Emit(events...)
	}
	if r.GrowsWithCultivars != nil {
		events, err := d.reconcileCultivars(dc, rec, KindCultivar, entity, cv.ID,
			repository.CultivarGrowsWith, RelationGrowsWithCultivars, cv.GrowsWithCultivars, *r.GrowsWithCultivars)
		if err != nil {
			return err
		}
		rec.Emit(events...)
	}
	return nil
}

// linkBotanicalName lists the cultivar's common name on a botanical name the
// cultivar just created. Existing botanical names keep the common names their
// own records give them.
func (d *Driver) linkBotanicalName(dc dbctx.Context, rec *reconcile.Recorder, cv *models.Cultivar) error {
	if cv.BotanicalNameID == nil || cv.CommonName == nil {
		return nil
	}
	bn, err := d.repo.BotanicalNames.FindByID(dc, *cv.BotanicalNameID)
	if err != nil {
		return err
	}
	for _, cn := range bn.CommonNames {
		if cn.ID == cv.CommonNameID {
			return nil
		}
	}
	if err := d.repo.Links.Attach(dc, repository.BotanicalNameCommonNames, bn.ID, cv.CommonNameID); err != nil {
		return err
	}
	rec.Emit(reconcile.Added(KindBotanicalName, bn.Name, RelationCommonNames, cv.CommonName.Name))
	return nil
}

func (d *Driver) applyPacket(dc dbctx.Context, rec *reconcile.Recorder, r staging.PacketRecord) error {
	if r.Err != nil {
		return r.Err
	}
	price, err := codec.ParsePrice(r.Price)
	if err != nil {
		return err
	}
	value, err := codec.ParseQuantity(r.Quantity)
	if err != nil {
		return err
	}

	cv, _, err := d.resolver.Cultivar(dc, rec, r.Cultivar)
	if err != nil {
		return err
	}
	qty, err := d.resolver.Quantity(dc, value, r.Units)
	if err != nil {
		return err
	}
	p, created, err := d.resolver.Packet(dc, rec, r.SKU, cv, price, qty)
	if err != nil {
		return err
	}
	if err := rec.Resolved(p.SKU, created); err != nil {
		return err
	}

	if p.CultivarID != cv.ID {
		owner := fmt.Sprintf("#%d", p.CultivarID)
		if p.Cultivar != nil {
			owner = p.Cultivar.FullName()
		}
		rec.Emit(reconcile.Warning(KindPacket, p.SKU,
			fmt.Sprintf("The packet '%s' belongs to '%s', not '%s', and has not been moved.", p.SKU, owner, cv.FullName())))
	}

	previous := p.QuantityID
	events := reconcile.DiffFields(KindPacket, p.SKU,
		priceField(price, &p.Price),
		quantityField(qty, p),
	)
	if err := commit(rec, events, false, func() error { return d.repo.Packets.Save(dc, p) }); err != nil {
		return err
	}
	if previous != p.QuantityID {
		return d.releaseQuantity(dc, previous)
	}
	return nil
}

// releaseQuantity deletes a quantity that no packet points at anymore.
func (d *Driver) releaseQuantity(dc dbctx.Context, id uint) error {
	var orphan *reconcile.OrphanResourceError
	if err := d.checkOrphan(dc, id); !errors.As(err, &orphan) {
		return err
	}
	if err := d.repo.Quantities.Delete(dc, &models.Quantity{ID: orphan.ID}); err != nil {
		return err
	}
	d.logger.Debug("Deleted orphaned quantity", zap.Uint("quantity_id", orphan.ID))
	return nil
}

func (d *Driver) checkOrphan(dc dbctx.Context, id uint) error {
	n, err := d.repo.Quantities.References(dc, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return &reconcile.OrphanResourceError{Kind: "Quantity", ID: id}
	}
	return nil
}
