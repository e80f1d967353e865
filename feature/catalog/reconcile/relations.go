package reconcile

import (
	"seed-catalog/core/dbctx"
	"seed-catalog/core/reconcile"
	"seed-catalog/feature/catalog/models"
	"seed-catalog/feature/catalog/naming"
	"seed-catalog/feature/catalog/repository"
)

// Relation names as they appear in change messages.
const (
	RelationSynonyms           = "Synonyms"
	RelationGrowsWith          = "Grows With"
	RelationGrowsWithCultivars = "Grows With Cultivars"
	RelationCommonNames        = "Common Names"
)

// reconcileSynonyms converges an owner's synonyms onto the staged list.
// own sets the owner column of a new synonym row.
func (d *Driver) reconcileSynonyms(dc dbctx.Context, kind, owner string, current []models.Synonym, staged *string, own func(*models.Synonym)) ([]reconcile.Event, error) {
	if staged == nil {
		return nil, nil
	}
	names := reconcile.SplitList(*staged)
	members := make([]models.Synonym, 0, len(names))
	for _, name := range names {
		syn := models.Synonym{Name: name}
		own(&syn)
		members = append(members, syn)
	}

	_, events, err := reconcile.ReconcileSet(owner, RelationSynonyms, current, members,
		func(s models.Synonym) string { return s.Name },
		reconcile.SetOps[models.Synonym]{
			Kind:   kind,
			Attach: func(s models.Synonym) error { return d.repo.Synonyms.Add(dc, &s) },
			Detach: func(s models.Synonym) error { return d.repo.Synonyms.Remove(dc, &s) },
		})
	return events, err
}

// commonNameStub builds an unsaved CommonName carrying only the normalized
// natural key of l, so staged and persisted members compare by key.
func commonNameStub(l models.CommonNameLookup) *models.CommonName {
	return &models.CommonName{
		Name:  naming.Dbify(l.Name),
		Index: &models.Index{Name: naming.Dbify(l.Index)},
	}
}

func cultivarStub(l models.CultivarLookup) *models.Cultivar {
	cv := &models.Cultivar{
		Name:       naming.Dbify(l.Cultivar),
		CommonName: commonNameStub(l.CommonNameKey()),
	}
	if l.Series != "" {
		cv.Series = &models.Series{Name: naming.Dbify(l.Series)}
	}
	return cv
}

func commonNameKey(cn *models.CommonName) string { return cn.Lookup().Key() }
func cultivarKey(cv *models.Cultivar) string     { return cv.Lookup().Key() }

// reconcileCommonNames converges a join table of common names owned by
// ownerID. Missing members are created as hidden placeholders.
func (d *Driver) reconcileCommonNames(dc dbctx.Context, em Emitter, kind, owner string, ownerID uint, link repository.Link, relation string, current []*models.CommonName, staged []models.CommonNameLookup) ([]reconcile.Event, error) {
	members := make([]*models.CommonName, 0, len(staged))
	for _, l := range staged {
		members = append(members, commonNameStub(l))
	}

	_, events, err := reconcile.ReconcileSet(owner, relation, current, members, commonNameKey,
		reconcile.SetOps[*models.CommonName]{
			Kind: kind,
			Resolve: func(cn *models.CommonName) (*models.CommonName, error) {
				resolved, _, err := d.resolver.CommonName(dc, em, cn.Lookup())
				return resolved, err
			},
			Attach: func(cn *models.CommonName) error { return d.repo.Links.Attach(dc, link, ownerID, cn.ID) },
			Detach: func(cn *models.CommonName) error { return d.repo.Links.Detach(dc, link, ownerID, cn.ID) },
			Label:  func(cn *models.CommonName) string { return cn.Name },
		})
	return events, err
}

// reconcileCultivars is reconcileCommonNames for cultivar members.
func (d *Driver) reconcileCultivars(dc dbctx.Context, em Emitter, kind, owner string, ownerID uint, link repository.Link, relation string, current []*models.Cultivar, staged []models.CultivarLookup) ([]reconcile.Event, error) {
	members := make([]*models.Cultivar, 0, len(staged))
	for _, l := range staged {
		members = append(members, cultivarStub(l))
	}

	_, events, err := reconcile.ReconcileSet(owner, relation, current, members, cultivarKey,
		reconcile.SetOps[*models.Cultivar]{
			Kind: kind,
			Resolve: func(cv *models.Cultivar) (*models.Cultivar, error) {
				resolved, _, err := d.resolver.Cultivar(dc, em, cv.Lookup())
				return resolved, err
			},
			Attach: func(cv *models.Cultivar) error { return d.repo.Links.Attach(dc, link, ownerID, cv.ID) },
			Detach: func(cv *models.Cultivar) error { return d.repo.Links.Detach(dc, link, ownerID, cv.ID) },
			Label:  func(cv *models.Cultivar) string { return cv.FullName() },
		})
	return events, err
}
