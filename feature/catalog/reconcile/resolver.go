package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"seed-catalog/core/dbctx"
	"seed-catalog/core/reconcile"
	"seed-catalog/feature/catalog/codec"
	"seed-catalog/feature/catalog/models"
	"seed-catalog/feature/catalog/naming"
	"seed-catalog/feature/catalog/repository"
)

// Entity kinds in processing order.
const (
	KindIndex         = "Index"
	KindCommonName    = "CommonName"
	KindBotanicalName = "BotanicalName"
	KindSeries        = "Series"
	KindCultivar      = "Cultivar"
	KindPacket        = "Packet"
)

// KindOrder is the dependency order records are processed in.
var KindOrder = []string{KindIndex, KindCommonName, KindBotanicalName, KindSeries, KindCultivar, KindPacket}

// Emitter receives the events raised while resolving.
type Emitter interface {
	Emit(events ...reconcile.Event)
}

// Resolver finds entities by natural key and creates missing ones.
// Created entities carry only their key fields and, where the kind has
// visibility, start hidden. Existing entities are returned untouched.
type Resolver struct {
	repo *repository.Repository
}

// NewResolver creates a new Resolver.
func NewResolver(repo *repository.Repository) *Resolver {
	return &Resolver{repo: repo}
}

func required(kind, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return reconcile.NewValidationError(kind, field, "", "a name is required")
	}
	return nil
}

// Index resolves an Index by name.
func (r *Resolver) Index(dc dbctx.Context, em Emitter, name string) (*models.Index, bool, error) {
	name = naming.Dbify(name)
	if err := required(KindIndex, "name", name); err != nil {
		return nil, false, err
	}

	idx, err := r.repo.Indexes.FindByKey(dc, repository.IndexKey{Name: name})
	if err == nil {
		em.Emit(reconcile.Loaded(KindIndex, idx.Name))
		return idx, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	idx = &models.Index{Name: name}
	if err := r.repo.Indexes.Save(dc, idx); err != nil {
		return nil, false, err
	}
	em.Emit(reconcile.Created(KindIndex, idx.Name))
	return idx, true, nil
}

// CommonName resolves a CommonName, creating its Index when needed.
func (r *Resolver) CommonName(dc dbctx.Context, em Emitter, l models.CommonNameLookup) (*models.CommonName, bool, error) {
	name := naming.Dbify(l.Name)
	if err := required(KindCommonName, "name", name); err != nil {
		return nil, false, err
	}
	idx, _, err := r.Index(dc, em, l.Index)
	if err != nil {
		return nil, false, err
	}

	cn, err := r.repo.CommonNames.FindByKey(dc, repository.CommonNameKey{IndexID: idx.ID, Name: name})
	if err == nil {
		em.Emit(reconcile.Loaded(KindCommonName, cn.Name))
		return cn, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	cn = &models.CommonName{Name: name, IndexID: idx.ID, Index: idx, Invisible: true}
	if err := r.repo.CommonNames.Save(dc, cn); err != nil {
		return nil, false, err
	}
	em.Emit(reconcile.Created(KindCommonName, cn.Name))
	return cn, true, nil
}

// BotanicalName resolves a BotanicalName. Names are validated rather than
// recased; with fix set, a name that only fails on capitalization is
// repaired and a warning is emitted.
func (r *Resolver) BotanicalName(dc dbctx.Context, em Emitter, name string, fix bool) (*models.BotanicalName, bool, error) {
	name = strings.Join(strings.Fields(name), " ")
	if err := required(KindBotanicalName, "name", name); err != nil {
		return nil, false, err
	}
	if fix && !naming.ValidBotanical(name) {
		if fixed := naming.FixBotanical(name); naming.ValidBotanical(fixed) {
			em.Emit(reconcile.Warning(KindBotanicalName, fixed,
				fmt.Sprintf("The botanical name '%s' was not formatted correctly and has been changed to '%s'.", name, fixed)))
			name = fixed
		}
	}
	if err := naming.ValidateBotanical("name", name); err != nil {
		return nil, false, err
	}

	bn, err := r.repo.BotanicalNames.FindByKey(dc, repository.BotanicalNameKey{Name: name})
	if err == nil {
		em.Emit(reconcile.Loaded(KindBotanicalName, bn.Name))
		return bn, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	bn = &models.BotanicalName{Name: name, Invisible: true}
	if err := r.repo.BotanicalNames.Save(dc, bn); err != nil {
		return nil, false, err
	}
	em.Emit(reconcile.Created(KindBotanicalName, bn.Name))
	return bn, true, nil
}

// Series resolves a Series of cn.
func (r *Resolver) Series(dc dbctx.Context, em Emitter, name string, cn *models.CommonName) (*models.Series, bool, error) {
	name = naming.Dbify(name)
	if err := required(KindSeries, "name", name); err != nil {
		return nil, false, err
	}

	s, err := r.repo.Series.FindByKey(dc, repository.SeriesKey{CommonNameID: cn.ID, Name: name})
	if err == nil {
		em.Emit(reconcile.Loaded(KindSeries, s.Name))
		return s, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	s = &models.Series{Name: name, CommonNameID: cn.ID, CommonName: cn}
	if err := r.repo.Series.Save(dc, s); err != nil {
		return nil, false, err
	}
	em.Emit(reconcile.Created(KindSeries, s.Name))
	return s, true, nil
}

// Cultivar resolves a Cultivar, creating its CommonName, Index and Series
// when needed.
func (r *Resolver) Cultivar(dc dbctx.Context, em Emitter, l models.CultivarLookup) (*models.Cultivar, bool, error) {
	name := naming.Dbify(l.Cultivar)
	if err := required(KindCultivar, "name", name); err != nil {
		return nil, false, err
	}
	cn, _, err := r.CommonName(dc, em, l.CommonNameKey())
	if err != nil {
		return nil, false, err
	}

	var series *models.Series
	key := repository.CultivarKey{CommonNameID: cn.ID, Name: name}
	if strings.TrimSpace(l.Series) != "" {
		if series, _, err = r.Series(dc, em, l.Series, cn); err != nil {
			return nil, false, err
		}
		key.SeriesID = series.ID
	}

	cv, err := r.repo.Cultivars.FindByKey(dc, key)
	if err == nil {
		em.Emit(reconcile.Loaded(KindCultivar, cv.FullName()))
		return cv, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	cv = &models.Cultivar{Name: name, CommonNameID: cn.ID, CommonName: cn, Series: series, Invisible: true}
	if series != nil {
		cv.SeriesID = &series.ID
	}
	if err := r.repo.Cultivars.Save(dc, cv); err != nil {
		return nil, false, err
	}
	em.Emit(reconcile.Created(KindCultivar, cv.FullName()))
	return cv, true, nil
}

// Packet looks up a packet by SKU. A missing packet is created for cv with
// the given price and quantity, since a packet cannot exist without them.
func (r *Resolver) Packet(dc dbctx.Context, em Emitter, sku string, cv *models.Cultivar, price codec.Price, qty *models.Quantity) (*models.Packet, bool, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, false, reconcile.NewValidationError(KindPacket, "sku", "", "a SKU is required")
	}

	p, err := r.repo.Packets.FindByKey(dc, repository.PacketKey{SKU: sku})
	if err == nil {
		em.Emit(reconcile.Loaded(KindPacket, p.SKU))
		return p, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	p = &models.Packet{
		SKU:        sku,
		Price:      price,
		QuantityID: qty.ID,
		Quantity:   qty,
		CultivarID: cv.ID,
		Cultivar:   cv,
	}
	if err := r.repo.Packets.Save(dc, p); err != nil {
		return nil, false, err
	}
	em.Emit(reconcile.Created(KindPacket, p.SKU))
	return p, true, nil
}

// Quantity resolves the shared quantity row for value and units. Quantities
// are value objects, so no events are emitted for them.
func (r *Resolver) Quantity(dc dbctx.Context, value codec.Quantity, units string) (*models.Quantity, error) {
	units = strings.TrimSpace(units)
	q, err := r.repo.Quantities.FindByKey(dc, repository.QuantityKey{Value: value, Units: units})
	if err == nil {
		return q, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	q = &models.Quantity{Value: value, Units: units}
	if err := r.repo.Quantities.Save(dc, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Image resolves the image row for a thumbnail filename.
func (r *Resolver) Image(dc dbctx.Context, filename string) (*models.Image, error) {
	img, err := r.repo.Images.FindByKey(dc, repository.ImageKey{Filename: filename})
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	img = &models.Image{Filename: filename}
	if err := r.repo.Images.Save(dc, img); err != nil {
		return nil, err
	}
	return img, nil
}
