package repository

import (
	"fmt"

	"seed-catalog/core/dbctx"
	"seed-catalog/feature/catalog/models"

	"gorm.io/gorm"
)

// Repository groups the per-kind stores and relation writers of the catalog.
type Repository struct {
	Indexes        Store[models.Index, IndexKey]
	CommonNames    Store[models.CommonName, CommonNameKey]
	BotanicalNames Store[models.BotanicalName, BotanicalNameKey]
	Series         Store[models.Series, SeriesKey]
	Cultivars      Store[models.Cultivar, CultivarKey]
	Packets        Store[models.Packet, PacketKey]
	Quantities     QuantityStore
	Images         Store[models.Image, ImageKey]
	Runs           Store[models.ReconcileRun, RunKey]
	Links          Links
	Synonyms       SynonymStore
}

// New wires every store to db.
func New(db *gorm.DB) *Repository {
	return &Repository{
		Indexes: newStore[models.Index](db, "Index", keySpec[models.Index, IndexKey]{
			where: func(k IndexKey) map[string]any { return map[string]any{"name": k.Name} },
			of:    func(e *models.Index) IndexKey { return IndexKey{Name: e.Name} },
			label: func(k IndexKey) string { return k.Name },
		}, "Thumbnail"),
		CommonNames: newStore[models.CommonName](db, "CommonName", keySpec[models.CommonName, CommonNameKey]{
			where: func(k CommonNameKey) map[string]any {
				return map[string]any{"index_id": k.IndexID, "name": k.Name}
			},
			of:    func(e *models.CommonName) CommonNameKey { return CommonNameKey{IndexID: e.IndexID, Name: e.Name} },
			label: CommonNameKey.String,
		},
			"Index",
			"Synonyms",
			"Parent.Index",
			"GrowsWithCommonNames.Index",
			"GrowsWithCultivars.CommonName.Index",
			"GrowsWithCultivars.Series",
		),
		BotanicalNames: newStore[models.BotanicalName](db, "BotanicalName", keySpec[models.BotanicalName, BotanicalNameKey]{
			where: func(k BotanicalNameKey) map[string]any { return map[string]any{"name": k.Name} },
			of:    func(e *models.BotanicalName) BotanicalNameKey { return BotanicalNameKey{Name: e.Name} },
			label: func(k BotanicalNameKey) string { return k.Name },
		}, "CommonNames.Index", "Synonyms"),
		Series: newStore[models.Series](db, "Series", keySpec[models.Series, SeriesKey]{
			where: func(k SeriesKey) map[string]any {
				return map[string]any{"common_name_id": k.CommonNameID, "name": k.Name}
			},
			of:    func(e *models.Series) SeriesKey { return SeriesKey{CommonNameID: e.CommonNameID, Name: e.Name} },
			label: SeriesKey.String,
		}, "CommonName.Index"),
		Cultivars: newStore[models.Cultivar](db, "Cultivar", keySpec[models.Cultivar, CultivarKey]{
			where: func(k CultivarKey) map[string]any {
				return map[string]any{"common_name_id": k.CommonNameID, "series_key": k.SeriesID, "name": k.Name}
			},
			of: func(e *models.Cultivar) CultivarKey {
				return CultivarKey{CommonNameID: e.CommonNameID, SeriesID: e.SeriesKey, Name: e.Name}
			},
			label: CultivarKey.String,
		},
			"CommonName.Index",
			"Series",
			"BotanicalName",
			"Thumbnail",
			"Synonyms",
			"Packets.Quantity",
			"GrowsWithCommonNames.Index",
			"GrowsWithCultivars.CommonName.Index",
			"GrowsWithCultivars.Series",
		),
		Packets: newStore[models.Packet](db, "Packet", keySpec[models.Packet, PacketKey]{
			where: func(k PacketKey) map[string]any { return map[string]any{"sku": k.SKU} },
			of:    func(e *models.Packet) PacketKey { return PacketKey{SKU: e.SKU} },
			label: func(k PacketKey) string { return k.SKU },
		}, "Quantity", "Cultivar.CommonName.Index", "Cultivar.Series"),
		Quantities: &quantityStore{
			gormStore: newStore[models.Quantity](db, "Quantity", keySpec[models.Quantity, QuantityKey]{
				where: func(k QuantityKey) map[string]any {
					return map[string]any{"value": k.Value.Encode(), "units": k.Units}
				},
				of:    func(e *models.Quantity) QuantityKey { return QuantityKey{Value: e.Value, Units: e.Units} },
				label: QuantityKey.String,
			}),
		},
		Images: newStore[models.Image](db, "Image", keySpec[models.Image, ImageKey]{
			where: func(k ImageKey) map[string]any { return map[string]any{"filename": k.Filename} },
			of:    func(e *models.Image) ImageKey { return ImageKey{Filename: e.Filename} },
			label: func(k ImageKey) string { return k.Filename },
		}),
		Runs: newStore[models.ReconcileRun](db, "ReconcileRun", keySpec[models.ReconcileRun, RunKey]{
			where: func(k RunKey) map[string]any { return map[string]any{"run_id": k.RunID} },
			of:    func(e *models.ReconcileRun) RunKey { return RunKey{RunID: e.RunID} },
			label: func(k RunKey) string { return k.RunID },
		}),
		Links:    &gormLinks{db: db},
		Synonyms: &synonymStore{db: db},
	}
}

// QuantityStore adds reference counting to the Quantity store.
type QuantityStore interface {
	Store[models.Quantity, QuantityKey]
	// References counts the packets that point at the quantity.
	References(dc dbctx.Context, id uint) (int64, error)
	// Orphans lists quantities no packet points at.
	Orphans(dc dbctx.Context) ([]models.Quantity, error)
}

type quantityStore struct {
	*gormStore[models.Quantity, QuantityKey]
}

func (s *quantityStore) References(dc dbctx.Context, id uint) (int64, error) {
	var n int64
	if err := dc.DB(s.db).Model(&models.Packet{}).Where("quantity_id = ?", id).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count packets for quantity #%d: %w", id, err)
	}
	return n, nil
}

func (s *quantityStore) Orphans(dc dbctx.Context) ([]models.Quantity, error) {
	var out []models.Quantity
	err := dc.DB(s.db).
		Where("NOT EXISTS (SELECT 1 FROM packets WHERE packets.quantity_id = quantities.id)").
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orphaned quantities: %w", err)
	}
	return out, nil
}
