package models

import (
	"time"

	"seed-catalog/feature/catalog/codec"
	"seed-catalog/feature/catalog/naming"

	"gorm.io/gorm"
)

// Position is where a series name goes relative to the cultivar name.
type Position int

const (
	PositionBeforeCultivar Position = 0
	PositionAfterCultivar  Position = 1
)

// ParsePosition maps the staged column values to a Position. Anything that
// is not "after"/"after_cultivar"/"1" means before.
func ParsePosition(s string) Position {
	switch s {
	case "after", "after_cultivar", "After Cultivar", "1":
		return PositionAfterCultivar
	default:
		return PositionBeforeCultivar
	}
}

// String returns the staged column value for p.
func (p Position) String() string {
	if p == PositionAfterCultivar {
		return "after_cultivar"
	}
	return "before_cultivar"
}

// Image is a thumbnail kept in object storage under thumbnails/<filename>.
type Image struct {
	ID        uint   `gorm:"primaryKey"`
	Filename  string `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Index is the top level of the catalog (e.g. "Perennial").
type Index struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:64;not null;uniqueIndex"`
	Slug        string `gorm:"size:64"`
	Description string `gorm:"type:text"`
	ThumbnailID *uint
	Thumbnail   *Image
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName pins the table name; gorm would otherwise guess "indices".
func (Index) TableName() string { return "indexes" }

// BeforeSave keeps the slug in step with the name.
func (i *Index) BeforeSave(*gorm.DB) error {
	i.Slug = naming.IndexSlug(i.Name)
	return nil
}

// CommonName is a plant's common name within an Index (e.g. "Foxglove").
type CommonName struct {
	ID           uint      `gorm:"primaryKey"`
	IndexID      uint      `gorm:"not null;uniqueIndex:idx_common_name_key"`
	Index        *Index    `gorm:"constraint:OnDelete:RESTRICT"`
	Name         string    `gorm:"size:64;not null;uniqueIndex:idx_common_name_key"`
	Slug         string    `gorm:"size:64"`
	Description  string    `gorm:"type:text"`
	Instructions string    `gorm:"type:text"`
	Synonyms     []Synonym `gorm:"foreignKey:CommonNameID"`
	ParentID     *uint
	Parent       *CommonName
	Invisible    bool `gorm:"not null;default:false"`

	GrowsWithCommonNames []*CommonName `gorm:"many2many:common_name_grows_with;joinForeignKey:CommonNameID;joinReferences:GrowsWithID"`
	GrowsWithCultivars   []*Cultivar   `gorm:"many2many:common_name_grows_with_cultivars"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeSave keeps the slug in step with the name.
func (cn *CommonName) BeforeSave(*gorm.DB) error {
	cn.Slug = naming.Slugify(cn.Name)
	return nil
}

// Lookup returns the natural key of cn. The Index must be loaded.
func (cn *CommonName) Lookup() CommonNameLookup {
	l := CommonNameLookup{Name: cn.Name}
	if cn.Index != nil {
		l.Index = cn.Index.Name
	}
	return l
}

// BotanicalName is a scientific name shared by one or more common names.
type BotanicalName struct {
	ID          uint          `gorm:"primaryKey"`
	Name        string        `gorm:"size:64;not null;uniqueIndex"`
	CommonNames []*CommonName `gorm:"many2many:botanical_names_common_names"`
	Synonyms    []Synonym     `gorm:"foreignKey:BotanicalNameID"`
	Invisible   bool          `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Series groups cultivars of one common name (e.g. "Polkadot").
type Series struct {
	ID           uint        `gorm:"primaryKey"`
	Name         string      `gorm:"size:64;not null;uniqueIndex:idx_series_key"`
	CommonNameID uint        `gorm:"not null;uniqueIndex:idx_series_key"`
	CommonName   *CommonName `gorm:"constraint:OnDelete:RESTRICT"`
	Description  string      `gorm:"type:text"`
	Position     Position    `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName pins the table name; "series" has no plural.
func (Series) TableName() string { return "series" }

// Cultivar is a sellable variety of a common name.
//
// SeriesKey mirrors SeriesID with 0 for "no series" so the composite unique
// index treats series-less cultivars as equal on every dialect.
type Cultivar struct {
	ID              uint        `gorm:"primaryKey"`
	Name            string      `gorm:"size:64;not null;uniqueIndex:idx_cultivar_key"`
	CommonNameID    uint        `gorm:"not null;uniqueIndex:idx_cultivar_key"`
	CommonName      *CommonName `gorm:"constraint:OnDelete:RESTRICT"`
	SeriesKey       uint        `gorm:"not null;default:0;uniqueIndex:idx_cultivar_key"`
	SeriesID        *uint
	Series          *Series
	BotanicalNameID *uint
	BotanicalName   *BotanicalName
	Slug            string `gorm:"size:128"`
	Description     string `gorm:"type:text"`
	Subtitle        string `gorm:"size:128"`
	ThumbnailID     *uint
	Thumbnail       *Image
	Synonyms        []Synonym `gorm:"foreignKey:CultivarID"`
	InStock         bool      `gorm:"not null;default:false"`
	Active          bool      `gorm:"not null;default:false"`
	Invisible       bool      `gorm:"not null;default:false"`
	NewUntil        *time.Time
	Packets         []Packet

	GrowsWithCommonNames []*CommonName `gorm:"many2many:cultivar_grows_with_common_names"`
	GrowsWithCultivars   []*Cultivar   `gorm:"many2many:cultivar_grows_with;joinForeignKey:CultivarID;joinReferences:GrowsWithID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeSave derives the series key and slug.
func (cv *Cultivar) BeforeSave(*gorm.DB) error {
	cv.SeriesKey = 0
	if cv.SeriesID != nil {
		cv.SeriesKey = *cv.SeriesID
	}
	cv.Slug = naming.Slugify(cv.NameWithSeries())
	return nil
}

func (cv *Cultivar) seriesParts() (string, bool) {
	if cv.Series == nil {
		return "", false
	}
	return cv.Series.Name, cv.Series.Position == PositionAfterCultivar
}

// NameWithSeries returns the cultivar name with its series, if loaded.
func (cv *Cultivar) NameWithSeries() string {
	series, after := cv.seriesParts()
	return naming.NameWithSeries(cv.Name, series, after)
}

// FullName is the display name including the common name, if loaded.
func (cv *Cultivar) FullName() string {
	series, after := cv.seriesParts()
	cn := ""
	if cv.CommonName != nil {
		cn = cv.CommonName.Name
	}
	return naming.FullName(cv.Name, series, after, cn)
}

// Lookup returns the natural key of cv. CommonName, its Index and Series
// must be loaded.
func (cv *Cultivar) Lookup() CultivarLookup {
	l := CultivarLookup{Cultivar: cv.Name}
	if cv.CommonName != nil {
		l.CommonName = cv.CommonName.Name
		if cv.CommonName.Index != nil {
			l.Index = cv.CommonName.Index.Name
		}
	}
	if cv.Series != nil {
		l.Series = cv.Series.Name
	}
	return l
}

// Packet is a purchasable unit of a cultivar, identified by SKU.
type Packet struct {
	ID         uint        `gorm:"primaryKey"`
	SKU        string      `gorm:"size:32;not null;uniqueIndex"`
	Price      codec.Price `gorm:"not null"`
	QuantityID uint        `gorm:"not null;index"`
	Quantity   *Quantity   `gorm:"constraint:OnDelete:RESTRICT"`
	CultivarID uint        `gorm:"not null;index"`
	Cultivar   *Cultivar
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Quantity is shared by every packet with the same amount and units.
type Quantity struct {
	ID    uint           `gorm:"primaryKey"`
	Value codec.Quantity `gorm:"not null;uniqueIndex:idx_quantity_key"`
	Units string         `gorm:"size:32;not null;uniqueIndex:idx_quantity_key"`
}

// Label renders the quantity as "100 seeds".
func (q *Quantity) Label() string {
	if q.Units == "" {
		return q.Value.String()
	}
	return q.Value.String() + " " + q.Units
}

// Synonym is an alternate name with exactly one owner.
type Synonym struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"size:128;not null"`
	CommonNameID    *uint  `gorm:"index"`
	BotanicalNameID *uint  `gorm:"index"`
	CultivarID      *uint  `gorm:"index"`
}

// All lists every catalog model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&Image{},
		&Index{},
		&CommonName{},
		&BotanicalName{},
		&Series{},
		&Cultivar{},
		&Quantity{},
		&Packet{},
		&Synonym{},
		&ReconcileRun{},
	}
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
