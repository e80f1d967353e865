package staging

import (
	"seed-catalog/feature/catalog/models"
)

// IndexRecord stages one Index.
type IndexRecord struct {
	Row         int     `json:"-" yaml:"-"`
	Name        string  `json:"index" yaml:"index"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	Thumbnail   *string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	Err         error   `json:"-" yaml:"-"`
}

// CommonNameRecord stages one CommonName with its relations.
type CommonNameRecord struct {
	Row                int                        `json:"-" yaml:"-"`
	Index              string                     `json:"index" yaml:"index"`
	Name               string                     `json:"common_name" yaml:"common_name"`
	Description        *string                    `json:"description,omitempty" yaml:"description,omitempty"`
	Instructions       *string                    `json:"planting_instructions,omitempty" yaml:"planting_instructions,omitempty"`
	Synonyms           *string                    `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	Parent             *models.CommonNameLookup   `json:"parent,omitempty" yaml:"parent,omitempty"`
	GrowsWith          *[]models.CommonNameLookup `json:"grows_with,omitempty" yaml:"grows_with,omitempty"`
	GrowsWithCultivars *[]models.CultivarLookup   `json:"grows_with_cultivars,omitempty" yaml:"grows_with_cultivars,omitempty"`
	Visible            *bool                      `json:"visible,omitempty" yaml:"visible,omitempty"`
	Err                error                      `json:"-" yaml:"-"`
}

// Lookup returns the record's natural key.
func (r CommonNameRecord) Lookup() models.CommonNameLookup {
	return models.CommonNameLookup{Name: r.Name, Index: r.Index}
}

// BotanicalNameRecord stages one BotanicalName.
type BotanicalNameRecord struct {
	Row         int                        `json:"-" yaml:"-"`
	Name        string                     `json:"botanical_name" yaml:"botanical_name"`
	CommonNames *[]models.CommonNameLookup `json:"common_names,omitempty" yaml:"common_names,omitempty"`
	Synonyms    *string                    `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	Visible     *bool                      `json:"visible,omitempty" yaml:"visible,omitempty"`
	Err         error                      `json:"-" yaml:"-"`
}

// SeriesRecord stages one Series.
type SeriesRecord struct {
	Row         int                     `json:"-" yaml:"-"`
	Name        string                  `json:"series" yaml:"series"`
	CommonName  models.CommonNameLookup `json:"common_name" yaml:"common_name"`
	Description *string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Position    *string                 `json:"position,omitempty" yaml:"position,omitempty"`
	Err         error                   `json:"-" yaml:"-"`
}

// CultivarRecord stages one Cultivar with its relations.
type CultivarRecord struct {
	Row                int                        `json:"-" yaml:"-"`
	Name               string                     `json:"cultivar" yaml:"cultivar"`
	CommonName         models.CommonNameLookup    `json:"common_name" yaml:"common_name"`
	Series             string                     `json:"series,omitempty" yaml:"series,omitempty"`
	BotanicalName      *string                    `json:"botanical_name,omitempty" yaml:"botanical_name,omitempty"`
	Thumbnail          *string                    `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	Description        *string                    `json:"description,omitempty" yaml:"description,omitempty"`
	Subtitle           *string                    `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Synonyms           *string                    `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	NewUntil           *string                    `json:"new_until,omitempty" yaml:"new_until,omitempty"`
	InStock            *bool                      `json:"in_stock,omitempty" yaml:"in_stock,omitempty"`
	Active             *bool                      `json:"active,omitempty" yaml:"active,omitempty"`
	Visible            *bool                      `json:"visible,omitempty" yaml:"visible,omitempty"`
	GrowsWith          *[]models.CommonNameLookup `json:"grows_with,omitempty" yaml:"grows_with,omitempty"`
	GrowsWithCultivars *[]models.CultivarLookup   `json:"grows_with_cultivars,omitempty" yaml:"grows_with_cultivars,omitempty"`
	Err                error                      `json:"-" yaml:"-"`
}

// Lookup returns the record's natural key.
func (r CultivarRecord) Lookup() models.CultivarLookup {
	return models.CultivarLookup{
		CommonName: r.CommonName.Name,
		Index:      r.CommonName.Index,
		Series:     r.Series,
		Cultivar:   r.Name,
	}
}

// PacketRecord stages one Packet.
type PacketRecord struct {
	Row      int                   `json:"-" yaml:"-"`
	Cultivar models.CultivarLookup `json:"cultivar" yaml:"cultivar"`
	SKU      string                `json:"sku" yaml:"sku"`
	Price    string                `json:"price" yaml:"price"`
	Quantity string                `json:"quantity" yaml:"quantity"`
	Units    string                `json:"units" yaml:"units"`
	Err      error                 `json:"-" yaml:"-"`
}

// Dataset is a complete staged catalog, one list per entity kind.
type Dataset struct {
	Indexes        []IndexRecord         `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	CommonNames    []CommonNameRecord    `json:"common_names,omitempty" yaml:"common_names,omitempty"`
	BotanicalNames []BotanicalNameRecord `json:"botanical_names,omitempty" yaml:"botanical_names,omitempty"`
	Series         []SeriesRecord        `json:"series,omitempty" yaml:"series,omitempty"`
	Cultivars      []CultivarRecord      `json:"cultivars,omitempty" yaml:"cultivars,omitempty"`
	Packets        []PacketRecord        `json:"packets,omitempty" yaml:"packets,omitempty"`
}

// Len returns the number of records across all kinds.
func (d *Dataset) Len() int {
	return len(d.Indexes) + len(d.CommonNames) + len(d.BotanicalNames) +
		len(d.Series) + len(d.Cultivars) + len(d.Packets)
}
