package export

import (
	"strings"

	"seed-catalog/core/reconcile"
	"seed-catalog/feature/catalog/models"
	catalog "seed-catalog/feature/catalog/reconcile"
	"seed-catalog/feature/catalog/staging"
)

// Dataset converts a snapshot into staged records. Empty columns are left
// out, which the reconciler treats as "keep the current value".
func (s *Snapshot) Dataset() *staging.Dataset {
	ds := &staging.Dataset{}
	for i := range s.Indexes {
		ds.Indexes = append(ds.Indexes, IndexRecord(&s.Indexes[i], i+1))
	}
	for i := range s.CommonNames {
		ds.CommonNames = append(ds.CommonNames, CommonNameRecord(&s.CommonNames[i], i+1))
	}
	for i := range s.BotanicalNames {
		ds.BotanicalNames = append(ds.BotanicalNames, BotanicalNameRecord(&s.BotanicalNames[i], i+1))
	}
	for i := range s.Series {
		ds.Series = append(ds.Series, SeriesRecord(&s.Series[i], i+1))
	}
	for i := range s.Cultivars {
		ds.Cultivars = append(ds.Cultivars, CultivarRecord(&s.Cultivars[i], i+1))
	}
	for i := range s.Packets {
		ds.Packets = append(ds.Packets, PacketRecord(&s.Packets[i], i+1))
	}
	return ds
}

// IndexRecord converts an Index.
func IndexRecord(idx *models.Index, row int) staging.IndexRecord {
	return staging.IndexRecord{
		Row:         row,
		Name:        idx.Name,
		Description: optional(idx.Description),
		Thumbnail:   thumbnail(idx.Thumbnail),
	}
}

// CommonNameRecord converts a CommonName. Index, Parent and grows-with
// members must be loaded.
func CommonNameRecord(cn *models.CommonName, row int) staging.CommonNameRecord {
	r := staging.CommonNameRecord{
		Row:                row,
		Index:              cn.Lookup().Index,
		Name:               cn.Name,
		Description:        optional(cn.Description),
		Instructions:       optional(cn.Instructions),
		Synonyms:           synonyms(cn.Synonyms),
		GrowsWith:          commonNameLookups(cn.GrowsWithCommonNames),
		GrowsWithCultivars: cultivarLookups(cn.GrowsWithCultivars),
		Visible:            visible(cn.Invisible),
	}
	if cn.Parent != nil {
		parent := cn.Parent.Lookup()
		r.Parent = &parent
	}
	return r
}

// BotanicalNameRecord converts a BotanicalName.
func BotanicalNameRecord(bn *models.BotanicalName, row int) staging.BotanicalNameRecord {
	return staging.BotanicalNameRecord{
		Row:         row,
		Name:        bn.Name,
		CommonNames: commonNameLookups(bn.CommonNames),
		Synonyms:    synonyms(bn.Synonyms),
		Visible:     visible(bn.Invisible),
	}
}

// SeriesRecord converts a Series.
func SeriesRecord(s *models.Series, row int) staging.SeriesRecord {
	r := staging.SeriesRecord{
		Row:         row,
		Name:        s.Name,
		Description: optional(s.Description),
		Position:    optional(s.Position.String()),
	}
	if s.CommonName != nil {
		r.CommonName = s.CommonName.Lookup()
	}
	return r
}

// CultivarRecord converts a Cultivar.
func CultivarRecord(cv *models.Cultivar, row int) staging.CultivarRecord {
	l := cv.Lookup()
	r := staging.CultivarRecord{
		Row:                row,
		Name:               cv.Name,
		CommonName:         l.CommonNameKey(),
		Series:             l.Series,
		Thumbnail:          thumbnail(cv.Thumbnail),
		Description:        optional(cv.Description),
		Subtitle:           optional(cv.Subtitle),
		Synonyms:           synonyms(cv.Synonyms),
		InStock:            &cv.InStock,
		Active:             &cv.Active,
		Visible:            visible(cv.Invisible),
		GrowsWith:          commonNameLookups(cv.GrowsWithCommonNames),
		GrowsWithCultivars: cultivarLookups(cv.GrowsWithCultivars),
	}
	if cv.BotanicalName != nil {
		r.BotanicalName = optional(cv.BotanicalName.Name)
	}
	if cv.NewUntil != nil {
		r.NewUntil = optional(cv.NewUntil.Format(catalog.DateLayout))
	}
	return r
}

// PacketRecord converts a Packet. Quantity and Cultivar must be loaded.
func PacketRecord(p *models.Packet, row int) staging.PacketRecord {
	r := staging.PacketRecord{
		Row:   row,
		SKU:   p.SKU,
		Price: p.Price.String(),
	}
	if p.Cultivar != nil {
		r.Cultivar = p.Cultivar.Lookup()
	}
	if p.Quantity != nil {
		r.Quantity = p.Quantity.Value.String()
		r.Units = p.Quantity.Units
	}
	return r
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func visible(invisible bool) *bool {
	v := !invisible
	return &v
}

func thumbnail(img *models.Image) *string {
	if img == nil {
		return nil
	}
	return optional(img.Filename)
}

func synonyms(syns []models.Synonym) *string {
	names := make([]string, 0, len(syns))
	for _, s := range syns {
		names = append(names, s.Name)
	}
	return optional(strings.Join(names, reconcile.SynonymSeparator))
}

func commonNameLookups(cns []*models.CommonName) *[]models.CommonNameLookup {
	if len(cns) == 0 {
		return nil
	}
	out := make([]models.CommonNameLookup, 0, len(cns))
	for _, cn := range cns {
		out = append(out, cn.Lookup())
	}
	return &out
}

func cultivarLookups(cvs []*models.Cultivar) *[]models.CultivarLookup {
	if len(cvs) == 0 {
		return nil
	}
	out := make([]models.CultivarLookup, 0, len(cvs))
	for _, cv := range cvs {
		out = append(out, cv.Lookup())
	}
	return &out
}
