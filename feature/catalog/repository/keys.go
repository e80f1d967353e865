package repository

import (
	"fmt"

	"seed-catalog/feature/catalog/codec"
)

// IndexKey identifies an Index.
type IndexKey struct{ Name string }

// CommonNameKey identifies a CommonName within its Index.
type CommonNameKey struct {
	IndexID uint
	Name    string
}

// BotanicalNameKey identifies a BotanicalName.
type BotanicalNameKey struct{ Name string }

// SeriesKey identifies a Series within its CommonName.
type SeriesKey struct {
	CommonNameID uint
	Name         string
}

// CultivarKey identifies a Cultivar. SeriesID is 0 for cultivars without a series.
type CultivarKey struct {
	CommonNameID uint
	SeriesID     uint
	Name         string
}

// PacketKey identifies a Packet.
type PacketKey struct{ SKU string }

// QuantityKey identifies a shared Quantity.
type QuantityKey struct {
	Value codec.Quantity
	Units string
}

// ImageKey identifies an Image.
type ImageKey struct{ Filename string }

// RunKey identifies a ReconcileRun.
type RunKey struct{ RunID string }

func (k CommonNameKey) String() string { return fmt.Sprintf("%s (index #%d)", k.Name, k.IndexID) }
func (k SeriesKey) String() string     { return fmt.Sprintf("%s (common name #%d)", k.Name, k.CommonNameID) }
func (k CultivarKey) String() string {
	return fmt.Sprintf("%s (common name #%d, series #%d)", k.Name, k.CommonNameID, k.SeriesID)
}
func (k QuantityKey) String() string { return k.Value.String() + " " + k.Units }
