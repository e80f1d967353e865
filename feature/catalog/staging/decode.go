package staging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format is the encoding of a dataset document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension; YAML is the default.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// FormatFromContentType picks the format from an HTTP Content-Type.
func FormatFromContentType(ct string) Format {
	if strings.Contains(strings.ToLower(ct), "json") {
		return FormatJSON
	}
	return FormatYAML
}

// document is the raw shape of a dataset before typing.
type document map[string][]map[string]any

// Kind keys of a dataset document.
const (
	keyIndexes        = "indexes"
	keyCommonNames    = "common_names"
	keyBotanicalNames = "botanical_names"
	keySeries         = "series"
	keyCultivars      = "cultivars"
	keyPackets        = "packets"
)

// Decode reads a dataset document. Malformed rows do not fail decoding;
// they carry their error in Err and are rejected during reconciliation.
func Decode(r io.Reader, format Format) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	doc := document{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		err = dec.Decode(&doc)
	default:
		err = yaml.Unmarshal(raw, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s dataset: %w", format, err)
	}

	for key := range doc {
		switch key {
		case keyIndexes, keyCommonNames, keyBotanicalNames, keySeries, keyCultivars, keyPackets:
		default:
			return nil, fmt.Errorf("failed to decode dataset: unknown section %q", key)
		}
	}

	ds := &Dataset{}
	for i, fields := range doc[keyIndexes] {
		ds.Indexes = append(ds.Indexes, toIndex(Record{Row: i + 1, Fields: fields}))
	}
	for i, fields := range doc[keyCommonNames] {
		ds.CommonNames = append(ds.CommonNames, toCommonName(Record{Row: i + 1, Fields: fields}))
	}
	for i, fields := range doc[keyBotanicalNames] {
		ds.BotanicalNames = append(ds.BotanicalNames, toBotanicalName(Record{Row: i + 1, Fields: fields}))
	}
	for i, fields := range doc[keySeries] {
		ds.Series = append(ds.Series, toSeries(Record{Row: i + 1, Fields: fields}))
	}
	for i, fields := range doc[keyCultivars] {
		ds.Cultivars = append(ds.Cultivars, toCultivar(Record{Row: i + 1, Fields: fields}))
	}
	for i, fields := range doc[keyPackets] {
		ds.Packets = append(ds.Packets, toPacket(Record{Row: i + 1, Fields: fields}))
	}
	return ds, nil
}

// LoadFile decodes the dataset at path, choosing the format by extension.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Decode(f, FormatFromPath(path))
}

// Encode writes ds in the given format.
func Encode(w io.Writer, ds *Dataset, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ds)
	default:
		out, err := yaml.MarshalWithOptions(ds, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return fmt.Errorf("failed to encode dataset: %w", err)
		}
		_, err = w.Write(out)
		return err
	}
}

func toIndex(r Record) IndexRecord {
	rec := IndexRecord{
		Row:         r.Row,
		Name:        r.String("index"),
		Description: r.OptString("description"),
		Thumbnail:   r.OptString("thumbnail"),
	}
	if extra := unknownKeys(r, "index", "description", "thumbnail"); len(extra) > 0 {
		rec.Err = unknownKeysError("Index", extra)
	}
	return rec
}

func toCommonName(r Record) CommonNameRecord {
	rec := CommonNameRecord{
		Row:          r.Row,
		Index:        r.String("index"),
		Name:         r.String("common_name"),
		Description:  r.OptString("description"),
		Instructions: r.OptString("planting_instructions"),
		Synonyms:     r.OptList("synonyms"),
		Visible:      r.OptBool("visible"),
	}
	var errs []error
	var err error
	rec.Parent, err = r.OptCommonName("parent")
	errs = append(errs, err)
	rec.GrowsWith, err = r.OptCommonNames("grows_with")
	errs = append(errs, err)
	rec.GrowsWithCultivars, err = r.OptCultivars("grows_with_cultivars")
	errs = append(errs, err)
	if extra := unknownKeys(r, "index", "common_name", "description", "planting_instructions",
		"synonyms", "parent", "grows_with", "grows_with_cultivars", "visible"); len(extra) > 0 {
		errs = append(errs, unknownKeysError("CommonName", extra))
	}
	rec.Err = first(errs)
	return rec
}

func toBotanicalName(r Record) BotanicalNameRecord {
	rec := BotanicalNameRecord{
		Row:      r.Row,
		Name:     r.String("botanical_name"),
		Synonyms: r.OptList("synonyms"),
		Visible:  r.OptBool("visible"),
	}
	var err error
	rec.CommonNames, err = r.OptCommonNames("common_names")
	errs := []error{err}
	if extra := unknownKeys(r, "botanical_name", "common_names", "synonyms", "visible"); len(extra) > 0 {
		errs = append(errs, unknownKeysError("BotanicalName", extra))
	}
	rec.Err = first(errs)
	return rec
}

func toSeries(r Record) SeriesRecord {
	rec := SeriesRecord{
		Row:         r.Row,
		Name:        r.String("series"),
		Description: r.OptString("description"),
		Position:    r.OptPosition("position"),
	}
	var err error
	rec.CommonName, err = r.CommonName("common_name")
	errs := []error{err}
	if extra := unknownKeys(r, "series", "common_name", "description", "position"); len(extra) > 0 {
		errs = append(errs, unknownKeysError("Series", extra))
	}
	rec.Err = first(errs)
	return rec
}

func toCultivar(r Record) CultivarRecord {
	rec := CultivarRecord{
		Row:           r.Row,
		Name:          r.String("cultivar"),
		Series:        r.String("series"),
		BotanicalName: r.OptString("botanical_name"),
		Thumbnail:     r.OptString("thumbnail"),
		Description:   r.OptString("description"),
		Subtitle:      r.OptString("subtitle"),
		Synonyms:      r.OptList("synonyms"),
		NewUntil:      r.OptString("new_until"),
		InStock:       r.OptBool("in_stock"),
		Active:        r.OptBool("active"),
		Visible:       r.OptBool("visible"),
	}
	var errs []error
	var err error
	rec.CommonName, err = r.CommonName("common_name")
	errs = append(errs, err)
	rec.GrowsWith, err = r.OptCommonNames("grows_with")
	errs = append(errs, err)
	rec.GrowsWithCultivars, err = r.OptCultivars("grows_with_cultivars")
	errs = append(errs, err)
	if extra := unknownKeys(r, "cultivar", "common_name", "series", "botanical_name", "thumbnail",
		"description", "subtitle", "synonyms", "new_until", "in_stock", "active", "visible",
		"grows_with", "grows_with_cultivars"); len(extra) > 0 {
		errs = append(errs, unknownKeysError("Cultivar", extra))
	}
	rec.Err = first(errs)
	return rec
}

func toPacket(r Record) PacketRecord {
	rec := PacketRecord{
		Row:      r.Row,
		SKU:      r.String("sku"),
		Price:    r.String("price"),
		Quantity: r.String("quantity"),
		Units:    r.String("units"),
	}
	var err error
	rec.Cultivar, err = r.Cultivar("cultivar")
	errs := []error{err}
	if extra := unknownKeys(r, "cultivar", "sku", "price", "quantity", "units"); len(extra) > 0 {
		errs = append(errs, unknownKeysError("Packet", extra))
	}
	rec.Err = first(errs)
	return rec
}

func first(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
