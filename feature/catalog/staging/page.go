package staging

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"seed-catalog/core/reconcile"
	"seed-catalog/feature/catalog/models"
	"seed-catalog/feature/catalog/naming"
)

// PageTree is the JSON tree scraped from one common-name page.
type PageTree struct {
	CommonName     string         `json:"common name"`
	Index          string         `json:"index"`
	Thumbnail      string         `json:"thumbnail,omitempty"`
	Synonyms       string         `json:"synonyms,omitempty"`
	BotanicalNames []string       `json:"botanical names,omitempty"`
	Description    string         `json:"description,omitempty"`
	Instructions   string         `json:"instructions,omitempty"`
	Sections       []PageSection  `json:"sections,omitempty"`
	Cultivars      []PageCultivar `json:"cultivars,omitempty"`
}

// PageSection is a titled group of cultivars on a page. Sections become
// Series of the page's common name; nested sections are flattened.
type PageSection struct {
	Name           string         `json:"section name"`
	Subtitle       string         `json:"subtitle,omitempty"`
	BotanicalNames []string       `json:"botanical names,omitempty"`
	Description    string         `json:"description,omitempty"`
	Cultivars      []PageCultivar `json:"cultivars,omitempty"`
	Sections       []PageSection  `json:"sections,omitempty"`
}

// PageCultivar is one cultivar div.
type PageCultivar struct {
	Name          string      `json:"cultivar name"`
	Subtitle      string      `json:"subtitle,omitempty"`
	NewUntil      string      `json:"new until,omitempty"`
	Thumbnail     string      `json:"thumbnail,omitempty"`
	BotanicalName string      `json:"botanical name,omitempty"`
	Description   string      `json:"description,omitempty"`
	InStock       *bool       `json:"in stock,omitempty"`
	Active        *bool       `json:"active,omitempty"`
	Packet        *PagePacket `json:"packet,omitempty"`
	Jumbo         *PagePacket `json:"jumbo,omitempty"`
}

// PagePacket is a packet offer. Text, when set, is parsed with
// ParsePacketString and overrides Price, Quantity and Units.
type PagePacket struct {
	SKU      string `json:"sku"`
	Text     string `json:"text,omitempty"`
	Price    string `json:"price,omitempty"`
	Quantity string `json:"quantity,omitempty"`
	Units    string `json:"units,omitempty"`
}

// DecodePageTree reads a scraped page tree.
func DecodePageTree(r io.Reader) (*PageTree, error) {
	var tree PageTree
	if err := json.NewDecoder(r).Decode(&tree); err != nil {
		return nil, fmt.Errorf("failed to decode page tree: %w", err)
	}
	return &tree, nil
}

var abbrGap = regexp.MustCompile(`\.([a-zA-Z])`)

// BotanicalNames cleans a header listing several botanical names, such as
// "Digitalis purpurea, D.lanata syn. D. orientalis". Abbreviated genera are
// expanded from full names in the same header; the longest genera are
// learned first.
func BotanicalNames(header string) []string {
	header = abbrGap.ReplaceAllString(header, ". $1")
	parts := strings.Split(strings.ReplaceAll(header, ", syn.", " syn."), ", ")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return len(firstWord(names[i])) > len(firstWord(names[j]))
	})

	exp := naming.NewBotanicalExpander()
	out := make([]string, 0, len(names))
	for _, n := range names {
		main, syns := splitSynonyms(n)
		full := exp.Expand(main)
		for i, s := range syns {
			syns[i] = exp.Expand(s)
		}
		if len(syns) > 0 {
			full += " syn. " + strings.Join(syns, " syn. ")
		}
		out = append(out, full)
	}
	return out
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

// splitSynonyms splits "Name syn. Other syn. Another".
func splitSynonyms(bn string) (string, []string) {
	parts := strings.Split(bn, " syn. ")
	return strings.TrimSpace(parts[0]), parts[1:]
}

// FromPageTree flattens a page tree into a dataset. The index argument
// overrides the tree's own index when non-empty.
func FromPageTree(tree *PageTree, index string) (*Dataset, error) {
	if index == "" {
		index = tree.Index
	}
	if strings.TrimSpace(tree.CommonName) == "" {
		return nil, reconcile.NewValidationError("CommonName", "common name", "", "page tree has no common name")
	}
	if strings.TrimSpace(index) == "" {
		return nil, reconcile.NewValidationError("Index", "index", "", "page tree has no index")
	}

	cn := models.CommonNameLookup{Name: tree.CommonName, Index: index}
	p := &pageFlattener{cn: cn, ds: &Dataset{}, botanical: map[string]int{}}

	p.ds.Indexes = append(p.ds.Indexes, IndexRecord{Row: 1, Name: index})
	cnRec := CommonNameRecord{
		Row:          1,
		Index:        index,
		Name:         tree.CommonName,
		Description:  optional(tree.Description),
		Instructions: optional(tree.Instructions),
		Synonyms:     optional(tree.Synonyms),
	}
	p.ds.CommonNames = append(p.ds.CommonNames, cnRec)

	p.addBotanicalNames(tree.BotanicalNames)
	for _, sec := range tree.Sections {
		p.addSection(sec)
	}
	p.addCultivars("", tree.Cultivars)
	return p.ds, nil
}

type pageFlattener struct {
	cn        models.CommonNameLookup
	ds        *Dataset
	botanical map[string]int
}

func (p *pageFlattener) addBotanicalNames(headers []string) {
	for _, h := range headers {
		for _, bn := range BotanicalNames(h) {
			name, syns := splitSynonyms(bn)
			p.addBotanicalName(name, syns)
		}
	}
}

// addBotanicalName merges botanical names repeated across sections.
func (p *pageFlattener) addBotanicalName(name string, syns []string) {
	name = naming.FixBotanical(name)
	if i, ok := p.botanical[name]; ok {
		if len(syns) > 0 {
			s := strings.Join(syns, reconcile.SynonymSeparator)
			p.ds.BotanicalNames[i].Synonyms = &s
		}
		return
	}
	cns := []models.CommonNameLookup{p.cn}
	rec := BotanicalNameRecord{Row: len(p.ds.BotanicalNames) + 1, Name: name, CommonNames: &cns}
	if len(syns) > 0 {
		s := strings.Join(syns, reconcile.SynonymSeparator)
		rec.Synonyms = &s
	}
	p.botanical[name] = len(p.ds.BotanicalNames)
	p.ds.BotanicalNames = append(p.ds.BotanicalNames, rec)
}

func (p *pageFlattener) addSection(sec PageSection) {
	p.ds.Series = append(p.ds.Series, SeriesRecord{
		Row:         len(p.ds.Series) + 1,
		Name:        sec.Name,
		CommonName:  p.cn,
		Description: optional(sec.Description),
	})
	p.addBotanicalNames(sec.BotanicalNames)
	p.addCultivars(sec.Name, sec.Cultivars)
	for _, child := range sec.Sections {
		p.addSection(child)
	}
}

func (p *pageFlattener) addCultivars(series string, cvs []PageCultivar) {
	for _, cv := range cvs {
		rec := CultivarRecord{
			Row:         len(p.ds.Cultivars) + 1,
			Name:        cv.Name,
			CommonName:  p.cn,
			Series:      series,
			Thumbnail:   optional(cv.Thumbnail),
			Description: optional(cv.Description),
			Subtitle:    optional(cleanSubtitle(cv.Subtitle, p.cn.Name)),
			NewUntil:    optional(cv.NewUntil),
			InStock:     cv.InStock,
			Active:      cv.Active,
		}
		// Scraped cultivars stay hidden until reviewed
		hidden := false
		rec.Visible = &hidden
		if cv.BotanicalName != "" {
			bn := naming.FixBotanical(cv.BotanicalName)
			rec.BotanicalName = &bn
			p.addBotanicalName(bn, nil)
		}
		p.ds.Cultivars = append(p.ds.Cultivars, rec)

		for _, pkt := range []*PagePacket{cv.Packet, cv.Jumbo} {
			if pkt != nil {
				p.addPacket(rec.Lookup(), pkt)
			}
		}
	}
}

func (p *pageFlattener) addPacket(cv models.CultivarLookup, pkt *PagePacket) {
	rec := PacketRecord{
		Row:      len(p.ds.Packets) + 1,
		Cultivar: cv,
		SKU:      pkt.SKU,
		Price:    pkt.Price,
		Quantity: pkt.Quantity,
		Units:    pkt.Units,
	}
	if pkt.Text != "" {
		parsed, err := ParsePacketString(pkt.Text)
		if err != nil {
			rec.Err = reconcile.NewFormatError("packet", pkt.Text, err.Error())
		} else {
			rec.Price, rec.Quantity, rec.Units = parsed.Price, parsed.Quantity, parsed.Units
		}
	}
	p.ds.Packets = append(p.ds.Packets, rec)
}

// cleanSubtitle drops subtitles that only repeat the common name.
func cleanSubtitle(subtitle, commonName string) string {
	s := strings.ToLower(subtitle)
	s = strings.ReplaceAll(s, strings.ToLower(commonName), "")
	s = strings.ReplaceAll(s, "seeds", "")
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return subtitle
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
