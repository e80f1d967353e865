package staging

import (
	"bytes"
	"strings"
	"testing"

	"seed-catalog/core/reconcile"
	"seed-catalog/feature/catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlDataset = `
indexes:
  - index: perennial
    description: Plants that come back.
common_names:
  - index: Perennial
    common_name: Foxglove
    synonyms: [Digitalis, Fairy Bells]
    parent: {name: Flowers, index: Perennial}
    grows_with:
      - {name: Coleus, index: Annual}
    visible: "True"
  - index: Perennial
    common_name: Coleus
    description: ""
    grows_with: not-a-list
botanical_names:
  - botanical_name: Digitalis purpurea
    common_names:
      - {name: Foxglove, index: Perennial}
    synonyms: [Digitalis gloxiniiflora]
series:
  - series: Polkadot
    common_name: {name: Foxglove, index: Perennial}
    position: before_cultivar
cultivars:
  - cultivar: Pink
    common_name: {name: Foxglove, index: Perennial}
    series: Polkadot
    in_stock: true
    grows_with_cultivars:
      - {common_name: Foxglove, index: Perennial, cultivar: Foxy}
packets:
  - cultivar: {common_name: Foxglove, index: Perennial, series: Polkadot, cultivar: Pink}
    sku: F100
    price: 2.99
    quantity: 100
    units: seeds
`

var foxgloveLookup = models.CommonNameLookup{Name: "Foxglove", Index: "Perennial"}

func TestDecodeYAML(t *testing.T) {
	ds, err := Decode(strings.NewReader(yamlDataset), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 7, ds.Len())

	require.Len(t, ds.Indexes, 1)
	assert.Equal(t, "perennial", ds.Indexes[0].Name)
	require.NotNil(t, ds.Indexes[0].Description)
	assert.Nil(t, ds.Indexes[0].Thumbnail, "absent columns stay nil")

	fox := ds.CommonNames[0]
	assert.Equal(t, 1, fox.Row)
	require.NoError(t, fox.Err)
	require.NotNil(t, fox.Synonyms)
	assert.Equal(t, "Digitalis, Fairy Bells", *fox.Synonyms)
	require.NotNil(t, fox.Parent)
	assert.Equal(t, models.CommonNameLookup{Name: "Flowers", Index: "Perennial"}, *fox.Parent)
	require.NotNil(t, fox.GrowsWith)
	assert.Equal(t, []models.CommonNameLookup{{Name: "Coleus", Index: "Annual"}}, *fox.GrowsWith)
	require.NotNil(t, fox.Visible)
	assert.True(t, *fox.Visible)
	assert.Nil(t, fox.GrowsWithCultivars)

	coleus := ds.CommonNames[1]
	assert.Equal(t, 2, coleus.Row)
	require.NotNil(t, coleus.Description)
	assert.Equal(t, "", *coleus.Description, "present but empty clears")
	assert.ErrorIs(t, coleus.Err, reconcile.ErrFormat)

	require.Len(t, ds.BotanicalNames, 1)
	bn := ds.BotanicalNames[0]
	require.NoError(t, bn.Err)
	assert.Equal(t, "Digitalis purpurea", bn.Name)
	require.NotNil(t, bn.CommonNames)
	assert.Equal(t, []models.CommonNameLookup{foxgloveLookup}, *bn.CommonNames)
	require.NotNil(t, bn.Synonyms)
	assert.Equal(t, "Digitalis gloxiniiflora", *bn.Synonyms)
	assert.Nil(t, bn.Visible)

	cv := ds.Cultivars[0]
	assert.Equal(t, models.CultivarLookup{CommonName: "Foxglove", Index: "Perennial", Series: "Polkadot", Cultivar: "Pink"}, cv.Lookup())
	require.NotNil(t, cv.InStock)
	assert.True(t, *cv.InStock)
	require.NotNil(t, cv.GrowsWithCultivars)
	assert.Equal(t, "Foxy", (*cv.GrowsWithCultivars)[0].Cultivar)

	pkt := ds.Packets[0]
	assert.Equal(t, "2.99", pkt.Price)
	assert.Equal(t, "100", pkt.Quantity)
	assert.Equal(t, "Pink", pkt.Cultivar.Cultivar)
}

func TestDecodeYAML_NumericCells(t *testing.T) {
	doc := `
series:
  - series: Polkadot
    common_name: {name: Foxglove, index: Perennial}
    position: 1
packets:
  - cultivar: {common_name: Foxglove, index: Perennial, cultivar: Foxy}
    sku: F200
    price: 3
    quantity: 0.000001
    units: oz
`
	ds, err := Decode(strings.NewReader(doc), FormatYAML)
	require.NoError(t, err)

	require.Len(t, ds.Series, 1)
	require.NotNil(t, ds.Series[0].Position)
	assert.Equal(t, "after_cultivar", *ds.Series[0].Position)

	require.Len(t, ds.Packets, 1)
	assert.Equal(t, "0.000001", ds.Packets[0].Quantity, "no exponent form")
	assert.Equal(t, "3", ds.Packets[0].Price)
}

func TestDecodeJSON(t *testing.T) {
	doc := `{"packets":[{"cultivar":{"common_name":"Foxglove","index":"Perennial","cultivar":"Foxy"},
		"sku":123456789,"price":"$3.50","quantity":"1 3/8","units":"oz"}]}`
	ds, err := Decode(strings.NewReader(doc), FormatJSON)
	require.NoError(t, err)
	require.Len(t, ds.Packets, 1)
	assert.Equal(t, "123456789", ds.Packets[0].SKU)
	assert.Equal(t, "1 3/8", ds.Packets[0].Quantity)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"plants": []}`), FormatJSON)
	assert.ErrorContains(t, err, `unknown section "plants"`)

	_, err = Decode(strings.NewReader(`{`), FormatJSON)
	assert.Error(t, err)

	ds, err := Decode(strings.NewReader("indexes:\n  - index: Annual\n    colour: red\n"), FormatYAML)
	require.NoError(t, err)
	assert.ErrorIs(t, ds.Indexes[0].Err, reconcile.ErrValidation)
	assert.ErrorContains(t, ds.Indexes[0].Err, "colour")
}

func TestEncodeRoundTrip(t *testing.T) {
	desc := "Plants that come back."
	visible := false
	grows := []models.CommonNameLookup{{Name: "Coleus", Index: "Annual"}}
	ds := &Dataset{
		Indexes:     []IndexRecord{{Name: "Perennial", Description: &desc}},
		CommonNames: []CommonNameRecord{{Index: "Perennial", Name: "Foxglove", Visible: &visible, GrowsWith: &grows}},
	}

	for _, format := range []Format{FormatYAML, FormatJSON} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, ds, format))

		back, err := Decode(&buf, format)
		require.NoError(t, err, format)
		assert.Equal(t, "Perennial", back.Indexes[0].Name)
		assert.Equal(t, desc, *back.Indexes[0].Description)
		require.NotNil(t, back.CommonNames[0].Visible)
		assert.False(t, *back.CommonNames[0].Visible)
		assert.Equal(t, grows, *back.CommonNames[0].GrowsWith)
		assert.NoError(t, back.CommonNames[0].Err)
	}
}

func TestFormatDetection(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("catalog.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("catalog.yml"))
	assert.Equal(t, FormatJSON, FormatFromContentType("application/json; charset=utf-8"))
	assert.Equal(t, FormatYAML, FormatFromContentType("application/x-yaml"))
}

func TestParsePacketString(t *testing.T) {
	tests := []struct {
		in   string
		want PacketText
	}{
		{"100 seeds - $1.99", PacketText{Price: "1.99", Quantity: "100", Units: "seeds"}},
		{"1,000 seeds: $4.99", PacketText{Price: "4.99", Quantity: "1000", Units: "seeds"}},
		{"1 3/8 oz - $2.50", PacketText{Price: "2.50", Quantity: "1 3/8", Units: "oz"}},
		{"1/4 oz. - 3.49", PacketText{Price: "3.49", Quantity: "1/4", Units: "oz."}},
		{"25 Jumbo Seeds $3.95", PacketText{Price: "3.95", Quantity: "25", Units: "jumbo seeds"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePacketString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"seeds", "100 seeds - 2", "$1.99 seeds", "100 $1.99"} {
		_, err := ParsePacketString(bad)
		assert.Error(t, err, bad)
	}
}

func TestBotanicalNames(t *testing.T) {
	got := BotanicalNames("D.lanata, Digitalis purpurea syn. D. gloxiniiflora")
	assert.Equal(t, []string{
		"Digitalis purpurea syn. Digitalis gloxiniiflora",
		"Digitalis lanata",
	}, got)
}

const pageTree = `{
  "common name": "Foxglove",
  "index": "Perennial",
  "description": "Tall spikes.",
  "botanical names": ["Digitalis purpurea, D. lanata"],
  "sections": [
    {"section name": "Polkadot",
     "cultivars": [
       {"cultivar name": "Pink", "subtitle": "Foxglove Seeds",
        "packet": {"sku": "F100", "text": "100 seeds - $2.99"}}
     ],
     "sections": [{"section name": "Polkadot Mini"}]}
  ],
  "cultivars": [
    {"cultivar name": "Foxy", "botanical name": "digitalis purpurea", "in stock": true,
     "packet": {"sku": "F200", "text": "no price here"},
     "jumbo": {"sku": "F201", "price": "5.99", "quantity": "1/4", "units": "oz"}}
  ]
}`

func TestFromPageTree(t *testing.T) {
	tree, err := DecodePageTree(strings.NewReader(pageTree))
	require.NoError(t, err)

	ds, err := FromPageTree(tree, "")
	require.NoError(t, err)

	require.Len(t, ds.Indexes, 1)
	assert.Equal(t, "Perennial", ds.Indexes[0].Name)
	require.Len(t, ds.CommonNames, 1)
	assert.Equal(t, "Tall spikes.", *ds.CommonNames[0].Description)

	require.Len(t, ds.BotanicalNames, 2, "repeated botanical names merge")
	assert.Equal(t, "Digitalis purpurea", ds.BotanicalNames[0].Name)
	assert.Equal(t, "Digitalis lanata", ds.BotanicalNames[1].Name)
	assert.Equal(t, []models.CommonNameLookup{{Name: "Foxglove", Index: "Perennial"}}, *ds.BotanicalNames[0].CommonNames)

	require.Len(t, ds.Series, 2)
	assert.Equal(t, "Polkadot Mini", ds.Series[1].Name)

	require.Len(t, ds.Cultivars, 2)
	pink := ds.Cultivars[0]
	assert.Equal(t, "Polkadot", pink.Series)
	assert.Nil(t, pink.Subtitle, "subtitle repeating the common name is dropped")
	require.NotNil(t, pink.Visible)
	assert.False(t, *pink.Visible)
	foxy := ds.Cultivars[1]
	assert.Equal(t, "Digitalis purpurea", *foxy.BotanicalName)

	require.Len(t, ds.Packets, 3)
	assert.Equal(t, PacketRecord{
		Row:      1,
		Cultivar: models.CultivarLookup{CommonName: "Foxglove", Index: "Perennial", Series: "Polkadot", Cultivar: "Pink"},
		SKU:      "F100", Price: "2.99", Quantity: "100", Units: "seeds",
	}, ds.Packets[0])
	assert.ErrorIs(t, ds.Packets[1].Err, reconcile.ErrFormat)
	assert.Equal(t, "1/4", ds.Packets[2].Quantity)
}

func TestFromPageTree_RequiresNames(t *testing.T) {
	_, err := FromPageTree(&PageTree{Index: "Perennial"}, "")
	assert.ErrorIs(t, err, reconcile.ErrValidation)

	_, err = FromPageTree(&PageTree{CommonName: "Foxglove"}, "")
	assert.ErrorIs(t, err, reconcile.ErrValidation)

	ds, err := FromPageTree(&PageTree{CommonName: "Foxglove"}, "Annual")
	require.NoError(t, err)
	assert.Equal(t, "Annual", ds.CommonNames[0].Index)
}
