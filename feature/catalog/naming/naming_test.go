package naming

import (
	"errors"
	"testing"

	"seed-catalog/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDbify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"foxglove", "Foxglove"},
		{"  DWARF SWEET PEA ", "Dwarf Sweet Pea"},
		{"forget-me-not", "Forget-me-not"},
		{"texas 1015y onion", "Texas 1015Y Onion"},
		{"rose d'avignon", "Rose d'Avignon"},
		{"o'hara", "O'Hara"},
		{"love in a mist", "Love in a Mist"},
		{"mix of the day", "Mix of the Day"},
		{"the king", "The King"},
		{"fire and ice ii", "Fire and Ice II"},
		{"dwarf w/ stripes", "Dwarf w/ Stripes"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Dbify(tt.in))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Foxglove", "foxglove"},
		{"Forget-me-not", "forget-me-not"},
		{"Rose d'Avignon", "rose-davignon"},
		{"Crème Brûlée", "creme-brulee"},
		{"  Dwarf / Tall  ", "dwarf-tall"},
		{"Texas 1015Y", "texas-1015y"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestIndexSlug(t *testing.T) {
	assert.Equal(t, "perennials", IndexSlug("Perennial"))
	assert.Equal(t, "cover-crops", IndexSlug("Cover Crop"))
	assert.Equal(t, "tomatoes", IndexSlug("Tomato"))
}

func TestNameWithSeries(t *testing.T) {
	assert.Equal(t, "Foxy", NameWithSeries("Foxy", "", false))
	assert.Equal(t, "Polkadot Pink", NameWithSeries("Pink", "Polkadot", false))
	assert.Equal(t, "Pink Polkadot", NameWithSeries("Pink", "Polkadot", true))
	assert.Equal(t, "Polkadot Mix", NameWithSeries("Mix", "Polkadot", true), "mixes keep the series first")
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Polkadot Pink Foxglove", FullName("Pink", "Polkadot", false, "Foxglove"))
	assert.Equal(t, "Sunflower", FullName("Sunflower", "", false, "Sunflower"))
	assert.Equal(t, "Foxy", FullName("Foxy", "", false, ""))
}

func TestValidBotanical(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Digitalis purpurea", true},
		{"Digitalis interspecies hybrid", true},
		{"Digitalis", false},
		{"digitalis purpurea", false},
		{"DIgitalis purpurea", false},
		{"Digitalis Purpurea", false},
		{"Invalid Botanical Name", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidBotanical(tt.name))
		})
	}
}

func TestValidateBotanical(t *testing.T) {
	require.NoError(t, ValidateBotanical("name", "Digitalis purpurea"))

	err := ValidateBotanical("name", "Invalid Botanical Name")
	require.Error(t, err)
	assert.True(t, errors.Is(err, reconcile.ErrValidation))

	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid Botanical Name", verr.Value)
}

func TestFixBotanical(t *testing.T) {
	assert.Equal(t, "Digitalis purpurea", FixBotanical("digitalis purpurea"))
	assert.Equal(t, "Digitalis purpurea", FixBotanical("DIGITALIS purpurea"))
	assert.Equal(t, "", FixBotanical(" "))
	assert.False(t, ValidBotanical(FixBotanical("digitalis Purpurea")), "only the genus is repaired")
}

func TestValidateBotanicalSynonyms(t *testing.T) {
	assert.NoError(t, ValidateBotanicalSynonyms(nil))
	assert.NoError(t, ValidateBotanicalSynonyms([]string{"Digitalis ambigua", "Digitalis grandiflora"}))

	err := ValidateBotanicalSynonyms([]string{"Digitalis ambigua", "bad", "Also Bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad, Also Bad")
}

func TestBotanicalExpander(t *testing.T) {
	e := NewBotanicalExpander()
	assert.Equal(t, "Digitalis purpurea", e.Expand("Digitalis purpurea"))
	assert.Equal(t, "Digitalis lanata", e.Expand("D. lanata"))
	assert.Equal(t, "Digitalis grandiflora", e.Expand("syn. D. grandiflora"))
	assert.Equal(t, "Z. elegans", e.Expand("Z. elegans"), "unknown initials are left alone")

	// The first genus for an initial wins
	assert.Equal(t, "Dianthus barbatus", e.Expand("Dianthus barbatus"))
	assert.Equal(t, "Digitalis ferruginea", e.Expand("D. ferruginea"))
}
