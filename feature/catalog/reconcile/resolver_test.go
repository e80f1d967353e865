package reconcile

import (
	"testing"

	"seed-catalog/core/database"
	"seed-catalog/core/dbctx"
	"seed-catalog/core/reconcile"
	"seed-catalog/feature/catalog/codec"
	"seed-catalog/feature/catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type collector struct {
	events []reconcile.Event
}

func (c *collector) Emit(events ...reconcile.Event) {
	c.events = append(c.events, events...)
}

func (c *collector) messages(action reconcile.Action) []string {
	var out []string
	for _, ev := range c.events {
		if ev.Action == action {
			out = append(out, ev.Message)
		}
	}
	return out
}

func setupDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func TestResolver_IndexNormalizesAndReuses(t *testing.T) {
	d := NewDriver(setupDB(t), zap.NewNop())
	dc := dbctx.Context{}
	em := &collector{}

	idx, created, err := d.resolver.Index(dc, em, "  perennial ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Perennial", idx.Name)
	assert.Equal(t, "perennials", idx.Slug)

	again, created, err := d.resolver.Index(dc, em, "Perennial")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, idx.ID, again.ID)

	assert.Equal(t, []string{"The Index 'Perennial' does not yet exist in the database, so it has been created."},
		em.messages(reconcile.ActionCreated))
	assert.Len(t, em.messages(reconcile.ActionLoaded), 1)
}

func TestResolver_CommonNameCreatesHiddenPlaceholder(t *testing.T) {
	d := NewDriver(setupDB(t), zap.NewNop())
	dc := dbctx.Context{}
	em := &collector{}

	cn, created, err := d.resolver.CommonName(dc, em, models.CommonNameLookup{Name: "butterfly weed", Index: "perennial"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, cn.Invisible)
	assert.Equal(t, "Butterfly Weed", cn.Name)
	assert.Equal(t, "butterfly-weed", cn.Slug)
	assert.Len(t, em.messages(reconcile.ActionCreated), 2, "index and common name")

	// Existing entities are returned untouched
	cn.Description = "Loved by monarchs."
	cn.Invisible = false
	require.NoError(t, d.repo.CommonNames.Save(dc, cn))

	found, created, err := d.resolver.CommonName(dc, em, models.CommonNameLookup{Name: "Butterfly Weed", Index: "Perennial"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Loved by monarchs.", found.Description)
	assert.False(t, found.Invisible)
}

func TestResolver_RequiresNames(t *testing.T) {
	d := NewDriver(setupDB(t), zap.NewNop())
	dc := dbctx.Context{}

	_, _, err := d.resolver.CommonName(dc, &collector{}, models.CommonNameLookup{Name: "Foxglove"})
	assert.ErrorIs(t, err, reconcile.ErrValidation)

	_, _, err = d.resolver.Cultivar(dc, &collector{}, models.CultivarLookup{CommonName: "Foxglove", Index: "Perennial"})
	assert.ErrorIs(t, err, reconcile.ErrValidation)
}

func TestResolver_BotanicalName(t *testing.T) {
	d := NewDriver(setupDB(t), zap.NewNop())
	dc := dbctx.Context{}

	em := &collector{}
	_, _, err := d.resolver.BotanicalName(dc, em, "Invalid Botanical Name", false)
	assert.ErrorIs(t, err, reconcile.ErrValidation)
	assert.Empty(t, em.events)

	bn, created, err := d.resolver.BotanicalName(dc, em, "DIGITALIS purpurea", true)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Digitalis purpurea", bn.Name)
	assert.Len(t, em.messages(reconcile.ActionWarning), 1)
}

func TestResolver_CultivarKeyIncludesSeries(t *testing.T) {
	d := NewDriver(setupDB(t), zap.NewNop())
	dc := dbctx.Context{}
	em := &collector{}

	plain, created, err := d.resolver.Cultivar(dc, em, models.CultivarLookup{CommonName: "Foxglove", Index: "Perennial", Cultivar: "Pink"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Nil(t, plain.SeriesID)

	inSeries, created, err := d.resolver.Cultivar(dc, em,
		models.CultivarLookup{CommonName: "Foxglove", Index: "Perennial", Series: "Polkadot", Cultivar: "Pink"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, plain.ID, inSeries.ID)
	assert.Equal(t, "Polkadot Pink Foxglove", inSeries.FullName())

	again, created, err := d.resolver.Cultivar(dc, em,
		models.CultivarLookup{CommonName: "Foxglove", Index: "Perennial", Series: "Polkadot", Cultivar: "Pink"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, inSeries.ID, again.ID)
}

func TestResolver_QuantitySharedAcrossForms(t *testing.T) {
	d := NewDriver(setupDB(t), zap.NewNop())
	dc := dbctx.Context{}

	half, err := codec.ParseQuantity("1/2")
	require.NoError(t, err)
	a, err := d.resolver.Quantity(dc, half, "oz")
	require.NoError(t, err)
	b, err := d.resolver.Quantity(dc, codec.Fraction(2, 4), " oz ")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	c, err := d.resolver.Quantity(dc, codec.Fraction(1, 2), "grams")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}
