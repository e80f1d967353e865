package dbctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type item struct {
	ID   uint
	Name string `gorm:"uniqueIndex"`
}

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&item{}))
	return db
}

func count(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&item{}).Count(&n).Error)
	return n
}

func TestContextDB(t *testing.T) {
	db := setupDB(t)

	// Without a transaction the base handle is used
	dc := Context{}
	require.NoError(t, dc.DB(db).Create(&item{Name: "Foxglove"}).Error)
	assert.Equal(t, int64(1), count(t, db))
}

func TestUnitOfWork_Commit(t *testing.T) {
	db := setupDB(t)

	uow, err := Begin(context.Background(), db)
	require.NoError(t, err)
	require.NoError(t, uow.Context().DB(db).Create(&item{Name: "Coleus"}).Error)
	require.NoError(t, uow.Commit())

	// Rollback after commit is a no-op
	assert.NoError(t, uow.Rollback())
	assert.Equal(t, int64(1), count(t, db))
}

func TestUnitOfWork_Rollback(t *testing.T) {
	db := setupDB(t)

	uow, err := Begin(context.Background(), db)
	require.NoError(t, err)
	require.NoError(t, uow.Context().DB(db).Create(&item{Name: "Coleus"}).Error)
	require.NoError(t, uow.Rollback())

	assert.Equal(t, int64(0), count(t, db))
}

func TestUnitOfWork_SavePoint(t *testing.T) {
	db := setupDB(t)

	uow, err := Begin(context.Background(), db)
	require.NoError(t, err)
	defer uow.Rollback()

	tx := uow.Context().DB(db)
	require.NoError(t, tx.Create(&item{Name: "Foxglove"}).Error)
	require.NoError(t, uow.SavePoint("sp1"))
	require.NoError(t, tx.Create(&item{Name: "Coleus"}).Error)
	require.NoError(t, uow.RollbackTo("sp1"))

	var names []string
	require.NoError(t, tx.Model(&item{}).Pluck("name", &names).Error)
	assert.Equal(t, []string{"Foxglove"}, names)
}
