package integrity

import (
	"context"
	"errors"
	"testing"

	"seed-catalog/core/database"
	"seed-catalog/core/storage/mocks"
	"seed-catalog/feature/catalog/codec"
	"seed-catalog/feature/catalog/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

// setupCatalogDB creates a migrated in-memory catalog.
func setupCatalogDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func emptyList() <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func TestService_Structure(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", zap.NewNop(), nil, "")

	t.Run("CheckStructure", func(t *testing.T) {
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyList())

		missing, err := svc.CheckStructure(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []string{"exports", "thumbnails"}, missing)
	})

	t.Run("FixStructure", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, "test-bucket", "exports/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)
		err := svc.FixStructure(context.Background(), []string{"exports"})
		assert.NoError(t, err)
	})
}

func TestService_NoDatabase(t *testing.T) {
	svc := NewService(new(mocks.Client), "test-bucket", zap.NewNop(), nil, "")

	_, err := svc.CheckSchema()
	assert.ErrorIs(t, err, ErrNoDatabase)
	_, err = svc.CheckThumbnails(context.Background())
	assert.ErrorIs(t, err, ErrNoDatabase)
	_, err = svc.CheckQuantities(context.Background())
	assert.ErrorIs(t, err, ErrNoDatabase)
	_, err = svc.FixQuantities(context.Background())
	assert.ErrorIs(t, err, ErrNoDatabase)
}

func TestService_SchemaInspectFailure(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	svc := NewService(new(mocks.Client), "test-bucket", zap.NewNop(), db, "")

	sqlMock.MatchExpectationsInOrder(false)
	for range models.All() {
		sqlMock.ExpectQuery("SHOW COLUMNS FROM").WillReturnError(errors.New("access denied"))
	}

	report, err := svc.CheckSchema()
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Len(t, report.Errors, len(models.All()))
	assert.Contains(t, report.Errors[0], "access denied")
}

func TestService_Quantities(t *testing.T) {
	db := setupCatalogDB(t)
	q, err := codec.ParseQuantity("1/4")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Quantity{Value: q, Units: "oz"}).Error)

	svc := NewService(new(mocks.Client), "test-bucket", zap.NewNop(), db, "")

	orphans, err := svc.CheckQuantities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1/4 oz"}, orphans)

	removed, err := svc.FixQuantities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1/4 oz"}, removed)

	var n int64
	require.NoError(t, db.Model(&models.Quantity{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestService_Thumbnails(t *testing.T) {
	db := setupCatalogDB(t)
	require.NoError(t, db.Create(&models.Image{Filename: "foxglove.jpg"}).Error)

	mockClient := new(mocks.Client)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyList())
	svc := NewService(mockClient, "test-bucket", zap.NewNop(), db, "thumbs")

	report, err := svc.CheckThumbnails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"thumbs/foxglove.jpg"}, report.Missing)
}
