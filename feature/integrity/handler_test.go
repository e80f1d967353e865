package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"seed-catalog/core/storage/mocks"
	"seed-catalog/feature/catalog/codec"
	"seed-catalog/feature/catalog/models"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client, *gorm.DB) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	db := setupCatalogDB(t)
	svc := NewService(mockClient, "test-bucket", zap.NewNop(), db, "")
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, mockClient, db
}

func decodeBody(t *testing.T, app *fiber.App, target string) (int, map[string]any) {
	req := httptest.NewRequest("GET", target, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleStructureCheck(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyList())

	status, body := decodeBody(t, app, "/integrity/structure")
	assert.Equal(t, 200, status)
	assert.Equal(t, "checked", body["status"])
	assert.NotEmpty(t, body["missing"])
}

func TestHandleStructureCheck_Fix(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyList())
	mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, int64(0), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	status, body := decodeBody(t, app, "/integrity/structure?fix=true")
	assert.Equal(t, 200, status)
	assert.Equal(t, "fixed", body["status"])
	mockClient.AssertNumberOfCalls(t, "PutObject", 2)
}

func TestHandleSchemaCheck(t *testing.T) {
	app, _, _ := setupTestApp(t)

	status, body := decodeBody(t, app, "/integrity/schema")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["matched"])
	assert.Equal(t, "sqlite", body["driver"])
}

func TestHandleThumbnailCheck(t *testing.T) {
	app, mockClient, db := setupTestApp(t)
	require.NoError(t, db.Create(&models.Image{Filename: "pink.jpg"}).Error)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyList())

	status, body := decodeBody(t, app, "/integrity/thumbnails")
	assert.Equal(t, 200, status)
	assert.Equal(t, []any{"thumbnails/pink.jpg"}, body["missing"])
}

func TestHandleQuantityCheck(t *testing.T) {
	app, _, db := setupTestApp(t)
	q, err := codec.ParseQuantity("100")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Quantity{Value: q, Units: "seeds"}).Error)

	status, body := decodeBody(t, app, "/integrity/quantities")
	assert.Equal(t, 200, status)
	assert.Equal(t, []any{"100 seeds"}, body["orphaned"])

	status, body = decodeBody(t, app, "/integrity/quantities?fix=true")
	assert.Equal(t, 200, status)
	assert.Equal(t, "fixed", body["status"])

	_, body = decodeBody(t, app, "/integrity/quantities")
	assert.Empty(t, body["orphaned"])
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyList())

	status, body := decodeBody(t, app, "/integrity/")
	assert.Equal(t, 200, status)
	for _, key := range []string{"structure", "schema", "thumbnails", "quantities"} {
		assert.Contains(t, body, key)
	}
}
