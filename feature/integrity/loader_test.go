package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"seed-catalog/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoader_RegistersRoutesWithoutDatabase(t *testing.T) {
	feature := NewFeature(new(mocks.Client), "catalog", zap.NewNop(), nil, "thumbnails")

	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))

	// Database-backed checks report the missing database instead of panicking
	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/schema", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, ErrNoDatabase.Error(), body["error"])
}
