package auth_test

import (
	"net/http/httptest"
	"testing"

	"seed-catalog/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(cfg auth.Config) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(cfg))
	app.Get("/catalog/export", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		header string
		query  string
		want   int
	}{
		{"Disabled", "", "", "", 200},
		{"Valid Header", "secret", "secret", "", 200},
		{"Valid Query", "secret", "", "secret", 200},
		{"Wrong Key", "secret", "nope", "", 401},
		{"Missing Key", "secret", "", "", 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupApp(auth.Config{ApiKey: tt.key})
			target := "/catalog/export"
			if tt.query != "" {
				target += "?api_key=" + tt.query
			}
			req := httptest.NewRequest("GET", target, nil)
			if tt.header != "" {
				req.Header.Set(auth.HeaderName, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuth_Next(t *testing.T) {
	app := setupApp(auth.Config{ApiKey: "secret", Next: func(c *fiber.Ctx) bool { return true }})
	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/export", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
