package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"debug console", Config{Level: "debug", Format: "console"}},
		{"info json", Config{Level: "info", Format: "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestWithRun(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	WithRun(base, "run-1").Info("record reconciled")
	WithRun(base, "").Info("no run")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", entries[0].ContextMap()["run_id"])
	assert.NotContains(t, entries[1].ContextMap(), "run_id")
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("ray_id", "ray-123")
		WithRayID(base, c).Info("handled")
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "ray-123", logs.All()[0].ContextMap()["ray_id"])
}

func TestNew_Level(t *testing.T) {
	l, err := New(&Config{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = New(&Config{Level: "loud"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel), "unknown levels fall back to info")
}

func TestRecordFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	base.Info("with row", RecordFields("Cultivar", "Pink", 4)...)
	base.Info("without row", RecordFields("Index", "Perennial", 0)...)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]any{"kind": "Cultivar", "record": "Pink", "row": int64(4)}, entries[0].ContextMap())
	assert.NotContains(t, entries[1].ContextMap(), "row")
}
