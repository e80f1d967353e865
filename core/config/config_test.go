package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"seed-catalog/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "catalog", cfg.Storage.Bucket)
	assert.Equal(t, "thumbnails", cfg.Catalog.ThumbnailPrefix)
	assert.Equal(t, "exports", cfg.Catalog.ExportPrefix)
	assert.Equal(t, 30*time.Second, cfg.Catalog.SnapshotTTL())
	assert.True(t, cfg.Catalog.AutoMigrate)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "DATABASE_DRIVER=sqlite\nCATALOG_SNAPSHOT_TTL_SECONDS=0\nCATALOG_CHECK_THUMBNAILS=false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_DRIVER")
		os.Unsetenv("CATALOG_SNAPSHOT_TTL_SECONDS")
		os.Unsetenv("CATALOG_CHECK_THUMBNAILS")
	})

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Zero(t, cfg.Catalog.SnapshotTTL())
	assert.False(t, cfg.Catalog.CheckThumbnails)
}
