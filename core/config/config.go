package config

import (
	"reflect"
	"strings"
	"time"

	"seed-catalog/core/database"
	"seed-catalog/core/logger"
	"seed-catalog/core/server"
	"seed-catalog/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Catalog holds settings of the catalog feature.
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// CatalogConfig holds settings of the catalog feature.
type CatalogConfig struct {
	// ThumbnailPrefix is the storage prefix thumbnails live under.
	ThumbnailPrefix string `mapstructure:"thumbnail_prefix" default:"thumbnails"`
	// ExportPrefix is the storage prefix uploaded exports are written to.
	ExportPrefix string `mapstructure:"export_prefix" default:"exports"`
	// SnapshotTTLSeconds is how long an export snapshot is reused. 0 disables caching.
	SnapshotTTLSeconds int `mapstructure:"snapshot_ttl_seconds" default:"30"`
	// CheckThumbnails makes reconciliation warn about thumbnails missing from storage.
	CheckThumbnails bool `mapstructure:"check_thumbnails" default:"true"`
	// AutoMigrate creates or updates the catalog tables on startup.
	AutoMigrate bool `mapstructure:"auto_migrate" default:"true"`
}

// SnapshotTTL returns the export snapshot lifetime.
func (c CatalogConfig) SnapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTTLSeconds) * time.Second
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
