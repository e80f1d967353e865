// Package config provides configuration management for the seed catalog.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from `default` struct tags.
//
// # Configuration Structure
//
//   - Server: HTTP port and API key
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Catalog: storage prefixes, export snapshot TTL, thumbnail checks, auto-migration
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Catalog.ExportPrefix)
package config
