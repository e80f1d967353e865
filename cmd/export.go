package cmd

import (
	"context"
	"fmt"
	"os"

	"seed-catalog/core/config"
	"seed-catalog/core/logger"
	"seed-catalog/feature/catalog/staging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportOut    string
	exportUpload bool
)

// exportCmd is the parent command for export operations.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export catalog data",
}

// catalogExportCmd writes the catalog as a dataset.
var catalogExportCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Export the catalog as a dataset",
	Long: `Export the catalog as a dataset that reconciles back unchanged.

Examples:
  # Print YAML to stdout
  export catalog

  # Write JSON to a file
  export catalog --out catalog.json

  # Upload to object storage under the export prefix
  export catalog --upload`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		db, err := connectCatalog(cfg, l)
		if err != nil {
			return err
		}
		client := optionalStorage(cfg, l)
		svc := newCatalogService(cfg, db, client, l, nil)

		format := staging.FormatYAML
		if exportOut != "" {
			format = staging.FormatFromPath(exportOut)
		}

		if exportUpload {
			key, err := svc.UploadExport(ctx, format)
			if err != nil {
				return fmt.Errorf("failed to upload export: %w", err)
			}
			l.Info("Export uploaded", zap.String("bucket", cfg.Storage.Bucket), zap.String("key", key))
			return nil
		}

		ds, err := svc.Export(ctx)
		if err != nil {
			return fmt.Errorf("failed to export catalog: %w", err)
		}

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOut, err)
			}
			defer f.Close()
			out = f
		}
		if err := staging.Encode(out, ds, format); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		if exportOut != "" {
			l.Info("Export written", zap.String("file", exportOut), zap.Int("records", ds.Len()))
		}
		return nil
	},
}

func init() {
	exportCmd.AddCommand(catalogExportCmd)
	catalogExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (.yaml or .json); stdout when empty")
	catalogExportCmd.Flags().BoolVar(&exportUpload, "upload", false, "Upload to object storage instead of writing locally")
	RootCmd.AddCommand(exportCmd)
}
