package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"seed-catalog/core/config"
	"seed-catalog/core/logger"
	"seed-catalog/feature/catalog/models"
	"seed-catalog/feature/catalog/repository"
	"seed-catalog/feature/catalog/staging"

	"github.com/spf13/cobra"
)

var cultivarLookup models.CultivarLookup

// lookupCmd is the parent command for lookups.
var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look up catalog entries",
}

// cultivarLookupCmd prints one cultivar as a staged record.
var cultivarLookupCmd = &cobra.Command{
	Use:   "cultivar",
	Short: "Print one cultivar as JSON",
	Long: `Look up a cultivar by its natural key. Names are normalized, so
"pink" finds "Pink".

Example:
  lookup cultivar --name Pink --common-name Foxglove --index Perennial --series Polkadot`,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		svc := newCatalogService(cfg, db, nil, l, nil)

		rec, err := svc.LookupCultivar(context.Background(), cultivarLookup)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("cultivar %q not found", cultivarLookup.String())
		}
		if err != nil {
			return err
		}
		return staging.Encode(os.Stdout, &staging.Dataset{Cultivars: []staging.CultivarRecord{*rec}}, staging.FormatJSON)
	},
}

func init() {
	lookupCmd.AddCommand(cultivarLookupCmd)

	flags := cultivarLookupCmd.Flags()
	flags.StringVar(&cultivarLookup.Cultivar, "name", "", "Cultivar name")
	flags.StringVar(&cultivarLookup.CommonName, "common-name", "", "Common name")
	flags.StringVar(&cultivarLookup.Index, "index", "", "Index")
	flags.StringVar(&cultivarLookup.Series, "series", "", "Series")
	_ = cultivarLookupCmd.MarkFlagRequired("name")
	_ = cultivarLookupCmd.MarkFlagRequired("common-name")
	_ = cultivarLookupCmd.MarkFlagRequired("index")

	RootCmd.AddCommand(lookupCmd)
}
