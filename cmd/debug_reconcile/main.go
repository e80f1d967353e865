// Command debug_reconcile dry-runs a dataset against the configured database
// and dumps the full report as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"seed-catalog/core/config"
	"seed-catalog/core/database"
	"seed-catalog/core/reconcile"
	catalog "seed-catalog/feature/catalog/reconcile"
	"seed-catalog/feature/catalog/staging"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_reconcile <dataset.yaml|dataset.json>")
	}

	// Load config
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	// Connect to DB
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}

	ds, err := staging.LoadFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("=== Staged records ===")
	fmt.Printf("Indexes: %d, CommonNames: %d, BotanicalNames: %d, Series: %d, Cultivars: %d, Packets: %d\n",
		len(ds.Indexes), len(ds.CommonNames), len(ds.BotanicalNames), len(ds.Series), len(ds.Cultivars), len(ds.Packets))

	driver := catalog.NewDriver(db, zap.NewExample())
	report, err := driver.Run(context.Background(), ds, "debug", reconcile.Options{DryRun: true})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("=== Report ===")
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatal(err)
	}
}
