package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"seed-catalog/core/config"
	"seed-catalog/core/logger"
	"seed-catalog/core/reconcile"
	"seed-catalog/feature/catalog/staging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for reconcile catalog command
	datasetFile   string
	pageTreeFlag  bool
	pageTreeIndex string
	dryRunCatalog bool
	yesConfirm    bool
	reportFormat  string
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile staged datasets into the catalog",
	Long: `Reconcile a staged dataset against the catalog database.
Every record is created, updated or left unchanged, and a change report is printed.`,
}

// catalogReconcileCmd reconciles one dataset file.
var catalogReconcileCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Reconcile a catalog dataset (YAML or JSON)",
	Long: `Reconcile a catalog dataset into the database.

Records are applied in dependency order: indexes, common names, botanical
names, series, cultivars, packets. A malformed record is rejected on its own;
the rest of the dataset is still applied.

Examples:
  # Preview the changes (nothing is written)
  reconcile catalog --file catalog.yaml --dry-run

  # Apply with interactive confirmation
  reconcile catalog --file catalog.yaml

  # Apply a scraped page tree into the Perennial index
  reconcile catalog --file foxglove.json --page-tree --index Perennial --yes`,
	RunE: runCatalogReconcile,
}

func init() {
	reconcileCmd.AddCommand(catalogReconcileCmd)

	catalogReconcileCmd.Flags().StringVarP(&datasetFile, "file", "f", "", "Dataset file (.yaml, .yml or .json)")
	catalogReconcileCmd.Flags().BoolVar(&pageTreeFlag, "page-tree", false, "The file is a scraped page tree")
	catalogReconcileCmd.Flags().StringVar(&pageTreeIndex, "index", "", "Index for page tree records")
	catalogReconcileCmd.Flags().BoolVar(&dryRunCatalog, "dry-run", false, "Roll everything back after diffing")
	catalogReconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm writes (non-interactive)")
	catalogReconcileCmd.Flags().StringVar(&reportFormat, "format", "", "Report format: text, table, json, yaml (default: table for terminals, json otherwise)")
	_ = catalogReconcileCmd.MarkFlagRequired("file")

	RootCmd.AddCommand(reconcileCmd)
}

func runCatalogReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := reconcile.ParseFormat(reportFormat)
	if err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ds, err := loadDataset(datasetFile, pageTreeFlag, pageTreeIndex)
	if err != nil {
		return err
	}
	l.Info("Loaded dataset", zap.String("file", datasetFile), zap.Int("records", ds.Len()))

	db, err := connectCatalog(cfg, l)
	if err != nil {
		return err
	}
	svc := newCatalogService(cfg, db, optionalStorage(cfg, l), l, nil)

	opts := reconcile.Options{DryRun: dryRunCatalog}
	if !dryRunCatalog {
		if !confirmWrite() {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
		opts.Confirmed = true
	}

	report, err := svc.Reconcile(ctx, ds, datasetFile, opts)
	if report != nil {
		if werr := reconcile.Write(os.Stdout, report, reconcile.DetectFormat(format)); werr != nil {
			l.Error("Failed to write report", zap.Error(werr))
		}
	}
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	if report.DryRun {
		l.Info("Dry-run mode: No changes were made.")
	}
	return nil
}

// loadDataset reads a dataset file, or flattens a page tree file.
func loadDataset(path string, pageTree bool, index string) (*staging.Dataset, error) {
	if !pageTree {
		return staging.LoadFile(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open page tree: %w", err)
	}
	defer f.Close()

	tree, err := staging.DecodePageTree(f)
	if err != nil {
		return nil, err
	}
	return staging.FromPageTree(tree, index)
}

// confirmWrite prompts the user for confirmation or uses --yes flag.
func confirmWrite() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to write the changes to the catalog: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
