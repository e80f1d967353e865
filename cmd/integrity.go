package cmd

import (
	"context"
	"fmt"
	"os"

	"seed-catalog/core/config"
	"seed-catalog/core/database"
	"seed-catalog/core/logger"
	"seed-catalog/core/storage"
	"seed-catalog/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixFlag bool

// Integrity check selection
const (
	checkStructure  = "structure"
	checkSchema     = "schema"
	checkThumbnails = "thumbnails"
	checkQuantities = "quantities"
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the catalog storage and database",
	Long:  `Checks the storage folder structure, the catalog schema, stored thumbnails and unused packet quantities.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			cmd.Help()
			return
		}
		runIntegrityChecks(cmd.Context(), "")
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix folder structure",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), checkStructure)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the catalog database schema",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), checkSchema)
	},
}

// thumbnailsCmd represents the integrity thumbnails command
var thumbnailsCmd = &cobra.Command{
	Use:   "thumbnails",
	Short: "Compare catalog images with stored thumbnails",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), checkThumbnails)
	},
}

// quantitiesCmd represents the integrity quantities command
var quantitiesCmd = &cobra.Command{
	Use:   "quantities",
	Short: "Check and remove unused packet quantities",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), checkQuantities)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, schemaCmd, thumbnailsCmd, quantitiesCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Fix missing folders")
	quantitiesCmd.Flags().BoolVar(&fixFlag, "fix", false, "Delete unused quantities")
}

func runIntegrityChecks(ctx context.Context, only string) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Create Storage Client
	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		logg.Fatal("Failed to create storage client", zap.Error(err))
	}

	// Connect to Database (Optional)
	var db *gorm.DB
	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		db = conn
	}

	svc := integrity.NewService(store, cfg.Storage.Bucket, logg, db, cfg.Catalog.ThumbnailPrefix)
	run := func(name string) bool { return only == "" || only == name }

	if run(checkStructure) {
		logg.Info("Checking folder structure...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			logg.Fatal("Structure check failed", zap.Error(err))
		}

		if len(missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))

			if only == checkStructure && fixFlag {
				logg.Info("Fixing missing folders...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					logg.Fatal("Failed to fix structure", zap.Error(err))
				}
				logg.Info("Structure fixed successfully.")
			} else if only == checkStructure {
				logg.Info("Run with --fix to create missing folders.")
			}
		}
	}

	if db == nil {
		if only != "" && only != checkStructure {
			logg.Fatal("The database is required for this check")
		}
		return
	}

	if run(checkSchema) {
		logg.Info("Checking catalog schema...", zap.String("driver", cfg.Database.Driver))
		report, err := svc.CheckSchema()
		if err != nil {
			logg.Error("Schema check failed", zap.Error(err))
		} else if report.Matched {
			logg.Info("Schema matches the catalog models.")
		} else {
			logg.Warn("Schema mismatches found", zap.String("driver", report.Driver))
			for table, tblReport := range report.Tables {
				if tblReport.Status == "ok" {
					continue
				}
				if len(tblReport.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
				}
				if len(tblReport.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	if run(checkThumbnails) {
		logg.Info("Checking thumbnails...")
		report, err := svc.CheckThumbnails(ctx)
		if err != nil {
			logg.Error("Thumbnail check failed", zap.Error(err))
		} else {
			logg.Info("Thumbnail check completed",
				zap.Int("referenced", report.Referenced),
				zap.Int("stored", report.Stored))
			if len(report.Missing) > 0 {
				logg.Warn("Thumbnails missing from storage", zap.Strings("missing", report.Missing))
			}
			if len(report.Unused) > 0 {
				logg.Warn("Stored thumbnails not used by the catalog", zap.Strings("unused", report.Unused))
			}
		}
	}

	if run(checkQuantities) {
		logg.Info("Checking packet quantities...")
		if only == checkQuantities && fixFlag {
			removed, err := svc.FixQuantities(ctx)
			if err != nil {
				logg.Fatal("Failed to remove unused quantities", zap.Error(err))
			}
			logg.Info("Removed unused quantities", zap.Strings("removed", removed))
			return
		}
		orphans, err := svc.CheckQuantities(ctx)
		if err != nil {
			logg.Error("Quantity check failed", zap.Error(err))
		} else if len(orphans) == 0 {
			logg.Info("Every quantity is used by a packet.")
		} else {
			logg.Warn("Unused quantities detected", zap.Strings("orphaned", orphans))
			if only == checkQuantities {
				logg.Info("Run with --fix to delete them.")
			}
		}
	}
}
