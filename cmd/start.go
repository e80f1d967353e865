package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"seed-catalog/core/config"
	"seed-catalog/core/loader"
	"seed-catalog/core/logger"
	"seed-catalog/core/metrics"
	"seed-catalog/core/middleware/auth"
	"seed-catalog/core/middleware/rayid"

	"seed-catalog/feature/catalog"
	"seed-catalog/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "seed-catalog/docs/swagger"
)

// @title Seed Catalog API
// @version 1.0
// @description API for reconciling and exporting the seed catalog.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the seed catalog server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Optional; the catalog feature needs it)
		var db *gorm.DB
		if conn, err := connectCatalog(cfg, logg); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to catalog database", zap.String("driver", cfg.Database.Driver))
		}

		// 4. Initialize Storage
		store := optionalStorage(cfg, logg)

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		// 6. Initialize Feature Loader
		mtx := metrics.New()
		mgr := loader.NewManager(logg)

		var catalogSvc *catalog.Service
		if db != nil {
			catalogSvc = newCatalogService(cfg, db, store, logg, mtx)
		}
		mgr.Register(catalog.NewFeature(catalogSvc))
		if store != nil {
			mgr.Register(integrity.NewFeature(store, cfg.Storage.Bucket, logg, db, cfg.Catalog.ThumbnailPrefix))
		}

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", mtx.Handler())

		// 4. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
