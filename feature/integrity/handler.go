package integrity

import (
	"seed-catalog/core/logger"
	"seed-catalog/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.SchemaReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/thumbnails", h.HandleThumbnailCheck)
	group.Get("/quantities", h.HandleQuantityCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Structure, Schema, Thumbnails, Quantities). Nothing is fixed.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.UserContext()
	report := make(map[string]interface{})

	// Structure
	if missing, err := h.service.CheckStructure(ctx); err != nil {
		report["structure"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = map[string]interface{}{"status": "ok", "missing": missing}
	}

	// Schema
	if schemaReport, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schemaReport
	}

	// Thumbnails
	if thumbReport, err := h.service.CheckThumbnails(ctx); err != nil {
		report["thumbnails"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["thumbnails"] = thumbReport
	}

	// Quantities
	if orphans, err := h.service.CheckQuantities(ctx); err != nil {
		report["quantities"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["quantities"] = map[string]interface{}{"status": "ok", "orphaned": orphans}
	}

	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes structure.
// @Summary Check Structure
// @Description Checks if the required folder structure exists in the storage bucket. Optionally fixes missing folders.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Fix missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.QueryBool("fix", false)

	missing, err := h.service.CheckStructure(c.UserContext())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing folders")
			if err := h.service.FixStructure(c.UserContext(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleSchemaCheck checks the catalog schema.
// @Summary Check Schema
// @Description Checks if the connected database schema matches the catalog models.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Check Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting schema check")

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandleThumbnailCheck compares catalog images with storage.
// @Summary Check Thumbnails
// @Description Lists catalog images missing from storage and stored thumbnails no catalog entry uses.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.ThumbnailReport "Thumbnail Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/thumbnails [get]
func (h *Handler) HandleThumbnailCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckThumbnails(c.UserContext())
	if err != nil {
		l.Error("Thumbnail check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Thumbnail check completed",
		zap.Int("referenced", report.Referenced),
		zap.Int("missing", len(report.Missing)))

	return c.JSON(report)
}

// HandleQuantityCheck checks and optionally removes orphaned quantities.
// @Summary Check Quantities
// @Description Lists packet quantities no packet uses. Optionally deletes them.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Delete orphaned quantities"
// @Success 200 {object} map[string]interface{} "Quantity Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/quantities [get]
func (h *Handler) HandleQuantityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if c.QueryBool("fix", false) {
		removed, err := h.service.FixQuantities(c.UserContext())
		if err != nil {
			l.Error("Quantity fix failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to remove orphaned quantities",
				"details": err.Error(),
				"fixed":   removed,
			})
		}
		return c.JSON(fiber.Map{
			"status": "fixed",
			"fixed":  removed,
		})
	}

	orphans, err := h.service.CheckQuantities(c.UserContext())
	if err != nil {
		l.Error("Quantity check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"status":   "checked",
		"orphaned": orphans,
	})
}
