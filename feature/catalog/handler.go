package catalog

import (
	"bytes"
	"errors"
	"strings"

	"seed-catalog/core/logger"
	"seed-catalog/core/reconcile"
	"seed-catalog/feature/catalog/models"
	"seed-catalog/feature/catalog/repository"
	"seed-catalog/feature/catalog/staging"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Post("/reconcile", h.HandleReconcile)
	group.Get("/export", h.HandleExport)
	group.Get("/cultivars/lookup", h.HandleLookupCultivar)
	group.Get("/runs/:id", h.HandleGetRun)
}

// HandleReconcile reconciles an uploaded dataset.
// @Summary Reconcile Dataset
// @Description Applies a staged dataset (JSON or YAML, chosen by Content-Type) to the catalog and returns the change report. With page_tree=true the body is a scraped page tree flattened into the given index.
// @Tags catalog
// @Accept json
// @Accept x-yaml
// @Produce json
// @Param dry_run query boolean false "Roll everything back after diffing"
// @Param page_tree query boolean false "Body is a scraped page tree"
// @Param index query string false "Index for page tree records"
// @Success 200 {object} reconcile.Report "Change Report"
// @Failure 400 {object} map[string]string "Malformed Dataset"
// @Failure 409 {object} map[string]string "Run In Progress"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	dryRun := c.QueryBool("dry_run", false)

	ds, err := h.decode(c)
	if err != nil {
		l.Warn("Rejected dataset upload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// The request itself confirms a write.
	opts := reconcile.Options{DryRun: dryRun, Confirmed: !dryRun}
	report, err := h.service.Reconcile(c.UserContext(), ds, "http:"+c.IP(), opts)
	if errors.Is(err, ErrRunInProgress) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Reconciliation failed", zap.Error(err))
		body := fiber.Map{"error": err.Error()}
		if report != nil {
			body["report"] = report
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
	return c.JSON(report)
}

func (h *Handler) decode(c *fiber.Ctx) (*staging.Dataset, error) {
	body := bytes.NewReader(c.Body())
	if c.QueryBool("page_tree", false) {
		tree, err := staging.DecodePageTree(body)
		if err != nil {
			return nil, err
		}
		return staging.FromPageTree(tree, c.Query("index"))
	}
	return staging.Decode(body, staging.FormatFromContentType(c.Get(fiber.HeaderContentType)))
}

// HandleExport returns the catalog as a dataset, or uploads it.
// @Summary Export Catalog
// @Description Exports the catalog as a staged dataset with lookup dicts. With upload=true the dataset is written to object storage and its key is returned.
// @Tags catalog
// @Produce json
// @Produce x-yaml
// @Param format query string false "json or yaml" Enums(json, yaml)
// @Param upload query boolean false "Upload to object storage"
// @Success 200 {object} staging.Dataset "Dataset"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/export [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	format := staging.FormatJSON
	if strings.EqualFold(c.Query("format"), string(staging.FormatYAML)) {
		format = staging.FormatYAML
	}

	if c.QueryBool("upload", false) {
		key, err := h.service.UploadExport(c.UserContext(), format)
		if err != nil {
			l.Error("Export upload failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "uploaded", "key": key})
	}

	ds, err := h.service.Export(c.UserContext())
	if err != nil {
		l.Error("Export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var buf bytes.Buffer
	if err := staging.Encode(&buf, ds, format); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if format == staging.FormatYAML {
		c.Set(fiber.HeaderContentType, "application/yaml")
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return c.Send(buf.Bytes())
}

// HandleLookupCultivar returns one cultivar by its natural key.
// @Summary Lookup Cultivar
// @Description Finds a cultivar by name, common name, index and optional series. Names are normalized before lookup.
// @Tags catalog
// @Produce json
// @Param name query string true "Cultivar name"
// @Param common_name query string true "Common name"
// @Param index query string true "Index"
// @Param series query string false "Series"
// @Success 200 {object} staging.CultivarRecord "Cultivar"
// @Failure 400 {object} map[string]string "Missing Parameters"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /catalog/cultivars/lookup [get]
func (h *Handler) HandleLookupCultivar(c *fiber.Ctx) error {
	lookup := models.CultivarLookup{
		Cultivar:   c.Query("name"),
		CommonName: c.Query("common_name"),
		Index:      c.Query("index"),
		Series:     c.Query("series"),
	}
	if lookup.IsZero() || lookup.CommonName == "" || lookup.Index == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, common_name and index are required"})
	}

	rec, err := h.service.LookupCultivar(c.UserContext(), lookup)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Cultivar lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rec)
}

// HandleGetRun returns a stored reconciliation run.
// @Summary Get Reconcile Run
// @Description Returns the summary, events and rejections of a committed run.
// @Tags catalog
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.ReconcileRun "Run"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /catalog/runs/{id} [get]
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	run, err := h.service.GetRun(c.UserContext(), c.Params("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(run)
}
