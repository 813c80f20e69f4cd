package report

import (
	"github.com/devopstales/netbox-registrator/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the run history.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the report routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/runs")
	group.Get("/", h.HandleListRuns)
	group.Get("/:id", h.HandleGetRun)

	app.Get("/devices/:device/snapshots", h.HandleListSnapshots)
}

// HandleListRuns returns the most recent runs, newest first.
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	limit := c.QueryInt("limit", 20)
	runs, err := h.service.Runs(c.Context(), limit)
	if err != nil {
		l.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"count": len(runs),
		"runs":  runs,
	})
}

// HandleGetRun returns one run with its full action trail.
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	run, err := h.service.Run(c.Context(), c.Params("id"))
	if err != nil {
		l.Error("Failed to load run", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if run == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "run not found"})
	}

	return c.JSON(run)
}

// HandleListSnapshots lists the archived snapshots of a device.
func (h *Handler) HandleListSnapshots(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if !h.service.HasArchive() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "snapshot archive is disabled"})
	}

	device := c.Params("device")
	entries, err := h.service.Snapshots(c.Context(), device)
	if err != nil {
		l.Error("Failed to list snapshots", zap.String("device", device), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"count":     len(entries),
		"snapshots": entries,
	})
}
