package reports

import (
	"errors"
	"io/fs"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the report viewer.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the report viewer routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/runs")
	group.Get("/", h.HandleListRuns)
	group.Get("/:file", h.HandleGetRun)
}

// HandleListRuns lists every persisted run, newest first.
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	runs, err := h.service.ListRuns()
	if err != nil {
		h.service.logger.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if runs == nil {
		runs = []RunSummary{}
	}
	return c.JSON(fiber.Map{
		"count": len(runs),
		"runs":  runs,
	})
}

// HandleGetRun returns one full run report.
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	file := c.Params("file")

	r, err := h.service.GetRun(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "report not found"})
		}
		h.service.logger.Warn("Failed to load run", zap.String("file", file), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(r)
}
