package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/gapscan/internal/logging"
	"github.com/soltixdb/gapscan/internal/models"
	"github.com/soltixdb/gapscan/internal/queue"
	"github.com/soltixdb/gapscan/internal/services"
)

// Version is reported by the health endpoint
var Version = "dev"

// Handler contains all HTTP handlers
type Handler struct {
	logger     *logging.Logger
	gapService *services.GapService
	publisher  queue.Publisher
	jobSubject string
	cacheType  string
}

// New creates a new handler instance. publisher may be nil, in which case
// job submission is unavailable.
func New(logger *logging.Logger, gapService *services.GapService, publisher queue.Publisher, jobSubject, cacheType string) *Handler {
	return &Handler{
		logger:     logger,
		gapService: gapService,
		publisher:  publisher,
		jobSubject: jobSubject,
		cacheType:  cacheType,
	}
}

// parseAnalysisRequest reads the table body and the window/mode overrides.
// Query parameters take precedence over body fields.
func parseAnalysisRequest(c *fiber.Ctx) (*services.AnalysisRequest, error) {
	var body models.TableRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, services.NewServiceErrorWithDetails(services.CodeInvalidTable,
			"Failed to parse table", map[string]interface{}{"error": err.Error()})
	}

	table, err := body.ToTable()
	if err != nil {
		return nil, services.NewServiceError(services.CodeInvalidTable, err.Error())
	}

	req := &services.AnalysisRequest{Table: table, Window: body.Window, Mode: body.Mode}

	if w := c.Query("window"); w != "" {
		window, err := strconv.Atoi(w)
		if err != nil {
			return nil, services.NewServiceError(services.CodeInvalidArgument, "window must be an integer")
		}
		req.Window = window
	}
	if mode := c.Query("mode"); mode != "" {
		req.Mode = mode
	}
	return req, nil
}
