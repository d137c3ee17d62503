package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/soltixdb/gapscan/internal/logging"
	"github.com/soltixdb/gapscan/internal/models"
	"github.com/soltixdb/gapscan/internal/utils"
)

// SubmitJob validates a table and enqueues it for a worker
// POST /v1/jobs
func (h *Handler) SubmitJob(c *fiber.Ctx) error {
	if h.publisher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "QUEUE_DISABLED",
				Message: "Job submission requires queue.enabled",
				Path:    c.Path(),
			},
		})
	}

	req, err := parseAnalysisRequest(c)
	if err != nil {
		return err
	}
	if _, err := h.gapService.Resolve(req); err != nil {
		return err
	}

	job := models.Job{
		ID:          uuid.New().String(),
		Table:       req.Table,
		Window:      req.Window,
		Mode:        req.Mode,
		SubmittedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), utils.PublishTimeout)
	defer cancel()

	if err := h.publisher.Publish(ctx, h.jobSubject, data); err != nil {
		logging.Ctx(c.UserContext()).Error("Failed to enqueue job", "job_id", job.ID, "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "QUEUE_UNAVAILABLE",
				Message: "Failed to enqueue job",
				Path:    c.Path(),
			},
		})
	}

	logging.Ctx(c.UserContext()).Info("Job enqueued",
		"job_id", job.ID,
		"rows", req.Table.Len(),
		"columns", req.Table.Width())

	return c.Status(fiber.StatusAccepted).JSON(models.JobAccepted{
		JobID:   job.ID,
		Subject: h.jobSubject,
	})
}
