package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Report handles full report requests
// POST /v1/gaps/report
func (h *Handler) Report(c *fiber.Ctx) error {
	req, err := parseAnalysisRequest(c)
	if err != nil {
		return err
	}

	result, err := h.gapService.Execute(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Operation handles single-statistic requests: runs, missing, windows,
// validity, repeats and rolling.
// POST /v1/gaps/:operation
func (h *Handler) Operation(c *fiber.Ctx) error {
	req, err := parseAnalysisRequest(c)
	if err != nil {
		return err
	}

	resp, err := h.gapService.Compute(c.UserContext(), c.Params("operation"), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
