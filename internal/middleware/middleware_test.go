package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/gapscan/internal/logging"
	"github.com/soltixdb/gapscan/internal/models"
	"github.com/soltixdb/gapscan/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validKey = strings.Repeat("k", MinAPIKeyLength)

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected bool
	}{
		{"exactly min length", validKey, true},
		{"longer", validKey + "extra", true},
		{"too short", validKey[1:], false},
		{"empty", "", false},
		{"only spaces", strings.Repeat(" ", MinAPIKeyLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateAPIKey(tt.key))
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	app := fiber.New()
	app.Use(APIKeyAuth(logging.Nop(), []string{validKey, "short"}, true))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	tests := []struct {
		name   string
		header string
		value  string
		status int
	}{
		{"x-api-key", "X-API-Key", validKey, fiber.StatusOK},
		{"bearer", "Authorization", "Bearer " + validKey, fiber.StatusOK},
		{"plain authorization", "Authorization", validKey, fiber.StatusOK},
		{"missing", "", "", fiber.StatusUnauthorized},
		{"wrong key", "X-API-Key", strings.Repeat("x", MinAPIKeyLength), fiber.StatusUnauthorized},
		{"key too short to be accepted", "X-API-Key", "short", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	app := fiber.New()
	app.Use(APIKeyAuth(logging.Nop(), nil, false))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logging.Nop())})
	app.Get("/service", func(c *fiber.Ctx) error {
		return services.NewServiceErrorWithDetails(services.CodeInvalidArgument, "window must be at least 1",
			map[string]interface{}{"window": 0})
	})
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrUnprocessableEntity })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("boom") })

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/service", fiber.StatusBadRequest, services.CodeInvalidArgument},
		{"/fiber", fiber.StatusUnprocessableEntity, "ERROR"},
		{"/plain", fiber.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			var out models.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Equal(t, tt.code, out.Error.Code)
			assert.Equal(t, tt.path, out.Error.Path)
		})
	}
}

func TestStatusForCode(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, StatusForCode(services.CodeInvalidTable))
	assert.Equal(t, fiber.StatusNotFound, StatusForCode(services.CodeUnknownOp))
	assert.Equal(t, fiber.StatusRequestTimeout, StatusForCode(services.CodeCanceled))
	assert.Equal(t, fiber.StatusInternalServerError, StatusForCode(services.CodeAnalysisFailed))
}
