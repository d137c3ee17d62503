package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/soltixdb/gapscan/internal/config"
	"github.com/soltixdb/gapscan/internal/handlers"
	"github.com/soltixdb/gapscan/internal/logging"
	"github.com/soltixdb/gapscan/internal/middleware"
	"github.com/soltixdb/gapscan/internal/queue"
	"github.com/soltixdb/gapscan/internal/services"
	"github.com/soltixdb/gapscan/internal/utils"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, gapService *services.GapService, publisher queue.Publisher, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, gapService, publisher, cfg.Queue.JobSubject, cfg.Cache.Type)

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger, "/health"))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	v1 := app.Group("/v1", middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled))

	// Gap analysis
	v1.Post("/gaps/report", h.Report)
	v1.Post("/gaps/:operation", h.Operation)

	// Asynchronous analysis
	v1.Post("/jobs", h.SubmitJob)

	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, gapService *services.GapService, publisher queue.Publisher, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "gapscan",
		DisableStartupMessage: true,
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           utils.DefaultRequestTimeout,
		WriteTimeout:          utils.DefaultRequestTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, gapService, publisher, cfg)

	return app
}
