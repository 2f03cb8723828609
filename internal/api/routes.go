package api

import (
	"github.com/bilgisen/newscast/internal/config"
	"github.com/bilgisen/newscast/internal/middleware"
	"github.com/bilgisen/newscast/internal/pipeline"
	"github.com/bilgisen/newscast/internal/storage"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all the routes for the admin API.
func SetupRoutes(app *fiber.App, cfg *config.Config, pipe *pipeline.Pipeline, store *storage.Storage) {
	handlers := NewHandlers(cfg, pipe, store)

	api := app.Group("/api/v1")

	api.Get("/health", handlers.HealthCheck)

	runs := api.Group("/runs")
	{
		runs.Get("", handlers.ListRuns)
		runs.Get("/:id", handlers.GetRunByID)
	}

	admin := api.Group("/admin", middleware.AdminOnly(cfg.AdminAPIKey))
	{
		admin.Post("/run", handlers.TriggerRun)
	}

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
