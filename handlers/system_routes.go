package handlers

import (
	"rugfork-backend/middleware"
	"rugfork-backend/services"

	"github.com/gofiber/fiber/v2"
)

// SetupSystemRoutes exposes the singleton config to operators. The pause flag
// here is the emergency brake every mutating operation checks.
func SetupSystemRoutes(app *fiber.App, system *services.SystemService) {
	admin := app.Group("/", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	admin.Get("/system/config", func(c *fiber.Ctx) error {
		cfg, err := system.GetConfig()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(cfg)
	})

	admin.Patch("/system/config", func(c *fiber.Ctx) error {
		var req services.SystemConfigUpdate
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		cfg, err := system.UpdateConfig(req)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(cfg)
	})
}
