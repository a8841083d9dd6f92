package handlers

import (
	"strconv"

	"rugfork-backend/middleware"
	"rugfork-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupWagerRoutes(app *fiber.App, wagers *services.WagerService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/pools/:id/bets", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			Amount     uint64 `json:"amount"`
			Multiplier uint64 `json:"multiplier"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		bet, err := wagers.PlaceSidebet(c.Params("id"), userID, req.Amount, req.Multiplier)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(bet)
	})

	secured.Get("/user/bets", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		bets, total, err := wagers.ListUserBets(userID, c.Query("pool_id"), c.Query("status"), page, limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"bets": bets,
			"pagination": fiber.Map{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	})

	// 🔒 Admin-only: settlement is driven by the revealed crash point.
	admin := secured.Group("/", middleware.RequireAdmin())
	admin.Post("/bets/:id/settle", func(c *fiber.Ctx) error {
		var req struct {
			CrashPoint uint64 `json:"crash_point"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		bet, err := wagers.SettleSidebet(c.Params("id"), req.CrashPoint)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(bet)
	})
}
