package handlers

import (
	"strconv"

	"rugfork-backend/middleware"
	"rugfork-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTournamentRoutes(app *fiber.App, tournaments *services.TournamentService) {
	// 🔓 Public read surface
	app.Get("/tournaments", func(c *fiber.Ctx) error {
		activeOnly := c.Query("status") == "active"
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		list, err := tournaments.ListTournaments(activeOnly, limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"tournaments": list})
	})

	app.Get("/tournaments/:id", func(c *fiber.Ctx) error {
		tournament, err := tournaments.GetTournament(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(tournament)
	})

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/tournaments", func(c *fiber.Ctx) error {
		creator := c.Locals("user_id").(string)
		var req struct {
			PrizePool uint64 `json:"prize_pool"`
			Duration  int64  `json:"duration"` // seconds
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		tournament, err := tournaments.CreateTournament(creator, req.PrizePool, req.Duration)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(tournament)
	})

	secured.Post("/tournaments/:id/join", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		tournament, err := tournaments.JoinTournament(c.Params("id"), userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(tournament)
	})

	// 🔒 Admin-only: manual distribution (the scheduler also sweeps ended
	// tournaments automatically).
	admin := secured.Group("/", middleware.RequireAdmin())
	admin.Post("/tournaments/:id/distribute", func(c *fiber.Ctx) error {
		winners, err := tournaments.DistributePrizes(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"winners": winners})
	})
}
