// handlers/progression_routes.go
package handlers

import (
	"strconv"

	"rugfork-backend/middleware"
	"rugfork-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(app *fiber.App, progression *services.ProgressionService) {
	// 🔓 Public leaderboard
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "25"))
		profiles, err := progression.Leaderboard(c.Query("by", "xp"), limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"leaderboard": profiles})
	})

	// 🔐 Secured routes — require user context
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/user/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		profile, err := progression.EnsureProfile(userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"id":            profile.ID,
			"user_id":       profile.UserID,
			"username":      profile.Username,
			"total_xp":      profile.TotalXP,
			"level":         profile.Level,
			"total_bets":    profile.TotalBets,
			"total_winnings": profile.TotalWinnings,
			"total_losses":  profile.TotalLosses,
			"rug_pass_level": profile.RugPassLevel,
			"achievements":  profile.AchievementIDs(),
			"last_activity": profile.LastActivityUnix,
		})
	})

	secured.Get("/user/rugpass", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		pass, err := progression.GetRugPass(userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(pass)
	})

	secured.Post("/user/achievements/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		id, err := strconv.ParseUint(c.Params("id"), 10, 8)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid achievement id"})
		}
		profile, err := progression.UnlockAchievement(userID, uint8(id))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"achievements": profile.AchievementIDs()})
	})

	// 🔒 Admin-only: XP grants and pass mints come from trusted flows.
	admin := secured.Group("/", middleware.RequireAdmin())

	admin.Post("/users/:user_id/xp", func(c *fiber.Ctx) error {
		var req struct {
			XP uint64 `json:"xp"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		profile, err := progression.GrantXP(c.Params("user_id"), req.XP)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(profile)
	})

	admin.Post("/users/:user_id/rugpass", func(c *fiber.Ctx) error {
		var req struct {
			Level uint8 `json:"level"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		pass, err := progression.MintRugPass(c.Params("user_id"), req.Level)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(pass)
	})
}
