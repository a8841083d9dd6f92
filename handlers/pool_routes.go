package handlers

import (
	"path/filepath"
	"strconv"

	"rugfork-backend/middleware"
	"rugfork-backend/services"
	"rugfork-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupPoolRoutes(app *fiber.App, pools *services.PoolService, rugScores *services.RugScoreService, analytics *services.AnalyticsService) {
	// 🔓 Public read surface
	app.Get("/pools", func(c *fiber.Ctx) error {
		activeOnly := c.Query("status") == "active"
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		list, err := pools.ListPools(activeOnly, limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"pools": list})
	})

	app.Get("/pools/:id", func(c *fiber.Ctx) error {
		pool, err := pools.GetPool(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(pool)
	})

	app.Get("/pools/:id/rugscore", func(c *fiber.Ctx) error {
		report, err := rugScores.ScorePool(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(report)
	})

	app.Get("/pools/:id/analytics", func(c *fiber.Ctx) error {
		stats, err := analytics.GetPoolStats(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(stats)
	})

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/pools", func(c *fiber.Ctx) error {
		creator := c.Locals("user_id").(string)
		var req struct {
			TokenMint        string `json:"token_mint"`
			TokenName        string `json:"token_name"`
			TokenSupply      uint64 `json:"token_supply"`
			InitialLiquidity uint64 `json:"initial_liquidity"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		pool, err := pools.InitializePool(req.TokenMint, req.TokenName, req.TokenSupply, req.InitialLiquidity, creator)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(pool)
	})

	// Token launch takes a multipart form so the logo can ride along.
	secured.Post("/tokens/launch", func(c *fiber.Ctx) error {
		creator := c.Locals("user_id").(string)
		tokenMint := c.FormValue("token_mint")
		tokenName := c.FormValue("token_name")

		supply, err := strconv.ParseUint(c.FormValue("supply", "0"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "supply must be a non-negative integer"})
		}
		liquidity, err := strconv.ParseUint(c.FormValue("liquidity", "0"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "liquidity must be a non-negative integer"})
		}
		fee, err := strconv.ParseUint(c.FormValue("fee_percentage", "1"), 10, 8)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fee_percentage must be an integer"})
		}

		var logoURL string
		if logo, err := c.FormFile("logo"); err == nil && logo.Size > 0 {
			ext := filepath.Ext(logo.Filename)
			if ext == "" {
				ext = ".png"
			}
			key := "tokens/logos/" + uuid.NewString() + ext
			url, err := utils.UploadFileToR2(logo, key)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload logo"})
			}
			logoURL = url
		}

		pool, err := pools.LaunchToken(tokenMint, tokenName, supply, liquidity, uint8(fee), creator, logoURL)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(pool)
	})

	secured.Patch("/pools/:id/params", func(c *fiber.Ctx) error {
		caller := c.Locals("user_id").(string)
		var req struct {
			FeePercentage *uint8 `json:"fee_percentage"`
			IsActive      *bool  `json:"is_active"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		pool, err := pools.UpdatePoolParams(c.Params("id"), req.FeePercentage, req.IsActive, caller)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(pool)
	})

	// 🔒 Admin-only: the crash point comes from the trusted feed operator.
	admin := secured.Group("/", middleware.RequireAdmin())
	admin.Post("/pools/:id/crash", func(c *fiber.Ctx) error {
		var req struct {
			CrashPoint uint64 `json:"crash_point"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		pool, err := pools.CrashPool(c.Params("id"), req.CrashPoint)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(pool)
	})
}
