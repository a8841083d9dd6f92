package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts user identity and roles forwarded by the
// Gateway. Handlers read user_id for wagering calls and is_admin for the
// admin-gated operations (crash, settle, pause, XP grants).
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		rolesStr := c.Get("X-User-Roles")

		if userID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		isAdmin := false
		var roles []string
		for _, r := range strings.Split(rolesStr, ",") {
			r = strings.TrimSpace(r)
			if r == "" {
				continue
			}
			roles = append(roles, r)
			if r == "admin" {
				isAdmin = true
			}
		}

		c.Locals("user_id", userID)
		c.Locals("user_roles", roles)
		c.Locals("is_admin", isAdmin)

		return c.Next()
	}
}

// RequireAdmin guards routes behind the admin role. Must run after
// UserContextMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, ok := c.Locals("is_admin").(bool); !ok || !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin role required",
			})
		}
		return c.Next()
	}
}

// SSEAuthMiddleware authenticates EventSource clients, which cannot set
// headers: the gateway token travels as a query param instead.
func SSEAuthMiddleware(expectedToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Query("token"))
		if token == "" || token != expectedToken {
			log.Printf("[SSEAuth] ❌ Missing or invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		userID := strings.TrimSpace(c.Query("user_id"))
		if userID != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}
}
