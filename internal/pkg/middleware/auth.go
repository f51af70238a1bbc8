package middleware

import (
	"github.com/gofiber/fiber/v2"

	icuser "github.com/StreamNestTV/StreamNest/internal/pkg/usercontext"
)

// RequireAdmin ensures the authenticated user holds the admin role; returns
// JSON 403 otherwise. Must run behind APIKeyAuthMiddleware.
func RequireAdmin(c *fiber.Ctx) error {
	if !icuser.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "authentication required",
		})
	}
	if !icuser.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "admin role required",
		})
	}
	return c.Next()
}
