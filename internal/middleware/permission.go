package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/poe-manager/backend/internal/rbac"
)

// RequirePermission gates a route on the role policy table. This is the only
// place roles are checked; the lifecycle engine behind it never re-derives
// permissions.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rbac.HasPermission(GetRole(c), permission) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "operación no permitida para su rol"})
		}
		return c.Next()
	}
}
