package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"school-analytics-dashboard/utils"
)

// OpsRequired melindungi route operasional dengan basic auth, password dicek ke hash bcrypt
func OpsRequired(user, passwordHash string) fiber.Handler {
	return basicauth.New(basicauth.Config{
		Realm: "dashboard-ops",
		Authorizer: func(u, p string) bool {
			return u == user && utils.CheckPasswordHash(p, passwordHash)
		},
		Unauthorized: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="dashboard-ops"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		},
	})
}
