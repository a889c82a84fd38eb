package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"school-analytics-dashboard/utils"
)

// AuthRequired mengambil Bearer token dan menyimpannya di c.Locals("token").
// Kalau secret diisi, tanda tangan token juga diverifikasi; kalau kosong token diteruskan
// apa adanya ke backend dan backend yang memutuskan.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !found || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}

		// tanpa secret, claim tidak bisa dipercaya: identitas = hash token utuh
		identity := utils.CredentialIdentity(token)
		if secret != "" {
			claims, err := utils.ValidateToken(token, secret)
			if err != nil {
				logrus.WithError(err).Debug("rejected bearer token")
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
			}
			c.Locals("role_name", claims.Role)
			if sub := utils.SubjectIdentity(claims); sub != "" {
				identity = sub
			}
		}

		c.Locals("token", token)
		c.Locals("identity", identity)
		return c.Next()
	}
}
