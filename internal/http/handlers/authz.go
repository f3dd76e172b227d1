package handlers

import (
	applog "cozyoven/internal/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const AdminTokenHeader = "X-Admin-Token"

// RequireAdmin admits requests whose X-Admin-Token matches the configured bcrypt hash.
// With no hash configured the back office is closed.
func RequireAdmin(tokenHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := c.Get(AdminTokenHeader)
		if tokenHash == "" || tok == "" ||
			bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(tok)) != nil {
			applog.Security(c, "access.denied.admin", map[string]any{"token_present": tok != ""})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
		}
		c.Locals("admin", true)
		return c.Next()
	}
}
