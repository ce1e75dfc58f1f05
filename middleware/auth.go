package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"storefront/model"
	"storefront/session"
)

const SessionCookie = "session_id"

// AuthRequired resolves the session cookie to a user row and attaches it to
// the request. Handlers read the user via CurrentUser and never mutate it.
func AuthRequired(sessions *session.Store, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(SessionCookie)
		if sid == "" {
			return c.Status(401).JSON(fiber.Map{"error": "not logged in"})
		}

		userID, err := sessions.Get(c.Context(), sid)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid session"})
		}

		var user model.User
		if err := db.First(&user, userID).Error; err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid session"})
		}

		c.Locals("user", user)
		return c.Next()
	}
}

func CurrentUser(c *fiber.Ctx) model.User {
	return c.Locals("user").(model.User)
}
