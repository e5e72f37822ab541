package middleware

import (
	"notesphere/session"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired rejects requests without a valid session cookie and wires
// the authenticated user into the request context.
func AuthRequired(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies("session_id")
		if sessionID != "" {
			sess, err := store.Get(sessionID)
			if err == nil && sess != nil {
				store.Touch(sessionID)
				c.Locals("userID", sess.UserID)
				c.Locals("username", sess.Username)
				c.Locals("session", sess)
				return c.Next()
			}
			c.ClearCookie("session_id")
		}

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}
}

func GetUserID(c *fiber.Ctx) int64 {
	userID, ok := c.Locals("userID").(int64)
	if !ok {
		return 0
	}
	return userID
}

func GetUsername(c *fiber.Ctx) string {
	username, ok := c.Locals("username").(string)
	if !ok {
		return ""
	}
	return username
}
