package handlers

import (
	"notesphere/app"
	"notesphere/middleware"
	"notesphere/models"

	"github.com/gofiber/fiber/v2"
)

func sessionCookie(sess *models.Session) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     "session_id",
		Value:    sess.ID,
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	}
}

// Register creates an account and signs the new user in.
func Register(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return respondError(c, err)
		}

		user, err := a.Auth.Register(req)
		if err != nil {
			return respondError(c, err)
		}

		sess, err := a.Sessions.Create(user)
		if err != nil {
			return respondError(c, err)
		}
		c.Cookie(sessionCookie(sess))

		return created(c, "Account created successfully", fiber.Map{
			"user": user,
		})
	}
}

// Login accepts an email or username plus password.
func Login(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return respondError(c, err)
		}

		user, err := a.Auth.Login(req.Login, req.Password)
		if err != nil {
			return respondError(c, err)
		}

		sess, err := a.Sessions.Create(user)
		if err != nil {
			return respondError(c, err)
		}
		c.Cookie(sessionCookie(sess))

		// Incomplete profiles get routed into the completion flow
		complete, err := a.Profile.IsComplete(user.ID)
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "Logged in successfully", fiber.Map{
			"user":             user,
			"profile_complete": complete,
		})
	}
}

func Logout(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessionID := c.Cookies("session_id"); sessionID != "" {
			a.Sessions.Delete(sessionID)
		}
		c.ClearCookie("session_id")

		return success(c, "Logged out", nil)
	}
}

// Me returns the authenticated user's profile.
func Me(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := a.Profile.Get(middleware.GetUserID(c))
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "", fiber.Map{"user": profile})
	}
}
