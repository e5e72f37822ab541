package handlers

import (
	"notesphere/app"
	"notesphere/middleware"
	"notesphere/models"

	"github.com/gofiber/fiber/v2"
)

func GetProfile(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := a.Profile.Get(middleware.GetUserID(c))
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "", fiber.Map{"profile": profile})
	}
}

// UpdateProfile accepts multipart or JSON bodies; the optional avatar field
// replaces the stored profile image.
func UpdateProfile(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return respondError(c, err)
		}

		avatar, err := c.FormFile("avatar")
		if err != nil {
			avatar = nil
		}

		profile, err := a.Profile.Update(middleware.GetUserID(c), req, avatar)
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "Profile updated successfully", fiber.Map{"profile": profile})
	}
}

// ChangePassword requires the current password before accepting a new one.
// All of the user's sessions except the current one are dropped afterwards.
func ChangePassword(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ChangePasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return respondError(c, err)
		}

		userID := middleware.GetUserID(c)
		if err := a.Profile.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
			return respondError(c, err)
		}

		a.Sessions.DeleteByUserID(userID)
		if sess, ok := c.Locals("session").(*models.Session); ok {
			// Re-issue the current session so the caller stays signed in
			if user, err := a.Auth.Login(sess.Username, req.NewPassword); err == nil {
				if fresh, err := a.Sessions.Create(user); err == nil {
					c.Cookie(sessionCookie(fresh))
				}
			}
		}

		return success(c, "Password changed successfully", nil)
	}
}

// CompleteProfile stores the first-login bio/phone/address fields.
func CompleteProfile(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CompleteProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return respondError(c, err)
		}

		avatar, err := c.FormFile("avatar")
		if err != nil {
			avatar = nil
		}

		if err := a.Profile.Complete(middleware.GetUserID(c), req, avatar); err != nil {
			return respondError(c, err)
		}

		return success(c, "Profile completed", nil)
	}
}

// ProfileCompleteness tells the front end whether to redirect into the
// completion flow.
func ProfileCompleteness(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		complete, err := a.Profile.IsComplete(middleware.GetUserID(c))
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "", fiber.Map{"complete": complete})
	}
}
