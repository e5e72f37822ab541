package handlers

import (
	"notesphere/app"
	"notesphere/middleware"
	"notesphere/storage"

	"github.com/gofiber/fiber/v2"
)

// DownloadFile serves a stored upload. Attachment paths must be registered
// against a note owned by the caller, avatar paths must be the caller's own
// profile image; paths belonging to other users respond 403, unregistered
// or missing files 404.
func DownloadFile(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		relPath := c.Query("file")
		if relPath == "" {
			return badRequest(c, "file is required")
		}

		userID := middleware.GetUserID(c)

		var (
			abs  string
			name string
			err  error
		)
		if storage.IsAvatarPath(relPath) {
			abs, name, err = a.Profile.ResolveAvatarDownload(userID, relPath)
		} else {
			abs, name, err = a.Notes.ResolveDownload(userID, relPath)
		}
		if err != nil {
			return respondError(c, err)
		}

		return c.Download(abs, name)
	}
}
