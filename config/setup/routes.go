package setup

import (
	"fmt"
	"time"

	"notesphere/app"
	"notesphere/handlers"
	"notesphere/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {

	fiberApp.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	// Auth routes
	fiberApp.Post("/api/auth/register", handlers.Register(application))
	fiberApp.Post("/api/auth/login", handlers.Login(application))
	fiberApp.Post("/api/auth/logout", handlers.Logout(application))

	authRequired := middleware.AuthRequired(application.Sessions)

	// Protected API routes with a per-user rate limit
	api := fiberApp.Group("/api", authRequired, limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID := middleware.GetUserID(c); userID != 0 {
				return fmt.Sprintf("user:%d", userID)
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Rate limit exceeded for your account",
			})
		},
	}))

	api.Get("/auth/me", handlers.Me(application))

	api.Get("/notes", handlers.ListNotes(application))
	api.Post("/notes", handlers.CreateNote(application))
	api.Get("/notes/:id", handlers.GetNote(application))
	api.Put("/notes/:id", handlers.UpdateNote(application))
	api.Delete("/notes/:id", handlers.DeleteNote(application))
	api.Patch("/notes/:id/favorite", handlers.ToggleFavorite(application))
	api.Get("/subjects", handlers.ListSubjects(application))
	api.Get("/tags", handlers.ListTags(application))

	api.Get("/groups/mine", handlers.MyGroups(application))
	api.Get("/groups/available", handlers.AvailableGroups(application))
	api.Post("/groups", handlers.CreateGroup(application))
	api.Post("/groups/:id/join", handlers.JoinGroup(application))
	api.Post("/groups/:id/leave", handlers.LeaveGroup(application))
	api.Delete("/groups/:id", handlers.DeleteGroup(application))
	api.Get("/groups/:id/messages", handlers.GroupMessages(application))
	api.Post("/groups/:id/messages", handlers.PostMessage(application))

	api.Get("/profile", handlers.GetProfile(application))
	api.Put("/profile", handlers.UpdateProfile(application))
	api.Post("/profile/password", handlers.ChangePassword(application))
	api.Post("/profile/complete", handlers.CompleteProfile(application))
	api.Get("/profile/complete", handlers.ProfileCompleteness(application))

	api.Get("/stats", handlers.GetStats(application))
	api.Get("/stats/recent", handlers.RecentNotes(application))
	api.Get("/stats/activity", handlers.ActivityChart(application))

	// Attachment download sits outside /api but still requires a session
	fiberApp.Get("/files/download", authRequired, handlers.DownloadFile(application))
}
