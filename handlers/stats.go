package handlers

import (
	"notesphere/app"
	"notesphere/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetStats returns the dashboard card numbers.
func GetStats(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := a.Stats.Overview(middleware.GetUserID(c))
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "", fiber.Map{"stats": stats})
	}
}

func RecentNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notes, err := a.Stats.Recent(middleware.GetUserID(c))
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "", fiber.Map{"notes": notes})
	}
}

// ActivityChart returns notes-per-month buckets for the activity graph.
func ActivityChart(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		months, err := a.Stats.Activity(middleware.GetUserID(c))
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "", fiber.Map{"activity": months})
	}
}
