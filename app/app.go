package app

import (
	"log/slog"

	"notesphere/services"
	"notesphere/session"
	"notesphere/storage"
	"notesphere/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Auth      *services.AuthService
	Notes     *services.NoteService
	Groups    *services.GroupService
	Profile   *services.ProfileService
	Stats     *services.StatsService
	Sessions  *session.Store
	Files     *storage.Store
	Validator *validator.Validator
	Logger    *slog.Logger
}

// New creates a new App instance with all dependencies
func New(auth *services.AuthService, notes *services.NoteService, groups *services.GroupService,
	profile *services.ProfileService, stats *services.StatsService,
	sessions *session.Store, files *storage.Store, logger *slog.Logger) *App {
	return &App{
		Auth:      auth,
		Notes:     notes,
		Groups:    groups,
		Profile:   profile,
		Stats:     stats,
		Sessions:  sessions,
		Files:     files,
		Validator: validator.New(),
		Logger:    logger,
	}
}
