package setup

import (
	"log/slog"
	"strconv"
	"time"

	"notesphere/app"
	"notesphere/config"
	"notesphere/database"
	"notesphere/services"
	"notesphere/session"
	"notesphere/storage"
)

// InitDatabase initializes the SQLite database and runs migrations
func InitDatabase(dbPath string, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "path", dbPath)
	return db, nil
}

// InitApp initializes the application with all dependencies
func InitApp(db *database.DB, logger *slog.Logger) (*app.App, error) {
	repo := database.NewRepository(db)

	files, err := storage.New(config.AppConfig.UploadDir)
	if err != nil {
		return nil, err
	}
	logger.Info("upload store initialized", "root", config.AppConfig.UploadDir)

	ttlHours, err := strconv.Atoi(config.GetEnv("SESSION_TTL_HOURS", "720"))
	if err != nil || ttlHours < 1 {
		ttlHours = 720
	}
	sessions := session.NewStore(time.Duration(ttlHours) * time.Hour)
	sessions.StartCleanupRoutine()
	logger.Info("session store initialized", "ttl_hours", ttlHours)

	application := app.New(
		services.NewAuthService(repo),
		services.NewNoteService(repo, files, logger),
		services.NewGroupService(repo),
		services.NewProfileService(repo, files, logger),
		services.NewStatsService(repo),
		sessions,
		files,
		logger,
	)
	logger.Info("application initialized with dependency injection")

	return application, nil
}

// Shutdown performs graceful shutdown of all services
func Shutdown(db *database.DB, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if db != nil {
		db.Close()
		logger.Info("database closed")
	}
}
