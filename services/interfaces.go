package services

import (
	"mime/multipart"

	"notesphere/models"
)

// NoteRepository defines the data access the note service needs.
type NoteRepository interface {
	CreateNote(note *models.Note, tags []string) (int64, error)
	UpdateNote(note *models.Note, tags []string) error
	DeleteNote(userID, noteID int64) (string, error)
	SetFavorite(userID, noteID int64, favorite bool) error
	GetNote(userID, noteID int64) (*models.Note, error)
	GetNoteByFilePath(filePath string) (*models.Note, error)
	ListNotes(userID int64, filter models.NoteFilter) ([]models.Note, int, error)
	ListTags(userID int64) ([]models.Tag, error)
	ListSubjects() ([]models.Subject, error)
}

// GroupRepository defines the data access the group service needs.
type GroupRepository interface {
	CreateGroup(group *models.Group) (int64, error)
	GroupExists(groupID int64) (bool, error)
	AddMember(groupID, userID int64) error
	RemoveMember(groupID, userID int64) error
	IsMember(groupID, userID int64) (bool, error)
	IsAdmin(groupID, userID int64) (bool, error)
	DeleteGroup(groupID int64) error
	GetMyGroups(userID int64) ([]models.Group, error)
	GetAvailableGroups(userID int64) ([]models.Group, error)
	InsertMessage(msg *models.Message) (int64, error)
	GetMessages(groupID int64, limit int) ([]models.Message, error)
}

// UserRepository defines the data access the auth and profile services need.
type UserRepository interface {
	CreateUser(user *models.User) (int64, error)
	GetUser(userID int64) (*models.User, error)
	GetUserByLogin(login string) (*models.User, error)
	GetUserByProfileImage(path string) (*models.User, error)
	UpdateLastLogin(userID int64) error
	UpdateProfile(userID int64, fullname, email, bio, interests string, profileImage *string) error
	CompleteProfile(userID int64, bio, phone, address string, profileImage *string) error
	UpdatePassword(userID int64, passwordHash string) error
}

// StatsRepository defines the aggregate queries behind the dashboard.
type StatsRepository interface {
	GetStats(userID int64) (*models.Stats, error)
	RecentNotes(userID int64, limit int) ([]models.Note, error)
	NotesPerMonth(userID int64, months int) ([]models.MonthCount, error)
}

// FileStore abstracts the on-disk upload store for testability.
type FileStore interface {
	SaveAttachment(file *multipart.FileHeader) (string, int64, error)
	SaveAvatar(file *multipart.FileHeader) (string, int64, error)
	Delete(relPath string) error
	Resolve(relPath string) (string, error)
	Exists(relPath string) bool
}
