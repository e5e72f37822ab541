package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"notesphere/database"
	"notesphere/models"
	"notesphere/storage"
)

// NoteService handles business logic for notes, their tags, and the
// attachment lifecycle.
type NoteService struct {
	repo   NoteRepository
	files  FileStore
	logger *slog.Logger
}

func NewNoteService(repo NoteRepository, files FileStore, logger *slog.Logger) *NoteService {
	return &NoteService{repo: repo, files: files, logger: logger}
}

// Create validates and stores a new note with its tags and optional
// attachment in one atomic unit. A file that fails the allow-list or size
// check is skipped without failing the note; the attachment-less note is
// still created. A file staged on disk is removed again when the database
// transaction fails.
func (ns *NoteService) Create(userID int64, input models.NoteInput, file *multipart.FileHeader) (*models.Note, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	filePath, fileSize := ns.stageAttachment(userID, file)

	note := &models.Note{
		UserID:    userID,
		Title:     title,
		Content:   content,
		SubjectID: input.SubjectID,
		Favorite:  input.Favorite,
		FilePath:  filePath,
		FileSize:  fileSize,
	}

	tags := ParseTags(input.Tags)
	noteID, err := ns.repo.CreateNote(note, tags)
	if err != nil {
		if filePath != "" {
			if delErr := ns.files.Delete(filePath); delErr != nil {
				ns.logger.Error("failed to clean up staged attachment", "path", filePath, "error", delErr)
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	note.ID = noteID
	note.Tags = tags
	return note, nil
}

// Update rewrites a note's fields and replaces its tag set. The attachment
// can be removed, replaced, or left alone; a replacement deletes the old
// file first and follows the same allow-list rules as create.
func (ns *NoteService) Update(userID, noteID int64, input models.NoteInput, file *multipart.FileHeader, removeFile bool) (*models.Note, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	existing, err := ns.repo.GetNote(userID, noteID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: note not found or not owned by user", ErrNotFound)
	}

	filePath, fileSize := existing.FilePath, existing.FileSize

	if removeFile && filePath != "" {
		if err := ns.files.Delete(filePath); err != nil {
			ns.logger.Error("failed to delete attachment", "path", filePath, "error", err)
		}
		filePath, fileSize = "", 0
	}

	staged := ""
	if file != nil {
		if newPath, newSize := ns.stageAttachment(userID, file); newPath != "" {
			if filePath != "" {
				if err := ns.files.Delete(filePath); err != nil {
					ns.logger.Error("failed to delete replaced attachment", "path", filePath, "error", err)
				}
			}
			filePath, fileSize = newPath, newSize
			staged = newPath
		}
	}

	note := &models.Note{
		ID:        noteID,
		UserID:    userID,
		Title:     title,
		Content:   content,
		SubjectID: input.SubjectID,
		Favorite:  input.Favorite,
		FilePath:  filePath,
		FileSize:  fileSize,
	}

	tags := ParseTags(input.Tags)
	if err := ns.repo.UpdateNote(note, tags); err != nil {
		if staged != "" {
			if delErr := ns.files.Delete(staged); delErr != nil {
				ns.logger.Error("failed to clean up staged attachment", "path", staged, "error", delErr)
			}
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: note not found or not owned by user", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	note.Tags = tags
	return note, nil
}

// Delete removes a note with its tag associations, then deletes the
// attachment from disk only after the database transaction has committed.
func (ns *NoteService) Delete(userID, noteID int64) error {
	filePath, err := ns.repo.DeleteNote(userID, noteID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: note not found or not owned by user", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if filePath != "" {
		if err := ns.files.Delete(filePath); err != nil {
			ns.logger.Error("failed to delete attachment after note delete", "path", filePath, "error", err)
		}
	}

	return nil
}

// SetFavorite flips the favorite flag on an owned note. Setting the same
// value twice is a no-op.
func (ns *NoteService) SetFavorite(userID, noteID int64, favorite bool) error {
	err := ns.repo.SetFavorite(userID, noteID, favorite)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: note not found or not owned by user", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (ns *NoteService) Get(userID, noteID int64) (*models.Note, error) {
	note, err := ns.repo.GetNote(userID, noteID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if note == nil {
		return nil, fmt.Errorf("%w: note not found or not owned by user", ErrNotFound)
	}
	return note, nil
}

// List returns one page of the user's notes. Unknown sort keys fall back to
// newest-first, out-of-range pages clamp to the first page.
func (ns *NoteService) List(userID int64, filter models.NoteFilter) (*models.NotePage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}

	notes, total, err := ns.repo.ListNotes(userID, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	totalPages := (total + database.NotesPerPage - 1) / database.NotesPerPage

	return &models.NotePage{
		Notes:      notes,
		Total:      total,
		Page:       filter.Page,
		PerPage:    database.NotesPerPage,
		TotalPages: totalPages,
	}, nil
}

func (ns *NoteService) Tags(userID int64) ([]models.Tag, error) {
	tags, err := ns.repo.ListTags(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return tags, nil
}

func (ns *NoteService) Subjects() ([]models.Subject, error) {
	subjects, err := ns.repo.ListSubjects()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return subjects, nil
}

// ResolveDownload checks that the requested path belongs to a note owned by
// the caller and returns the absolute path and a download filename.
func (ns *NoteService) ResolveDownload(userID int64, relPath string) (string, string, error) {
	note, err := ns.repo.GetNoteByFilePath(relPath)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if note == nil {
		return "", "", fmt.Errorf("%w: file not registered", ErrNotFound)
	}
	if note.UserID != userID {
		return "", "", fmt.Errorf("%w: file belongs to another user", ErrForbidden)
	}

	abs, err := ns.files.Resolve(relPath)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if !ns.files.Exists(relPath) {
		return "", "", fmt.Errorf("%w: file missing from storage", ErrNotFound)
	}

	return abs, filepath.Base(abs), nil
}

// stageAttachment writes an uploaded file to disk if it passes validation.
// Invalid uploads are dropped with a warning and the note proceeds without
// an attachment.
func (ns *NoteService) stageAttachment(userID int64, file *multipart.FileHeader) (string, int64) {
	if file == nil {
		return "", 0
	}

	path, size, err := ns.files.SaveAttachment(file)
	if err != nil {
		reason := "store failed"
		if errors.Is(err, storage.ErrInvalidType) {
			reason = "type not allowed"
		} else if errors.Is(err, storage.ErrTooLarge) {
			reason = "too large"
		}
		ns.logger.Warn("attachment skipped",
			"user_id", userID,
			"filename", file.Filename,
			"reason", reason,
			"error", err,
		)
		return "", 0
	}

	return path, size
}

// ParseTags splits a comma-separated tag list, trimming whitespace and
// dropping empty entries.
func ParseTags(csv string) []string {
	parts := strings.Split(csv, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
