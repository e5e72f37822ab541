package services

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"notesphere/database"
	"notesphere/models"
	"notesphere/storage"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost factor used for stored credentials.
const bcryptCost = 12

// ProfileService handles profile reads and updates, password changes, and
// avatar replacement.
type ProfileService struct {
	repo   UserRepository
	files  FileStore
	logger *slog.Logger
}

func NewProfileService(repo UserRepository, files FileStore, logger *slog.Logger) *ProfileService {
	return &ProfileService{repo: repo, files: files, logger: logger}
}

// Get returns the user's profile with the stored comma-joined interests
// split into a list.
func (ps *ProfileService) Get(userID int64) (*models.Profile, error) {
	user, err := ps.repo.GetUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	return toProfile(user), nil
}

// Update validates and stores the editable profile fields. A new avatar is
// written to disk first; the previous non-default image is deleted only
// after the database row points at the new one.
func (ps *ProfileService) Update(userID int64, req models.UpdateProfileRequest, avatar *multipart.FileHeader) (*models.Profile, error) {
	user, err := ps.repo.GetUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	fullname := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)
	if fullname == "" || len(fullname) > 100 {
		return nil, fmt.Errorf("%w: full name must be between 1-100 characters", ErrValidation)
	}
	if len(req.Bio) > 500 {
		return nil, fmt.Errorf("%w: bio must be under 500 characters", ErrValidation)
	}

	interests := make([]string, 0, len(req.Interests))
	for _, it := range req.Interests {
		if trimmed := strings.TrimSpace(it); trimmed != "" {
			interests = append(interests, trimmed)
		}
	}

	var newImage *string
	if avatar != nil {
		path, _, err := ps.files.SaveAvatar(avatar)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidType) || errors.Is(err, storage.ErrTooLarge) {
				return nil, fmt.Errorf("%w: profile image must be a jpeg, png, gif, or webp under 2MB", ErrValidation)
			}
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		newImage = &path
	}

	if err := ps.repo.UpdateProfile(userID, fullname, email, req.Bio, strings.Join(interests, ","), newImage); err != nil {
		if newImage != nil {
			if delErr := ps.files.Delete(*newImage); delErr != nil {
				ps.logger.Error("failed to clean up staged avatar", "path", *newImage, "error", delErr)
			}
		}
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email is already in use", ErrConflict)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// The default avatar is an empty path and is never deleted.
	if newImage != nil && user.ProfileImage != "" {
		if err := ps.files.Delete(user.ProfileImage); err != nil {
			ps.logger.Error("failed to delete previous avatar", "path", user.ProfileImage, "error", err)
		}
	}

	user.FullName = fullname
	user.Email = email
	user.Bio = req.Bio
	user.Interests = strings.Join(interests, ",")
	if newImage != nil {
		user.ProfileImage = *newImage
	}
	return toProfile(user), nil
}

// ChangePassword verifies the current password against the stored hash
// before accepting a new one.
func (ps *ProfileService) ChangePassword(userID int64, current, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	user, err := ps.repo.GetUser(userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if user == nil {
		return fmt.Errorf("%w: user not found", ErrNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := ps.repo.UpdatePassword(userID, string(hash)); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return nil
}

// Complete stores the first-login completion fields (bio and address are
// required; phone and avatar optional).
func (ps *ProfileService) Complete(userID int64, req models.CompleteProfileRequest, avatar *multipart.FileHeader) error {
	bio := strings.TrimSpace(req.Bio)
	address := strings.TrimSpace(req.Address)
	if bio == "" {
		return fmt.Errorf("%w: bio is required", ErrValidation)
	}
	if len(bio) > 500 {
		return fmt.Errorf("%w: bio must be under 500 characters", ErrValidation)
	}
	if address == "" {
		return fmt.Errorf("%w: address is required", ErrValidation)
	}

	user, err := ps.repo.GetUser(userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if user == nil {
		return fmt.Errorf("%w: user not found", ErrNotFound)
	}

	var newImage *string
	if avatar != nil {
		path, _, err := ps.files.SaveAvatar(avatar)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidType) || errors.Is(err, storage.ErrTooLarge) {
				return fmt.Errorf("%w: profile image must be a jpeg, png, gif, or webp under 2MB", ErrValidation)
			}
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		newImage = &path
	}

	if err := ps.repo.CompleteProfile(userID, bio, strings.TrimSpace(req.Phone), address, newImage); err != nil {
		if newImage != nil {
			if delErr := ps.files.Delete(*newImage); delErr != nil {
				ps.logger.Error("failed to clean up staged avatar", "path", *newImage, "error", delErr)
			}
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if newImage != nil && user.ProfileImage != "" {
		if err := ps.files.Delete(user.ProfileImage); err != nil {
			ps.logger.Error("failed to delete previous avatar", "path", user.ProfileImage, "error", err)
		}
	}

	return nil
}

// IsComplete reports whether the profile has both a bio and an address.
// Incomplete profiles get redirected into the completion flow by the
// front end.
func (ps *ProfileService) IsComplete(userID int64) (bool, error) {
	user, err := ps.repo.GetUser(userID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if user == nil {
		return false, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	return user.Bio != "" && user.Address != "", nil
}

// ResolveAvatarDownload checks that the requested path is the caller's own
// profile image and returns the absolute path and a download filename.
// Another user's avatar responds forbidden, an unregistered path not found.
func (ps *ProfileService) ResolveAvatarDownload(userID int64, relPath string) (string, string, error) {
	owner, err := ps.repo.GetUserByProfileImage(relPath)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if owner == nil {
		return "", "", fmt.Errorf("%w: file not registered", ErrNotFound)
	}
	if owner.ID != userID {
		return "", "", fmt.Errorf("%w: file belongs to another user", ErrForbidden)
	}

	abs, err := ps.files.Resolve(relPath)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if !ps.files.Exists(relPath) {
		return "", "", fmt.Errorf("%w: file missing from storage", ErrNotFound)
	}

	return abs, filepath.Base(abs), nil
}

func toProfile(user *models.User) *models.Profile {
	interests := make([]string, 0)
	if user.Interests != "" {
		interests = strings.Split(user.Interests, ",")
	}

	return &models.Profile{
		ID:           user.ID,
		FullName:     user.FullName,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		Bio:          user.Bio,
		Phone:        user.Phone,
		Address:      user.Address,
		Interests:    interests,
		ProfileImage: user.ProfileImage,
		MemberSince:  user.CreatedAt,
	}
}
