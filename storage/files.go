// Package storage keeps note attachments and profile avatars on local disk.
// Stored paths are relative to the store root (e.g. "uploads/<name>") so the
// database rows stay portable across deployments.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	// MaxAttachmentSize caps note attachments at 5MB.
	MaxAttachmentSize = 5 * 1024 * 1024
	// MaxAvatarSize caps profile images at 2MB.
	MaxAvatarSize = 2 * 1024 * 1024

	attachmentDir = "uploads"
	avatarDir     = "uploads/profile_images"
)

var (
	ErrInvalidType = errors.New("file type not allowed")
	ErrTooLarge    = errors.New("file exceeds maximum size")
)

// attachmentTypes is the allow-list for note attachments, detected from
// content, not the client-supplied filename.
var attachmentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
	"image/jpeg",
	"image/png",
}

var avatarTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-]`)

// Store writes uploads under root/uploads and root/uploads/profile_images.
type Store struct {
	root string
}

func New(root string) (*Store, error) {
	for _, dir := range []string{attachmentDir, avatarDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
	}
	return &Store{root: root}, nil
}

// SaveAttachment validates a note upload against the attachment allow-list
// and size cap, then stores it under a collision-resistant name. Returns the
// relative path and stored size.
func (s *Store) SaveAttachment(file *multipart.FileHeader) (string, int64, error) {
	return s.save(file, attachmentDir, attachmentTypes, MaxAttachmentSize)
}

// SaveAvatar stores a profile image, accepting common web image formats.
func (s *Store) SaveAvatar(file *multipart.FileHeader) (string, int64, error) {
	return s.save(file, avatarDir, avatarTypes, MaxAvatarSize)
}

func (s *Store) save(file *multipart.FileHeader, dir string, allowed []string, maxSize int64) (string, int64, error) {
	if file.Size > maxSize {
		return "", 0, ErrTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", 0, err
	}
	defer src.Close()

	// Sniff the type from content rather than trusting client headers
	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", 0, err
	}
	if !typeAllowed(mtype, allowed) {
		return "", 0, ErrInvalidType
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", 0, err
	}

	name := uuid.NewString() + "_" + sanitizeFilename(file.Filename)
	relPath := filepath.ToSlash(filepath.Join(dir, name))

	dst, err := os.Create(filepath.Join(s.root, dir, name))
	if err != nil {
		return "", 0, err
	}

	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filepath.Join(s.root, dir, name))
		return "", 0, err
	}

	return relPath, written, nil
}

// typeAllowed matches the detected type or any of its ancestors against
// the allow list, so subtypes of an allowed type still pass.
func typeAllowed(mtype *mimetype.MIME, allowed []string) bool {
	for m := mtype; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

// Delete removes a stored file by its relative path. Missing files are not
// an error; a delete retried after a partial failure should succeed.
func (s *Store) Delete(relPath string) error {
	abs, err := s.Resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Resolve turns a stored relative path into an absolute one, rejecting
// anything that escapes the upload directories.
func (s *Store) Resolve(relPath string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid file path %q", relPath)
	}
	if !strings.HasPrefix(filepath.ToSlash(cleaned), attachmentDir+"/") {
		return "", fmt.Errorf("path %q outside upload directory", relPath)
	}
	return filepath.Join(s.root, cleaned), nil
}

// IsAvatarPath reports whether a stored path points into the profile image
// directory rather than the note attachment directory.
func IsAvatarPath(relPath string) bool {
	return strings.HasPrefix(filepath.ToSlash(filepath.Clean(filepath.FromSlash(relPath))), avatarDir+"/")
}

// Exists reports whether a stored relative path is present on disk.
func (s *Store) Exists(relPath string) bool {
	abs, err := s.Resolve(relPath)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	cleaned := unsafeChars.ReplaceAllString(base, "_")
	if cleaned == "" || cleaned == "." {
		cleaned = "file"
	}
	return cleaned
}
