package database

import (
	"database/sql"
	"time"

	"notesphere/models"
)

// ==================== USERS ====================

func (r *Repository) CreateUser(user *models.User) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO users (fullname, username, email, password_hash)
		VALUES (?, ?, ?, ?)
	`, user.FullName, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repository) GetUser(userID int64) (*models.User, error) {
	row := r.db.QueryRow(userSelect+` WHERE id = ?`, userID)
	return scanUser(row)
}

// GetUserByLogin finds a user by email or username. Returns nil when no
// account matches.
func (r *Repository) GetUserByLogin(login string) (*models.User, error) {
	row := r.db.QueryRow(userSelect+` WHERE email = ? OR username = ?`, login, login)
	return scanUser(row)
}

// GetUserByProfileImage finds the owner of a stored avatar path. Returns
// nil when no account uses the path.
func (r *Repository) GetUserByProfileImage(path string) (*models.User, error) {
	row := r.db.QueryRow(userSelect+` WHERE profile_image = ?`, path)
	return scanUser(row)
}

func (r *Repository) UpdateLastLogin(userID int64) error {
	_, err := r.db.Exec(`
		UPDATE users SET last_login_at = ? WHERE id = ?
	`, time.Now(), userID)
	return err
}

// UpdateProfile rewrites the editable profile fields. The avatar column is
// only touched when profileImage is non-nil, so callers without a new image
// leave the stored one alone.
func (r *Repository) UpdateProfile(userID int64, fullname, email, bio, interests string, profileImage *string) error {
	if profileImage != nil {
		_, err := r.db.Exec(`
			UPDATE users
			SET fullname = ?, email = ?, bio = ?, interests = ?,
			    profile_image = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, fullname, email, bio, interests, *profileImage, userID)
		return err
	}

	_, err := r.db.Exec(`
		UPDATE users
		SET fullname = ?, email = ?, bio = ?, interests = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, fullname, email, bio, interests, userID)
	return err
}

// CompleteProfile stores the first-login completion fields.
func (r *Repository) CompleteProfile(userID int64, bio, phone, address string, profileImage *string) error {
	if profileImage != nil {
		_, err := r.db.Exec(`
			UPDATE users
			SET bio = ?, phone = ?, address = ?, profile_image = ?,
			    updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, bio, phone, address, *profileImage, userID)
		return err
	}

	_, err := r.db.Exec(`
		UPDATE users
		SET bio = ?, phone = ?, address = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, bio, phone, address, userID)
	return err
}

func (r *Repository) UpdatePassword(userID int64, passwordHash string) error {
	_, err := r.db.Exec(`
		UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, passwordHash, userID)
	return err
}

const userSelect = `
	SELECT id, fullname, username, email, password_hash, role,
	       bio, phone, address, interests, profile_image,
	       created_at, last_login_at
	FROM users`

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User

	err := row.Scan(
		&user.ID, &user.FullName, &user.Username, &user.Email,
		&user.PasswordHash, &user.Role, &user.Bio, &user.Phone,
		&user.Address, &user.Interests, &user.ProfileImage,
		&user.CreatedAt, &user.LastLoginAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
