package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"fullname"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Bio          string    `json:"bio"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Interests    string    `json:"-"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// Profile is the user as presented to the profile page, with the
// comma-joined interests column split into a list.
type Profile struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"fullname"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Bio          string    `json:"bio"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Interests    []string  `json:"interests"`
	ProfileImage string    `json:"profile_image"`
	MemberSince  time.Time `json:"member_since"`
}

type Session struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}

type RegisterRequest struct {
	FullName string `json:"fullname" form:"fullname" validate:"required,max=100"`
	Username string `json:"username" form:"username" validate:"required,username"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Login    string `json:"login" form:"login" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName  string   `json:"fullname" form:"fullname" validate:"required,max=100"`
	Email     string   `json:"email" form:"email" validate:"required,email,max=255"`
	Bio       string   `json:"bio" form:"bio" validate:"max=500"`
	Interests []string `json:"interests" form:"interests" validate:"dive,max=50"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" form:"new_password" validate:"required,min=8,max=72"`
}

type CompleteProfileRequest struct {
	Bio     string `json:"bio" form:"bio" validate:"required,max=500"`
	Phone   string `json:"phone" form:"phone" validate:"max=30"`
	Address string `json:"address" form:"address" validate:"required,max=255"`
}

type Stats struct {
	TotalNotes    int   `json:"total_notes"`
	FavoriteNotes int   `json:"favorite_notes"`
	TagCount      int   `json:"tag_count"`
	GroupCount    int   `json:"group_count"`
	StorageBytes  int64 `json:"storage_bytes"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}
