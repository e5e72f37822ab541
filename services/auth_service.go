package services

import (
	"fmt"
	"strings"

	"notesphere/database"
	"notesphere/models"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles account registration and credential verification.
type AuthService struct {
	repo UserRepository
}

func NewAuthService(repo UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

// Register creates a new account with a bcrypt password hash. Duplicate
// usernames or emails fail with a conflict.
func (as *AuthService) Register(req models.RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	user := &models.User{
		FullName:     strings.TrimSpace(req.FullName),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		Role:         "student",
	}

	userID, err := as.repo.CreateUser(user)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username or email already registered", ErrConflict)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	user.ID = userID
	return user, nil
}

// Login verifies credentials against the stored hash. The login field
// matches either email or username. Unknown accounts and wrong passwords
// fail the same way.
func (as *AuthService) Login(login, password string) (*models.User, error) {
	user, err := as.repo.GetUserByLogin(strings.TrimSpace(login))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if err := as.repo.UpdateLastLogin(user.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return user, nil
}
