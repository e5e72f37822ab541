package session

import (
	"sync"
	"time"

	"notesphere/models"

	"github.com/google/uuid"
)

// Store is an in-memory session store. Sessions are request-scoped lookups
// keyed by a uuid cookie value; expired entries are swept by a background
// routine.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*models.Session),
		ttl:      ttl,
	}
}

func (s *Store) Create(user *models.User) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID := uuid.New().String()
	sess := &models.Session{
		ID:         sessionID,
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		ExpiresAt:  time.Now().Add(s.ttl),
		CreatedAt:  time.Now(),
		LastUsedAt: time.Now(),
	}

	s.sessions[sessionID] = sess
	return sess, nil
}

// Get returns the session or nil when unknown or expired.
func (s *Store) Get(sessionID string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[sessionID]
	if !exists {
		return nil, nil
	}

	if time.Now().After(sess.ExpiresAt) {
		return nil, nil
	}

	return sess, nil
}

func (s *Store) Touch(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, exists := s.sessions[sessionID]; exists {
		sess.LastUsedAt = time.Now()
	}
}

func (s *Store) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// DeleteByUserID drops every session belonging to a user, used after a
// password change.
func (s *Store) DeleteByUserID(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, id)
		}
	}
}

func (s *Store) CleanupExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if time.Now().After(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}

func (s *Store) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			s.CleanupExpired()
		}
	}()
}
