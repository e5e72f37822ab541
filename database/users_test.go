package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserByProfileImage(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	aliceID := createTestUser(t, repo, "alice")
	createTestUser(t, repo, "bob")

	avatar := "uploads/profile_images/alice.png"
	err := repo.UpdateProfile(aliceID, "Alice", "alice@example.com", "", "", &avatar)
	require.NoError(t, err)

	t.Run("Returns the owning user", func(t *testing.T) {
		user, err := repo.GetUserByProfileImage(avatar)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, aliceID, user.ID)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("Returns nil for an unknown path", func(t *testing.T) {
		user, err := repo.GetUserByProfileImage("uploads/profile_images/nobody.png")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	createTestUser(t, repo, "alice")
	bobID := createTestUser(t, repo, "bob")

	err := repo.UpdateProfile(bobID, "Bob", "alice@example.com", "", "", nil)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}
