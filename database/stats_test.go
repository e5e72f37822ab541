package database

import (
	"testing"
	"time"

	"notesphere/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	userID := createTestUser(t, repo, "dashboard")
	otherID := createTestUser(t, repo, "noise")

	_, err := repo.CreateNote(&models.Note{
		UserID: userID, Title: "A", Content: "x", Favorite: true,
		FilePath: "uploads/a.pdf", FileSize: 1000,
	}, []string{"math", "exam"})
	require.NoError(t, err)

	_, err = repo.CreateNote(&models.Note{
		UserID: userID, Title: "B", Content: "x", FileSize: 500,
	}, []string{"math"})
	require.NoError(t, err)

	_, err = repo.CreateGroup(&models.Group{Name: "G", CreatedBy: userID})
	require.NoError(t, err)

	// Another user's data must not bleed into the numbers
	_, err = repo.CreateNote(&models.Note{
		UserID: otherID, Title: "C", Content: "x", Favorite: true, FileSize: 9999,
	}, []string{"other"})
	require.NoError(t, err)

	stats, err := repo.GetStats(userID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalNotes)
	assert.Equal(t, 1, stats.FavoriteNotes)
	assert.Equal(t, 2, stats.TagCount)
	assert.Equal(t, 1, stats.GroupCount)
	assert.Equal(t, int64(1500), stats.StorageBytes)
}

func TestRecentNotes(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	userID := createTestUser(t, repo, "recent")

	var lastID int64
	for _, title := range []string{"One", "Two", "Three"} {
		id, err := repo.CreateNote(&models.Note{
			UserID: userID, Title: title, Content: "x",
		}, nil)
		require.NoError(t, err)
		lastID = id
	}

	// Touching a note bumps it to the top of the panel
	time.Sleep(1100 * time.Millisecond)
	err := repo.UpdateNote(&models.Note{
		ID: lastID, UserID: userID, Title: "Three updated", Content: "y",
	}, nil)
	require.NoError(t, err)

	notes, err := repo.RecentNotes(userID, 2)
	require.NoError(t, err)
	require.Len(t, notes, 2)

	assert.Equal(t, "Three updated", notes[0].Title)
	// Content is deliberately omitted from the dashboard rows
	assert.Empty(t, notes[0].Content)
}

func TestNotesPerMonth(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	userID := createTestUser(t, repo, "activity")

	for i := 0; i < 3; i++ {
		_, err := repo.CreateNote(&models.Note{
			UserID: userID, Title: "N", Content: "x",
		}, nil)
		require.NoError(t, err)
	}

	counts, err := repo.NotesPerMonth(userID, 6)
	require.NoError(t, err)
	require.Len(t, counts, 1)

	assert.Equal(t, time.Now().UTC().Format("2006-01"), counts[0].Month)
	assert.Equal(t, 3, counts[0].Count)
}
