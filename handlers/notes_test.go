package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"notesphere/app"
	"notesphere/config/setup"
	"notesphere/database"
	"notesphere/services"
	"notesphere/session"
	"notesphere/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// avatarPNG is a minimal payload that sniffs as image/png.
var avatarPNG = append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a},
	make([]byte, 64)...)

// setupTestApp wires a full application against a temporary database and
// upload directory, with all routes registered.
func setupTestApp(t *testing.T) (*fiber.App, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "notesphere-test-*")
	require.NoError(t, err, "Failed to create temp directory")

	db, err := database.New(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err, "Failed to initialize test database")

	err = db.Migrate()
	require.NoError(t, err, "Failed to run migrations")

	repo := database.NewRepository(db)

	files, err := storage.New(tmpDir)
	require.NoError(t, err, "Failed to initialize file store")

	sessions := session.NewStore(24 * time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	application := app.New(
		services.NewAuthService(repo),
		services.NewNoteService(repo, files, logger),
		services.NewGroupService(repo),
		services.NewProfileService(repo, files, logger),
		services.NewStatsService(repo),
		sessions,
		files,
		logger,
	)

	fiberApp := fiber.New()
	setup.RegisterRoutes(fiberApp, application)

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return fiberApp, cleanup
}

func doJSON(t *testing.T, fiberApp *fiber.App, method, path, cookie string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: cookie})
	}

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	err := json.NewDecoder(resp.Body).Decode(&body)
	require.NoError(t, err)
	return body
}

// registerUser creates an account through the API and returns its session
// cookie value.
func registerUser(t *testing.T, fiberApp *fiber.App, username string) string {
	t.Helper()

	resp := doJSON(t, fiberApp, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullname": "Test " + username,
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c.Value
		}
	}

	t.Fatal("no session cookie in register response")
	return ""
}

// createNote posts a multipart note form, optionally with an attachment,
// and returns the created note's id.
func createNote(t *testing.T, fiberApp *fiber.App, cookie string, fields map[string]string, filename string, fileContent []byte) int64 {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/notes", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "session_id", Value: cookie})

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	note := body["note"].(map[string]interface{})
	return int64(note["id"].(float64))
}

func TestAuthFlow(t *testing.T) {
	fiberApp, cleanup := setupTestApp(t)
	defer cleanup()

	t.Run("Protected routes reject anonymous requests", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodGet, "/api/notes", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	cookie := registerUser(t, fiberApp, "alice")

	t.Run("Registration signs the user in", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodGet, "/api/auth/me", cookie, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		user := body["user"].(map[string]interface{})
		assert.Equal(t, "alice", user["username"])
	})

	t.Run("Duplicate username conflicts", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodPost, "/api/auth/register", "", map[string]string{
			"fullname": "Other Alice",
			"username": "alice",
			"email":    "other@example.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Invalid registration input is rejected", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodPost, "/api/auth/register", "", map[string]string{
			"fullname": "Bad User",
			"username": "x",
			"email":    "not-an-email",
			"password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, false, body["success"])
	})

	t.Run("Wrong password is unauthorized", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodPost, "/api/auth/login", "", map[string]string{
			"login":    "alice",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Login works with email or username", func(t *testing.T) {
		for _, login := range []string{"alice", "alice@example.com"} {
			resp := doJSON(t, fiberApp, http.MethodPost, "/api/auth/login", "", map[string]string{
				"login":    login,
				"password": "password123",
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, false, body["profile_complete"])
		}
	})

	t.Run("Logout invalidates the session", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodPost, "/api/auth/logout", cookie, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doJSON(t, fiberApp, http.MethodGet, "/api/notes", cookie, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestNoteLifecycle(t *testing.T) {
	fiberApp, cleanup := setupTestApp(t)
	defer cleanup()

	alice := registerUser(t, fiberApp, "alice")
	bob := registerUser(t, fiberApp, "bob")

	attachment := []byte("Derivatives and limits, week three.\n")
	noteID := createNote(t, fiberApp, alice, map[string]string{
		"title":   "Calc HW",
		"content": "Chapter 5 exercises",
		"tags":    "math, homework",
	}, "week3.txt", attachment)

	var filePath string

	t.Run("Owner reads the note with tags and attachment", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodGet, fmt.Sprintf("/api/notes/%d", noteID), alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		note := body["note"].(map[string]interface{})
		assert.Equal(t, "Calc HW", note["title"])
		assert.ElementsMatch(t, []interface{}{"math", "homework"}, note["tags"])

		filePath, _ = note["file_path"].(string)
		assert.NotEmpty(t, filePath)
	})

	t.Run("Another user gets 404 for the same note", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodGet, fmt.Sprintf("/api/notes/%d", noteID), bob, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Listing is scoped to the caller", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodGet, "/api/notes?search=math", alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(1), body["total"])

		resp = doJSON(t, fiberApp, http.MethodGet, "/api/notes?search=math", bob, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body = decodeBody(t, resp)
		assert.Equal(t, float64(0), body["total"])
	})

	t.Run("Favorite toggle", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodPatch,
			fmt.Sprintf("/api/notes/%d/favorite", noteID), alice,
			map[string]bool{"favorite": true})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doJSON(t, fiberApp, http.MethodGet, fmt.Sprintf("/api/notes/%d", noteID), alice, nil)
		body := decodeBody(t, resp)
		note := body["note"].(map[string]interface{})
		assert.Equal(t, true, note["favorite"])
	})

	t.Run("Owner downloads the attachment", func(t *testing.T) {
		require.NotEmpty(t, filePath)

		resp := doJSON(t, fiberApp, http.MethodGet, "/files/download?file="+filePath, alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		content, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, attachment, content)
	})

	t.Run("Another user's download is forbidden", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodGet, "/files/download?file="+filePath, bob, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Another user cannot delete the note", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodDelete, fmt.Sprintf("/api/notes/%d", noteID), bob, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Owner deletes the note and its attachment", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodDelete, fmt.Sprintf("/api/notes/%d", noteID), alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doJSON(t, fiberApp, http.MethodGet, fmt.Sprintf("/api/notes/%d", noteID), alice, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp = doJSON(t, fiberApp, http.MethodGet, "/api/notes", alice, nil)
		body := decodeBody(t, resp)
		assert.Equal(t, float64(0), body["total"])

		// The file is gone too
		resp = doJSON(t, fiberApp, http.MethodGet, "/files/download?file="+filePath, alice, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Missing title fails validation", func(t *testing.T) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("content", "body without a title"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/notes", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.AddCookie(&http.Cookie{Name: "session_id", Value: alice})

		resp, err := fiberApp.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGroupEndpoints(t *testing.T) {
	fiberApp, cleanup := setupTestApp(t)
	defer cleanup()

	alice := registerUser(t, fiberApp, "alice")
	bob := registerUser(t, fiberApp, "bob")

	var groupID int64

	t.Run("Create group", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodPost, "/api/groups", alice, map[string]string{
			"group_name":  "Physics Study Group",
			"description": "Thursday evenings",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		group := body["group"].(map[string]interface{})
		groupID = int64(group["id"].(float64))
		assert.Equal(t, true, group["is_admin"])
	})

	t.Run("Group appears as available to others", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodGet, "/api/groups/available", bob, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		groups := body["groups"].([]interface{})
		require.Len(t, groups, 1)
	})

	t.Run("Join and message", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodPost, fmt.Sprintf("/api/groups/%d/join", groupID), bob, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		// Second join conflicts
		resp = doJSON(t, fiberApp, http.MethodPost, fmt.Sprintf("/api/groups/%d/join", groupID), bob, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		resp = doJSON(t, fiberApp, http.MethodPost,
			fmt.Sprintf("/api/groups/%d/messages", groupID), bob,
			map[string]string{"content": "See you Thursday"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = doJSON(t, fiberApp, http.MethodGet,
			fmt.Sprintf("/api/groups/%d/messages", groupID), alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		messages := body["messages"].([]interface{})
		require.Len(t, messages, 1)
		msg := messages[0].(map[string]interface{})
		assert.Equal(t, "See you Thursday", msg["content"])
		assert.Equal(t, "bob", msg["username"])
	})

	t.Run("Outsiders cannot read messages", func(t *testing.T) {
		carol := registerUser(t, fiberApp, "carol")

		resp := doJSON(t, fiberApp, http.MethodGet,
			fmt.Sprintf("/api/groups/%d/messages", groupID), carol, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Only the admin can delete the group", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodDelete, fmt.Sprintf("/api/groups/%d", groupID), bob, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = doJSON(t, fiberApp, http.MethodDelete, fmt.Sprintf("/api/groups/%d", groupID), alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doJSON(t, fiberApp, http.MethodPost, fmt.Sprintf("/api/groups/%d/join", groupID), bob, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestStatsEndpoints(t *testing.T) {
	fiberApp, cleanup := setupTestApp(t)
	defer cleanup()

	alice := registerUser(t, fiberApp, "alice")

	createNote(t, fiberApp, alice, map[string]string{
		"title":    "First",
		"content":  "x",
		"tags":     "math",
		"favorite": "on",
	}, "", nil)
	createNote(t, fiberApp, alice, map[string]string{
		"title":   "Second",
		"content": "y",
		"tags":    "math, exam",
	}, "", nil)

	t.Run("Overview numbers", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodGet, "/api/stats", alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		stats := body["stats"].(map[string]interface{})
		assert.Equal(t, float64(2), stats["total_notes"])
		assert.Equal(t, float64(1), stats["favorite_notes"])
		assert.Equal(t, float64(2), stats["tag_count"])
	})

	t.Run("Recent notes panel", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodGet, "/api/stats/recent", alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		notes := body["notes"].([]interface{})
		assert.Len(t, notes, 2)
	})

	t.Run("Activity buckets", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodGet, "/api/stats/activity", alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		activity := body["activity"].([]interface{})
		require.Len(t, activity, 1)
		bucket := activity[0].(map[string]interface{})
		assert.Equal(t, float64(2), bucket["count"])
	})
}

func TestProfileEndpoints(t *testing.T) {
	fiberApp, cleanup := setupTestApp(t)
	defer cleanup()

	alice := registerUser(t, fiberApp, "alice")

	t.Run("Fresh profile is incomplete", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodGet, "/api/profile/complete", alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, false, body["complete"])
	})

	t.Run("Completion flow", func(t *testing.T) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("bio", "Physics undergrad"))
		require.NoError(t, w.WriteField("phone", "555-0101"))
		require.NoError(t, w.WriteField("address", "12 Campus Way"))
		fw, err := w.CreateFormFile("avatar", "me.png")
		require.NoError(t, err)
		_, err = fw.Write(avatarPNG)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/profile/complete", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.AddCookie(&http.Cookie{Name: "session_id", Value: alice})

		resp, err := fiberApp.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doJSON(t, fiberApp, http.MethodGet, "/api/profile/complete", alice, nil)
		body := decodeBody(t, resp)
		assert.Equal(t, true, body["complete"])
	})

	t.Run("Profile returns the stored fields", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodGet, "/api/profile", alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		profile := body["profile"].(map[string]interface{})
		assert.Equal(t, "Physics undergrad", profile["bio"])
		assert.Equal(t, "12 Campus Way", profile["address"])
	})

	t.Run("Own avatar is downloadable, someone else's is not", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodGet, "/api/profile", alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		profile := decodeBody(t, resp)["profile"].(map[string]interface{})
		avatarPath := profile["profile_image"].(string)
		require.True(t, strings.HasPrefix(avatarPath, "uploads/profile_images/"))

		resp = doJSON(t, fiberApp, http.MethodGet, "/files/download?file="+avatarPath, alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		content, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, avatarPNG, content)

		// Another account cannot fetch it
		bob := registerUser(t, fiberApp, "bob")
		resp = doJSON(t, fiberApp, http.MethodGet, "/files/download?file="+avatarPath, bob, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		// Paths never stored respond not found
		resp = doJSON(t, fiberApp, http.MethodGet, "/files/download?file=uploads/profile_images/ghost.png", alice, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Password change drops other sessions", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodPost, "/api/profile/password", alice, map[string]string{
			"current_password": "password123",
			"new_password":     "password456",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		// Old password no longer works
		resp = doJSON(t, fiberApp, http.MethodPost, "/api/auth/login", "", map[string]string{
			"login":    "alice",
			"password": "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp = doJSON(t, fiberApp, http.MethodPost, "/api/auth/login", "", map[string]string{
			"login":    "alice",
			"password": "password456",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
