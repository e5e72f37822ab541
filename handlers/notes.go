package handlers

import (
	"mime/multipart"
	"strconv"

	"notesphere/app"
	"notesphere/middleware"
	"notesphere/models"

	"github.com/gofiber/fiber/v2"
)

// noteInputFromForm reads the note form fields. Favorite is a checkbox, so
// presence means true. The file field is optional; a missing part is not an
// error.
func noteInputFromForm(c *fiber.Ctx) (models.NoteInput, *multipart.FileHeader) {
	input := models.NoteInput{
		Title:    c.FormValue("title"),
		Content:  c.FormValue("content"),
		Tags:     c.FormValue("tags"),
		Favorite: c.FormValue("favorite") != "",
	}

	if raw := c.FormValue("subject_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			input.SubjectID = &id
		}
	}

	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	return input, file
}

// CreateNote stores a new note with tags and an optional attachment.
func CreateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, file := noteInputFromForm(c)
		if err := a.Validator.Validate(input); err != nil {
			return respondError(c, err)
		}

		note, err := a.Notes.Create(middleware.GetUserID(c), input, file)
		if err != nil {
			return respondError(c, err)
		}

		return created(c, "Note created successfully", fiber.Map{"note": note})
	}
}

// UpdateNote rewrites a note's fields, tag set, and attachment.
func UpdateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		noteID, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "Note ID is required")
		}

		input, file := noteInputFromForm(c)
		if err := a.Validator.Validate(input); err != nil {
			return respondError(c, err)
		}

		removeFile := c.FormValue("remove_file") == "1"

		note, err := a.Notes.Update(middleware.GetUserID(c), int64(noteID), input, file, removeFile)
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "Note updated successfully", fiber.Map{"note": note})
	}
}

func DeleteNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		noteID, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "Note ID is required")
		}

		if err := a.Notes.Delete(middleware.GetUserID(c), int64(noteID)); err != nil {
			return respondError(c, err)
		}

		return success(c, "Note deleted successfully", nil)
	}
}

// ToggleFavorite sets the favorite flag from a JSON body.
func ToggleFavorite(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		noteID, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "Note ID is required")
		}

		var req struct {
			Favorite *bool `json:"favorite"`
		}
		if err := c.BodyParser(&req); err != nil || req.Favorite == nil {
			return badRequest(c, "Invalid input")
		}

		if err := a.Notes.SetFavorite(middleware.GetUserID(c), int64(noteID), *req.Favorite); err != nil {
			return respondError(c, err)
		}

		return success(c, "Favorite status updated", nil)
	}
}

func GetNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		noteID, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "Note ID is required")
		}

		note, err := a.Notes.Get(middleware.GetUserID(c), int64(noteID))
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "", fiber.Map{"note": note})
	}
}

// ListNotes returns one page of the user's notes with filters and sorting.
func ListNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := models.NoteFilter{
			Search:    c.Query("search"),
			SubjectID: int64(c.QueryInt("subject", 0)),
			TagID:     int64(c.QueryInt("tag", 0)),
			Sort:      c.Query("sort", "newest"),
			Page:      c.QueryInt("page", 1),
		}

		page, err := a.Notes.List(middleware.GetUserID(c), filter)
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "", fiber.Map{
			"notes":       page.Notes,
			"total":       page.Total,
			"page":        page.Page,
			"per_page":    page.PerPage,
			"total_pages": page.TotalPages,
		})
	}
}

// ListSubjects feeds the subject filter dropdown.
func ListSubjects(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subjects, err := a.Notes.Subjects()
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "", fiber.Map{"subjects": subjects})
	}
}

// ListTags returns the user's tags with note counts.
func ListTags(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tags, err := a.Notes.Tags(middleware.GetUserID(c))
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "", fiber.Map{"tags": tags})
	}
}
