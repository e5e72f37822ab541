package models

import "time"

type Note struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	SubjectID   *int64    `json:"subject_id,omitempty"`
	SubjectName string    `json:"subject_name,omitempty"`
	Favorite    bool      `json:"favorite"`
	FilePath    string    `json:"file_path,omitempty"`
	FileSize    int64     `json:"file_size,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Subject struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Tag struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	NoteCount int    `json:"note_count"`
}

// NoteInput carries the form fields shared by note create and update.
type NoteInput struct {
	Title     string `json:"title" form:"title" validate:"required,max=200"`
	Content   string `json:"content" form:"content" validate:"required"`
	SubjectID *int64 `json:"subject_id" form:"subject_id"`
	Tags      string `json:"tags" form:"tags" validate:"tagscsv"`
	Favorite  bool   `json:"favorite" form:"favorite"`
}

// NoteFilter selects and orders a page of a user's notes.
// Sort is one of: newest, oldest, title, subject, updated, favorite.
type NoteFilter struct {
	Search    string
	SubjectID int64
	TagID     int64
	Sort      string
	Page      int
}

type NotePage struct {
	Notes      []Note `json:"notes"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	TotalPages int    `json:"total_pages"`
}
