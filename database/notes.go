package database

import (
	"database/sql"
	"strings"

	"notesphere/models"
)

// NotesPerPage is the fixed page size for note listings.
const NotesPerPage = 15

// ==================== NOTE OPERATIONS ====================

// CreateNote inserts a note and links its tags in one transaction.
// Tags are created on first use; existing names are reused.
func (r *Repository) CreateNote(note *models.Note, tags []string) (int64, error) {
	var noteID int64

	err := r.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO notes (user_id, title, content, subject_id, favorite, file_path, file_size)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, note.UserID, note.Title, note.Content, note.SubjectID,
			boolToInt(note.Favorite), nullString(note.FilePath), note.FileSize)
		if err != nil {
			return err
		}

		noteID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		return linkTags(tx, noteID, tags)
	})
	if err != nil {
		return 0, err
	}

	return noteID, nil
}

// UpdateNote rewrites a note's fields and replaces its tag set atomically.
// Returns sql.ErrNoRows when the note does not exist or is not owned by
// note.UserID.
func (r *Repository) UpdateNote(note *models.Note, tags []string) error {
	return r.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE notes
			SET title = ?, content = ?, subject_id = ?, favorite = ?,
			    file_path = ?, file_size = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND user_id = ?
		`, note.Title, note.Content, note.SubjectID, boolToInt(note.Favorite),
			nullString(note.FilePath), note.FileSize, note.ID, note.UserID)
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return sql.ErrNoRows
		}

		if _, err := tx.Exec(`DELETE FROM note_tags WHERE note_id = ?`, note.ID); err != nil {
			return err
		}

		return linkTags(tx, note.ID, tags)
	})
}

// DeleteNote removes a note and its tag associations. It returns the stored
// attachment path, if any, so the caller can remove the file after the
// transaction has committed. Returns sql.ErrNoRows when the note is not
// owned by userID.
func (r *Repository) DeleteNote(userID, noteID int64) (string, error) {
	var filePath sql.NullString

	err := r.withTx(func(tx *sql.Tx) error {
		err := tx.QueryRow(`
			SELECT file_path FROM notes WHERE id = ? AND user_id = ?
		`, noteID, userID).Scan(&filePath)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM note_tags WHERE note_id = ?`, noteID); err != nil {
			return err
		}

		_, err = tx.Exec(`DELETE FROM notes WHERE id = ? AND user_id = ?`, noteID, userID)
		return err
	})
	if err != nil {
		return "", err
	}

	return filePath.String, nil
}

// SetFavorite updates the favorite flag on a note owned by userID.
// Returns sql.ErrNoRows when the note is not owned.
func (r *Repository) SetFavorite(userID, noteID int64, favorite bool) error {
	res, err := r.db.Exec(`
		UPDATE notes SET favorite = ? WHERE id = ? AND user_id = ?
	`, boolToInt(favorite), noteID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// GetNote retrieves a single note owned by userID, with aggregated tag
// names and subject name. Returns nil when the note is absent or owned by
// someone else.
func (r *Repository) GetNote(userID, noteID int64) (*models.Note, error) {
	row := r.db.QueryRow(`
		SELECT n.id, n.user_id, n.title, n.content, n.subject_id, s.name,
		       n.favorite, n.file_path, n.file_size,
		       GROUP_CONCAT(DISTINCT t.name) AS tags,
		       n.created_at, n.updated_at
		FROM notes n
		LEFT JOIN note_tags nt ON n.id = nt.note_id
		LEFT JOIN tags t ON nt.tag_id = t.id
		LEFT JOIN subjects s ON n.subject_id = s.id
		WHERE n.id = ? AND n.user_id = ?
		GROUP BY n.id
	`, noteID, userID)

	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return note, nil
}

// GetNoteByFilePath looks up the note a stored attachment path belongs to.
// Used by the download endpoint for ownership checks. Returns nil when no
// note references the path.
func (r *Repository) GetNoteByFilePath(filePath string) (*models.Note, error) {
	var note models.Note
	err := r.db.QueryRow(`
		SELECT id, user_id, title FROM notes WHERE file_path = ?
	`, filePath).Scan(&note.ID, &note.UserID, &note.Title)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	note.FilePath = filePath
	return &note, nil
}

// ListNotes returns one page of a user's notes matching the filter, plus the
// total match count computed with an identical second query.
func (r *Repository) ListNotes(userID int64, filter models.NoteFilter) ([]models.Note, int, error) {
	where := " WHERE n.user_id = ?"
	args := []interface{}{userID}

	if filter.Search != "" {
		where += " AND (n.title LIKE ? OR n.content LIKE ? OR t.name LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if filter.SubjectID > 0 {
		where += " AND n.subject_id = ?"
		args = append(args, filter.SubjectID)
	}
	if filter.TagID > 0 {
		where += " AND t.id = ?"
		args = append(args, filter.TagID)
	}

	joins := `
		FROM notes n
		LEFT JOIN note_tags nt ON n.id = nt.note_id
		LEFT JOIN tags t ON nt.tag_id = t.id
		LEFT JOIN subjects s ON n.subject_id = s.id`

	var total int
	countQuery := "SELECT COUNT(DISTINCT n.id)" + joins + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT n.id, n.user_id, n.title, n.content, n.subject_id, s.name,
		       n.favorite, n.file_path, n.file_size,
		       GROUP_CONCAT(DISTINCT t.name) AS tags,
		       n.created_at, n.updated_at` +
		joins + where + " GROUP BY n.id" + orderClause(filter.Sort) + " LIMIT ? OFFSET ?"

	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, NotesPerPage, (page-1)*NotesPerPage)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, 0, err
		}
		notes = append(notes, *note)
	}

	return notes, total, rows.Err()
}

// orderClause maps a sort key to its ORDER BY. Unknown keys fall back to
// newest-first.
func orderClause(sort string) string {
	switch sort {
	case "oldest":
		return " ORDER BY n.created_at ASC"
	case "title":
		return " ORDER BY n.title ASC"
	case "subject":
		return " ORDER BY s.name ASC, n.created_at DESC"
	case "updated":
		return " ORDER BY n.updated_at DESC"
	case "favorite":
		return " ORDER BY n.favorite DESC, n.created_at DESC"
	default: // newest
		return " ORDER BY n.created_at DESC"
	}
}

// ==================== TAGS & SUBJECTS ====================

// linkTags ensures each tag exists and associates it with the note.
// Duplicate names in the input collapse onto the same association row.
func linkTags(tx *sql.Tx, noteID int64, tags []string) error {
	for _, name := range tags {
		tagID, err := ensureTag(tx, name)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO note_tags (note_id, tag_id) VALUES (?, ?)
		`, noteID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// ensureTag creates the tag if missing and returns its id. The insert is a
// no-op on conflict, so concurrent callers converge on one row.
func ensureTag(tx *sql.Tx, name string) (int64, error) {
	if _, err := tx.Exec(`
		INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING
	`, name); err != nil {
		return 0, err
	}

	var id int64
	err := tx.QueryRow(`SELECT id FROM tags WHERE name = ?`, name).Scan(&id)
	return id, err
}

// ListTags returns the tags used by a user's notes with per-tag note counts,
// most used first.
func (r *Repository) ListTags(userID int64) ([]models.Tag, error) {
	rows, err := r.db.Query(`
		SELECT t.id, t.name, COUNT(nt.note_id) AS note_count
		FROM tags t
		JOIN note_tags nt ON t.id = nt.tag_id
		JOIN notes n ON nt.note_id = n.id
		WHERE n.user_id = ?
		GROUP BY t.id
		ORDER BY note_count DESC, t.name ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.NoteCount); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

func (r *Repository) ListSubjects() ([]models.Subject, error) {
	rows, err := r.db.Query(`SELECT id, name FROM subjects ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := make([]models.Subject, 0)
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}

	return subjects, rows.Err()
}

// ==================== SCAN HELPERS ====================

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var note models.Note
	var subjectID sql.NullInt64
	var subjectName, filePath, tagsCSV sql.NullString

	err := row.Scan(
		&note.ID, &note.UserID, &note.Title, &note.Content,
		&subjectID, &subjectName, &note.Favorite, &filePath, &note.FileSize,
		&tagsCSV, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if subjectID.Valid {
		note.SubjectID = &subjectID.Int64
	}
	note.SubjectName = subjectName.String
	note.FilePath = filePath.String

	note.Tags = make([]string, 0)
	if tagsCSV.Valid && tagsCSV.String != "" {
		note.Tags = strings.Split(tagsCSV.String, ",")
	}

	return &note, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
