package database

import "notesphere/models"

// ==================== DASHBOARD STATS ====================

// GetStats aggregates the dashboard card numbers for one user.
func (r *Repository) GetStats(userID int64) (*models.Stats, error) {
	var stats models.Stats

	err := r.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM notes WHERE user_id = ?),
			(SELECT COUNT(*) FROM notes WHERE user_id = ? AND favorite = 1),
			(SELECT COUNT(DISTINCT nt.tag_id)
			 FROM note_tags nt JOIN notes n ON nt.note_id = n.id
			 WHERE n.user_id = ?),
			(SELECT COUNT(*) FROM group_members WHERE user_id = ?),
			(SELECT COALESCE(SUM(file_size), 0) FROM notes WHERE user_id = ?)
	`, userID, userID, userID, userID, userID).Scan(
		&stats.TotalNotes, &stats.FavoriteNotes, &stats.TagCount,
		&stats.GroupCount, &stats.StorageBytes,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// RecentNotes returns the user's most recently updated notes for the
// dashboard panel. Content is omitted from the rows.
func (r *Repository) RecentNotes(userID int64, limit int) ([]models.Note, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, title, favorite, created_at, updated_at
		FROM notes
		WHERE user_id = ?
		ORDER BY updated_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.UserID, &note.Title,
			&note.Favorite, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, err
		}
		note.Tags = make([]string, 0)
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// NotesPerMonth buckets the user's note creation by YYYY-MM, most recent
// months first.
func (r *Repository) NotesPerMonth(userID int64, months int) ([]models.MonthCount, error) {
	rows, err := r.db.Query(`
		SELECT strftime('%Y-%m', created_at) AS month, COUNT(*) AS count
		FROM notes
		WHERE user_id = ?
		GROUP BY month
		ORDER BY month DESC
		LIMIT ?
	`, userID, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.MonthCount, 0)
	for rows.Next() {
		var mc models.MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, mc)
	}

	return counts, rows.Err()
}
