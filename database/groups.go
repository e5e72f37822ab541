package database

import (
	"database/sql"

	"notesphere/models"
)

// ==================== GROUP OPERATIONS ====================

// CreateGroup inserts a group and its creator's admin membership atomically.
func (r *Repository) CreateGroup(group *models.Group) (int64, error) {
	var groupID int64

	err := r.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO groups (name, description, created_by) VALUES (?, ?, ?)
		`, group.Name, group.Description, group.CreatedBy)
		if err != nil {
			return err
		}

		groupID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO group_members (group_id, user_id, is_admin) VALUES (?, ?, 1)
		`, groupID, group.CreatedBy)
		return err
	})
	if err != nil {
		return 0, err
	}

	return groupID, nil
}

func (r *Repository) GroupExists(groupID int64) (bool, error) {
	var one int
	err := r.db.QueryRow(`SELECT 1 FROM groups WHERE id = ?`, groupID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddMember inserts a non-admin membership. The unique constraint on
// (group_id, user_id) rejects duplicate joins.
func (r *Repository) AddMember(groupID, userID int64) error {
	_, err := r.db.Exec(`
		INSERT INTO group_members (group_id, user_id) VALUES (?, ?)
	`, groupID, userID)
	return err
}

// RemoveMember deletes a membership row. Removing a non-member is a no-op.
func (r *Repository) RemoveMember(groupID, userID int64) error {
	_, err := r.db.Exec(`
		DELETE FROM group_members WHERE group_id = ? AND user_id = ?
	`, groupID, userID)
	return err
}

// IsMember reports whether the user has a membership row in the group.
func (r *Repository) IsMember(groupID, userID int64) (bool, error) {
	var one int
	err := r.db.QueryRow(`
		SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?
	`, groupID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsAdmin reports whether the user's membership row carries the admin flag.
// Non-members are not admins.
func (r *Repository) IsAdmin(groupID, userID int64) (bool, error) {
	var isAdmin bool
	err := r.db.QueryRow(`
		SELECT is_admin FROM group_members WHERE group_id = ? AND user_id = ?
	`, groupID, userID).Scan(&isAdmin)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return isAdmin, nil
}

// DeleteGroup removes the group's messages, memberships, and the group row
// itself, in that order, in one transaction.
func (r *Repository) DeleteGroup(groupID int64) error {
	return r.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM messages WHERE group_id = ?`, groupID); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM group_members WHERE group_id = ?`, groupID); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM groups WHERE id = ?`, groupID)
		return err
	})
}

// GetMyGroups lists the groups the user belongs to, newest first, with
// member and message counts and the caller's admin flag.
func (r *Repository) GetMyGroups(userID int64) ([]models.Group, error) {
	rows, err := r.db.Query(`
		SELECT g.id, g.name, g.description, g.created_by, g.created_at,
		       (SELECT COUNT(*) FROM group_members m WHERE m.group_id = g.id) AS member_count,
		       (SELECT COUNT(*) FROM messages msg WHERE msg.group_id = g.id) AS message_count,
		       gm.is_admin
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = ?
		ORDER BY g.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]models.Group, 0)
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt,
			&g.MemberCount, &g.MessageCount, &g.IsAdmin); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

// GetAvailableGroups lists groups the user has not joined, newest first,
// with member counts.
func (r *Repository) GetAvailableGroups(userID int64) ([]models.Group, error) {
	rows, err := r.db.Query(`
		SELECT g.id, g.name, g.description, g.created_by, g.created_at,
		       (SELECT COUNT(*) FROM group_members m WHERE m.group_id = g.id) AS member_count
		FROM groups g
		WHERE g.id NOT IN (
			SELECT gm.group_id FROM group_members gm WHERE gm.user_id = ?
		)
		ORDER BY g.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]models.Group, 0)
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy,
			&g.CreatedAt, &g.MemberCount); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

// ==================== MESSAGES ====================

func (r *Repository) InsertMessage(msg *models.Message) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO messages (group_id, user_id, content) VALUES (?, ?, ?)
	`, msg.GroupID, msg.UserID, msg.Content)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetMessages returns the latest messages of a group in chronological order.
func (r *Repository) GetMessages(groupID int64, limit int) ([]models.Message, error) {
	rows, err := r.db.Query(`
		SELECT m.id, m.group_id, m.user_id, u.username, m.content, m.created_at
		FROM (
			SELECT id, group_id, user_id, content, created_at
			FROM messages
			WHERE group_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		) m
		JOIN users u ON m.user_id = u.id
		ORDER BY m.created_at ASC, m.id ASC
	`, groupID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Username,
			&m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
