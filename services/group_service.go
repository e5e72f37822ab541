package services

import (
	"fmt"
	"strings"

	"notesphere/database"
	"notesphere/models"
)

// messagesPageSize bounds how many messages one fetch returns.
const messagesPageSize = 50

// GroupService handles study group membership, administration, and
// messaging.
type GroupService struct {
	repo GroupRepository
}

func NewGroupService(repo GroupRepository) *GroupService {
	return &GroupService{repo: repo}
}

// Create inserts the group and the creator's admin membership atomically.
func (gs *GroupService) Create(userID int64, name, description string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrValidation)
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		CreatedBy:   userID,
	}

	groupID, err := gs.repo.CreateGroup(group)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	group.ID = groupID
	group.MemberCount = 1
	group.IsAdmin = true
	return group, nil
}

// Join adds the user as a regular member. Joining a group twice fails with
// a conflict, backed by the membership uniqueness constraint.
func (gs *GroupService) Join(userID, groupID int64) error {
	exists, err := gs.repo.GroupExists(groupID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !exists {
		return fmt.Errorf("%w: group not found", ErrNotFound)
	}

	if err := gs.repo.AddMember(groupID, userID); err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: already a member of this group", ErrConflict)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return nil
}

// Leave removes the user's membership. Leaving a group the user never
// joined is a no-op.
func (gs *GroupService) Leave(userID, groupID int64) error {
	if err := gs.repo.RemoveMember(groupID, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Delete removes a group with all its messages and memberships. Only a
// member holding the admin flag may delete; everyone else gets forbidden
// and the group is left untouched.
func (gs *GroupService) Delete(userID, groupID int64) error {
	isAdmin, err := gs.repo.IsAdmin(groupID, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !isAdmin {
		return fmt.Errorf("%w: only group admins can delete groups", ErrForbidden)
	}

	if err := gs.repo.DeleteGroup(groupID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return nil
}

// MyGroups lists the user's groups with member/message counts and the
// caller's admin flag.
func (gs *GroupService) MyGroups(userID int64) ([]models.Group, error) {
	groups, err := gs.repo.GetMyGroups(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return groups, nil
}

// AvailableGroups lists groups the user has not joined.
func (gs *GroupService) AvailableGroups(userID int64) ([]models.Group, error) {
	groups, err := gs.repo.GetAvailableGroups(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return groups, nil
}

// PostMessage appends a message to a group the user belongs to.
func (gs *GroupService) PostMessage(userID, groupID int64, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrValidation)
	}

	member, err := gs.repo.IsMember(groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !member {
		return nil, fmt.Errorf("%w: not a member of this group", ErrForbidden)
	}

	msg := &models.Message{
		GroupID: groupID,
		UserID:  userID,
		Content: content,
	}

	msgID, err := gs.repo.InsertMessage(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msg.ID = msgID
	return msg, nil
}

// Messages returns the latest messages of a group the user belongs to, in
// chronological order.
func (gs *GroupService) Messages(userID, groupID int64) ([]models.Message, error) {
	member, err := gs.repo.IsMember(groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !member {
		return nil, fmt.Errorf("%w: not a member of this group", ErrForbidden)
	}

	messages, err := gs.repo.GetMessages(groupID, messagesPageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return messages, nil
}
