package models

import "time"

type Group struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CreatedBy    int64     `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	MemberCount  int       `json:"member_count"`
	MessageCount int       `json:"message_count,omitempty"`
	IsAdmin      bool      `json:"is_admin"`
}

type Message struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateGroupRequest struct {
	Name        string `json:"group_name" form:"group_name" validate:"required,min=3,max=100"`
	Description string `json:"description" form:"description" validate:"max=500"`
}

type PostMessageRequest struct {
	Content string `json:"content" form:"content" validate:"required,max=2000"`
}
