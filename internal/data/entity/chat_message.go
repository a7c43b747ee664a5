package entity

import (
	"github.com/google/uuid"
)

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	BaseSimple
	UserID  uuid.UUID `db:"user_id"`
	Role    ChatRole  `db:"role"`
	Content string    `db:"content"`
}
