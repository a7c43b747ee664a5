package response

import (
	"time"

	"lumo-api/internal/data/entity"
)

type ChatMessageResponse struct {
	ID        string          `json:"id"`
	Role      entity.ChatRole `json:"role"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
}

type ChatReplyResponse struct {
	Message ChatMessageResponse `json:"message"`
	Reply   ChatMessageResponse `json:"reply"`
}

// Helper converters
func ChatMessageToResponse(msg *entity.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        msg.ID.String(),
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

func ChatMessagesToResponse(msgs []*entity.ChatMessage) []ChatMessageResponse {
	out := make([]ChatMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ChatMessageToResponse(m))
	}
	return out
}
