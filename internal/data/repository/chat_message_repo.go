package repository

import (
	"context"
	"fmt"

	"lumo-api/internal/data/entity"
	"lumo-api/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindRecentByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.ChatMessage, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.ChatMessage, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

type chatMessageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewChatMessageRepository(db database.PgxIface, log *zap.Logger) ChatMessageRepository {
	return &chatMessageRepository{
		db:  db,
		log: log.With(zap.String("repository", "chat_message")),
	}
}

func (r *chatMessageRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, user_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		message.ID,
		message.UserID,
		message.Role,
		message.Content,
		message.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create chat message",
			zap.Error(err),
			zap.String("user_id", message.UserID.String()),
		)
		return fmt.Errorf("create chat message: %w", err)
	}

	return nil
}

// FindRecentByUserID returns the newest messages in chronological order,
// ready to be replayed as conversation context.
func (r *chatMessageRepository) FindRecentByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.ChatMessage, error) {
	query := `
		SELECT id, user_id, role, content, created_at
		FROM (
			SELECT id, user_id, role, content, created_at
			FROM chat_messages
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		r.log.Error("Failed to find recent chat messages",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find recent chat messages for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var messages []*entity.ChatMessage
	for rows.Next() {
		var message entity.ChatMessage
		err := rows.Scan(
			&message.ID,
			&message.UserID,
			&message.Role,
			&message.Content,
			&message.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan chat message row", zap.Error(err))
			return nil, fmt.Errorf("scan chat message row: %w", err)
		}
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *chatMessageRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.ChatMessage, error) {
	query := `
		SELECT id, user_id, role, content, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find chat messages",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find chat messages for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var messages []*entity.ChatMessage
	for rows.Next() {
		var message entity.ChatMessage
		err := rows.Scan(
			&message.ID,
			&message.UserID,
			&message.Role,
			&message.Content,
			&message.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan chat message row", zap.Error(err))
			return nil, fmt.Errorf("scan chat message row: %w", err)
		}
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *chatMessageRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM chat_messages WHERE user_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count chat messages",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count chat messages for user %s: %w", userID.String(), err)
	}

	return count, nil
}
