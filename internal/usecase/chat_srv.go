package usecase

import (
	"context"
	"errors"
	"time"

	"lumo-api/internal/data/entity"
	"lumo-api/internal/data/repository"
	"lumo-api/internal/dto/request"
	"lumo-api/internal/dto/response"
	"lumo-api/pkg/apperror"
	"lumo-api/pkg/chat"
	"lumo-api/pkg/metrics"
	"lumo-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// systemPrompt anchors every conversation to the cinema domain.
const systemPrompt = "You are a helpful assistant for Lumo Cinema. " +
	"You can help users with movie recommendations, cinema information, " +
	"booking assistance, and general cinema-related questions. " +
	"Be friendly and informative."

type ChatService interface {
	SendMessage(ctx context.Context, userID uuid.UUID, req *request.ChatRequest) (*response.ChatReplyResponse, error)
	GetChatHistory(ctx context.Context, userID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ChatMessageResponse], error)
}

type chatService struct {
	repo         *repository.Repository
	relay        chat.Completer
	historyLimit int
	timeout      time.Duration
	log          *zap.Logger
}

func NewChatService(
	repo *repository.Repository,
	relay chat.Completer,
	config *utils.Config,
	log *zap.Logger,
) ChatService {
	return &chatService{
		repo:         repo,
		relay:        relay,
		historyLimit: config.Chat.HistoryLimit,
		timeout:      time.Duration(config.Chat.TimeoutSeconds) * time.Second,
		log:          log.With(zap.String("service", "chat")),
	}
}

func (s *chatService) SendMessage(ctx context.Context, userID uuid.UUID, req *request.ChatRequest) (*response.ChatReplyResponse, error) {
	// 1. Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Chat message validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(apperror.CodeInvalidRequest, utils.FormatValidationErrors(errs))
	}

	// 2. Load prior messages before the new one is stored, so the
	// context window never contains the message being answered twice.
	history, err := s.repo.ChatMessage.FindRecentByUserID(ctx, userID, s.historyLimit)
	if err != nil {
		s.log.Warn("Failed to load chat history, continuing without it",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		history = nil
	}

	// 3. Persist the user message
	userMsg := &entity.ChatMessage{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:  userID,
		Role:    entity.ChatRoleUser,
		Content: req.Message,
	}
	if err := s.repo.ChatMessage.Create(ctx, userMsg); err != nil {
		return nil, apperror.Internal(err)
	}

	// 4. Relay to the model with the system prompt and replayed history
	messages := make([]chat.Message, 0, len(history)+2)
	messages = append(messages, chat.Message{Role: chat.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, chat.Message{Role: relayRole(m.Role), Content: m.Content})
	}
	messages = append(messages, chat.Message{Role: chat.RoleUser, Content: req.Message})

	relayCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.relay.Complete(relayCtx, messages)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.ChatRequests.WithLabelValues("timeout").Inc()
			s.log.Warn("Chat relay timed out", zap.String("user_id", userID.String()))
			return nil, apperror.UpstreamTimeout(err, apperror.CodeChatTimeout,
				"AI service took too long to respond. Please try again later.")
		}
		metrics.ChatRequests.WithLabelValues("upstream_error").Inc()
		s.log.Error("Chat relay failed", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.UpstreamFailure(err, apperror.CodeChatUnavailable,
			"AI service temporarily unavailable. Please try again later.")
	}

	metrics.ChatRequests.WithLabelValues("ok").Inc()

	// 5. Persist the reply. The answer is already generated, so a failed
	// insert costs a history row, not the response.
	assistantMsg := &entity.ChatMessage{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:  userID,
		Role:    entity.ChatRoleAssistant,
		Content: reply,
	}
	if err := s.repo.ChatMessage.Create(ctx, assistantMsg); err != nil {
		s.log.Error("Failed to persist assistant reply",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
	}

	s.log.Info("Chat message answered",
		zap.String("user_id", userID.String()),
		zap.Int("history_messages", len(history)),
		zap.Int("reply_length", len(reply)),
	)

	return &response.ChatReplyResponse{
		Message: response.ChatMessageToResponse(userMsg),
		Reply:   response.ChatMessageToResponse(assistantMsg),
	}, nil
}

func (s *chatService) GetChatHistory(ctx context.Context, userID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ChatMessageResponse], error) {
	messages, err := s.repo.ChatMessage.FindByUserID(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to get chat history",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, apperror.Internal(err)
	}

	total, err := s.repo.ChatMessage.CountByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count chat messages", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	return response.NewPaginatedResponse(response.ChatMessagesToResponse(messages), page.Page, page.PerPage, total), nil
}

// ==================== HELPER METHODS ====================

// relayRole maps a stored role onto the relay's wire role.
func relayRole(role entity.ChatRole) string {
	if role == entity.ChatRoleAssistant {
		return chat.RoleAssistant
	}
	return chat.RoleUser
}
