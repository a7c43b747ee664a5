package wire

import (
	"lumo-api/internal/adaptor"
	"lumo-api/pkg/middleware"
	"lumo-api/pkg/token"
	"lumo-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func wireChat(
	r chi.Router,
	chatHandler *adaptor.ChatHandler,
	tokens *token.Manager,
	cache *redis.Client,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	// Relayed completions cost real money, so sends are rate limited per user.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))

		r.With(middleware.RateLimit(cache, config.Chat.RatePerMinute, log)).
			Post("/api/v1/chat", chatHandler.SendMessage)
		r.Get("/api/v1/chat/history", chatHandler.GetChatHistory)
	})
}
