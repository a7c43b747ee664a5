package wire

import (
	"lumo-api/internal/adaptor"
	"lumo-api/pkg/middleware"
	"lumo-api/pkg/token"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireProfile(
	r chi.Router,
	profileHandler *adaptor.ProfileHandler,
	tokens *token.Manager,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))

		r.Get("/api/v1/profile", profileHandler.GetProfile)
		r.Put("/api/v1/profile", profileHandler.UpdateProfile)
	})
}
