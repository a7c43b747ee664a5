package wire

import (
	"time"

	"lumo-api/internal/adaptor"
	"lumo-api/internal/data/repository"
	"lumo-api/pkg/middleware"
	"lumo-api/pkg/token"
	"lumo-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func wireShowtime(
	r chi.Router,
	showtimeHandler *adaptor.ShowtimeHandler,
	repo *repository.Repository,
	tokens *token.Manager,
	cache *redis.Client,
	config *utils.Config,
	log *zap.Logger,
) {
	cacheTTL := time.Duration(config.Redis.CacheTTL) * time.Second

	// ==================== PUBLIC ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Cache(cache, cacheTTL, log))

		r.Get("/api/v1/showtimes", showtimeHandler.GetShowtimes)
		r.Get("/api/v1/showtimes/{id}", showtimeHandler.GetShowtimeByID)
		r.Get("/api/v1/movies/{id}/showtimes", showtimeHandler.GetShowtimesForMovie)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/v1/admin/showtimes", func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/", showtimeHandler.CreateShowtime)
		r.Put("/{id}", showtimeHandler.UpdateShowtime)
	})
}
