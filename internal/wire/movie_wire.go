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

func wireMovie(
	r chi.Router,
	movieHandler *adaptor.MovieHandler,
	repo *repository.Repository,
	tokens *token.Manager,
	cache *redis.Client,
	config *utils.Config,
	log *zap.Logger,
) {
	cacheTTL := time.Duration(config.Redis.CacheTTL) * time.Second

	// ==================== PUBLIC ROUTES ====================
	// Catalog reads are cached; the TTL bounds how stale a listing can get.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Cache(cache, cacheTTL, log))

		r.Get("/api/v1/movies", movieHandler.GetMovies)
		r.Get("/api/v1/movies/{id}", movieHandler.GetMovieByID)
		r.Get("/api/v1/genres", movieHandler.GetGenres)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/v1/admin/movies", func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/", movieHandler.CreateMovie)
		r.Put("/{id}", movieHandler.UpdateMovie)
		r.Delete("/{id}", movieHandler.DeactivateMovie)
	})

	r.Route("/api/v1/admin/genres", func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/", movieHandler.CreateGenre)
	})
}
