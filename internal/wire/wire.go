package wire

import (
	"net/http"

	"lumo-api/internal/adaptor"
	"lumo-api/internal/data/repository"
	"lumo-api/internal/queue"
	"lumo-api/internal/usecase"
	"lumo-api/pkg/chat"
	"lumo-api/pkg/database"
	"lumo-api/pkg/metrics"
	"lumo-api/pkg/middleware"
	"lumo-api/pkg/token"
	"lumo-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring builds the service layer, the handlers, and the routed application.
func Wiring(
	repo *repository.Repository,
	db database.TxBeginner,
	tokens *token.Manager,
	relay chat.Completer,
	publisher *queue.Publisher,
	cache *redis.Client,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, db, tokens, relay, publisher, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, tokens, cache, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	tokens *token.Manager,
	cache *redis.Client,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(metrics.HTTP)

	// Apply routes
	wireAuth(r, handler.Auth, logger)
	wireProfile(r, handler.Profile, tokens, logger)
	wireMovie(r, handler.Movie, repo, tokens, cache, config, logger)
	wireShowtime(r, handler.Showtime, repo, tokens, cache, config, logger)
	wireBooking(r, handler.Booking, tokens, logger)
	wirePayment(r, handler.Payment, tokens, logger)
	wireChat(r, handler.Chat, tokens, cache, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
