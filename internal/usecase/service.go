package usecase

import (
	"lumo-api/internal/data/repository"
	"lumo-api/internal/loyalty"
	"lumo-api/internal/queue"
	"lumo-api/pkg/chat"
	"lumo-api/pkg/database"
	"lumo-api/pkg/token"
	"lumo-api/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	Profile  ProfileService
	Movie    MovieService
	Showtime ShowtimeService
	Booking  BookingService
	Payment  PaymentService
	Chat     ChatService
}

func NewService(
	repo *repository.Repository,
	db database.TxBeginner,
	tokens *token.Manager,
	relay chat.Completer,
	publisher *queue.Publisher,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	policy := loyalty.DefaultPolicy()

	return &Service{
		Auth:     NewAuthService(repo, tokens, log),
		Profile:  NewProfileService(repo, log),
		Movie:    NewMovieService(repo, log),
		Showtime: NewShowtimeService(repo, db, log),
		Booking:  NewBookingService(repo, db, policy, publisher, log),
		Payment:  NewPaymentService(repo, db, policy, log),
		Chat:     NewChatService(repo, relay, config, log),
	}
}
