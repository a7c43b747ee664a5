package repository

import (
	"lumo-api/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Customer     CustomerRepository
	RefreshToken RefreshTokenRepository
	Movie        MovieRepository
	Genre        GenreRepository
	MovieGenre   MovieGenreRepository
	Showtime     ShowtimeRepository
	Booking      BookingRepository
	Payment      PaymentRepository
	ChatMessage  ChatMessageRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Customer:     NewCustomerRepository(db, log),
		RefreshToken: NewRefreshTokenRepository(db, log),
		Movie:        NewMovieRepository(db, log),
		Genre:        NewGenreRepository(db, log),
		MovieGenre:   NewMovieGenreRepository(db, log),
		Showtime:     NewShowtimeRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Payment:      NewPaymentRepository(db, log),
		ChatMessage:  NewChatMessageRepository(db, log),
	}
}
