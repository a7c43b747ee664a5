package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Showtime carries its remaining capacity as a stored counter; bookings
// decrement it under a row lock so it never drops below zero.
type Showtime struct {
	Base
	MovieID        uuid.UUID       `db:"movie_id"`
	StartsAt       time.Time       `db:"starts_at"`
	TheaterName    string          `db:"theater_name"`
	ScreenNumber   int             `db:"screen_number"`
	TotalSeats     int             `db:"total_seats"`
	AvailableSeats int             `db:"available_seats"`
	TicketPrice    decimal.Decimal `db:"ticket_price"`
}
