package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// MaxSeatsPerBooking caps a single reservation.
const MaxSeatsPerBooking = 10

// CancellationWindow is how long before the showtime starts a booking
// can still be cancelled.
const CancellationWindow = 2 * time.Hour

type Booking struct {
	Base
	BookingReference  string          `db:"booking_reference"`
	CustomerID        uuid.UUID       `db:"customer_id"`
	ShowtimeID        uuid.UUID       `db:"showtime_id"`
	SeatCount         int             `db:"seat_count"`
	SeatNumbers       []string        `db:"seat_numbers"`
	BasePricePerSeat  decimal.Decimal `db:"base_price_per_seat"`
	DiscountAmount    decimal.Decimal `db:"discount_amount"`
	TotalAmount       decimal.Decimal `db:"total_amount"`
	LoyaltyPointsUsed int             `db:"loyalty_points_used"`
	Status            BookingStatus   `db:"status"`
	SpecialRequests   *string         `db:"special_requests"`
	CancelledAt       *time.Time      `db:"cancelled_at"`
}
