// Package queue defines the booking events published to RabbitMQ and the
// consumer that turns them into notification log entries.
package queue

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeBookingCreated   = "booking.created"
	EventTypeBookingCancelled = "booking.cancelled"
)

// BookingEvent carries enough for downstream consumers to notify or run
// analytics without querying the primary database.
type BookingEvent struct {
	Type             string    `json:"type"`
	BookingID        uuid.UUID `json:"booking_id"`
	BookingReference string    `json:"booking_reference"`
	CustomerID       uuid.UUID `json:"customer_id"`
	ShowtimeID       uuid.UUID `json:"showtime_id"`
	MovieTitle       string    `json:"movie_title"`
	StartsAt         time.Time `json:"starts_at"`
	SeatCount        int       `json:"seat_count"`
	TotalAmount      string    `json:"total_amount"`
	OccurredAt       time.Time `json:"occurred_at"`
}
