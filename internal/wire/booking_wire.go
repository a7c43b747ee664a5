package wire

import (
	"lumo-api/internal/adaptor"
	"lumo-api/pkg/middleware"
	"lumo-api/pkg/token"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	tokens *token.Manager,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	// Customers only ever see their own bookings; ownership is enforced
	// in the service, not the route.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))

		r.Post("/api/v1/bookings", bookingHandler.CreateBooking)
		r.Get("/api/v1/bookings", bookingHandler.GetUserBookings)
		r.Get("/api/v1/bookings/{id}", bookingHandler.GetBookingByID)
		r.Post("/api/v1/bookings/{id}/cancel", bookingHandler.CancelBooking)
	})
}
