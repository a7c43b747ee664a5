package response

import (
	"time"

	"github.com/shopspring/decimal"

	"lumo-api/internal/data/entity"
)

type BookingResponse struct {
	ID                string               `json:"id"`
	BookingReference  string               `json:"booking_reference"`
	ShowtimeID        string               `json:"showtime_id"`
	MovieTitle        string               `json:"movie_title,omitempty"`
	TheaterName       string               `json:"theater_name,omitempty"`
	StartsAt          *time.Time           `json:"starts_at,omitempty"`
	SeatCount         int                  `json:"seat_count"`
	SeatNumbers       []string             `json:"seat_numbers,omitempty"`
	BasePricePerSeat  decimal.Decimal      `json:"base_price_per_seat"`
	DiscountAmount    decimal.Decimal      `json:"discount_amount"`
	TotalAmount       decimal.Decimal      `json:"total_amount"`
	LoyaltyPointsUsed int                  `json:"loyalty_points_used"`
	Status            entity.BookingStatus `json:"status"`
	SpecialRequests   *string              `json:"special_requests,omitempty"`
	CancelledAt       *time.Time           `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

type PaymentResponse struct {
	ID            string               `json:"id"`
	BookingID     string               `json:"booking_id"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod entity.PaymentMethod `json:"payment_method"`
	Status        entity.PaymentStatus `json:"status"`
	TransactionID string               `json:"transaction_id"`
	ProcessedAt   *time.Time           `json:"processed_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

type CreatePaymentResponse struct {
	PaymentResponse
	LoyaltyPointsEarned int `json:"loyalty_points_earned"`
}

// Helper converters
func BookingToResponse(booking *entity.Booking, showtime *entity.Showtime, movie *entity.Movie) BookingResponse {
	resp := BookingResponse{
		ID:                booking.ID.String(),
		BookingReference:  booking.BookingReference,
		ShowtimeID:        booking.ShowtimeID.String(),
		SeatCount:         booking.SeatCount,
		SeatNumbers:       booking.SeatNumbers,
		BasePricePerSeat:  booking.BasePricePerSeat,
		DiscountAmount:    booking.DiscountAmount,
		TotalAmount:       booking.TotalAmount,
		LoyaltyPointsUsed: booking.LoyaltyPointsUsed,
		Status:            booking.Status,
		SpecialRequests:   booking.SpecialRequests,
		CancelledAt:       booking.CancelledAt,
		CreatedAt:         booking.CreatedAt,
	}

	if showtime != nil {
		resp.TheaterName = showtime.TheaterName
		startsAt := showtime.StartsAt
		resp.StartsAt = &startsAt
	}
	if movie != nil {
		resp.MovieTitle = movie.Title
	}

	return resp
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            payment.ID.String(),
		BookingID:     payment.BookingID.String(),
		Amount:        payment.Amount,
		PaymentMethod: payment.Method,
		Status:        payment.Status,
		TransactionID: payment.TransactionID,
		ProcessedAt:   payment.ProcessedAt,
		CreatedAt:     payment.CreatedAt,
	}
}
