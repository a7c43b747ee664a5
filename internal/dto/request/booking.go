package request

type CreateBookingRequest struct {
	ShowtimeID        string   `json:"showtime_id" validate:"required,uuid4"`
	SeatCount         int      `json:"seat_count" validate:"required,min=1,max=10"`
	SeatNumbers       []string `json:"seat_numbers,omitempty" validate:"omitempty,dive,min=1,max=10"`
	LoyaltyPointsUsed int      `json:"loyalty_points_to_use" validate:"min=0"`
	SpecialRequests   *string  `json:"special_requests,omitempty" validate:"omitempty,max=500"`
}

type CreatePaymentRequest struct {
	BookingID     string `json:"booking_id" validate:"required,uuid4"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=credit_card debit_card paypal apple_pay google_pay"`
}
