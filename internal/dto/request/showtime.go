package request

type ShowtimeRequest struct {
	MovieID      string `json:"movie_id" validate:"required,uuid4"`
	StartsAt     string `json:"starts_at" validate:"required"`
	TheaterName  string `json:"theater_name" validate:"required,min=1,max=100"`
	ScreenNumber int    `json:"screen_number" validate:"required,min=1,max=99"`
	TotalSeats   int    `json:"total_seats" validate:"required,min=1,max=500"`
	TicketPrice  string `json:"ticket_price" validate:"required,numeric"`
}

type ShowtimeUpdateRequest struct {
	StartsAt     *string `json:"starts_at,omitempty"`
	TheaterName  *string `json:"theater_name,omitempty" validate:"omitempty,min=1,max=100"`
	ScreenNumber *int    `json:"screen_number,omitempty" validate:"omitempty,min=1,max=99"`
	TotalSeats   *int    `json:"total_seats,omitempty" validate:"omitempty,min=1,max=500"`
	TicketPrice  *string `json:"ticket_price,omitempty" validate:"omitempty,numeric"`
}
