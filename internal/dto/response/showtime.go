package response

import (
	"time"

	"github.com/shopspring/decimal"

	"lumo-api/internal/data/entity"
)

type ShowtimeResponse struct {
	ID             string          `json:"id"`
	MovieID        string          `json:"movie_id"`
	MovieTitle     string          `json:"movie_title,omitempty"`
	StartsAt       time.Time       `json:"starts_at"`
	TheaterName    string          `json:"theater_name"`
	ScreenNumber   int             `json:"screen_number"`
	TotalSeats     int             `json:"total_seats"`
	AvailableSeats int             `json:"available_seats"`
	TicketPrice    decimal.Decimal `json:"ticket_price"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Helper converter
func ShowtimeToResponse(showtime *entity.Showtime, movie *entity.Movie) ShowtimeResponse {
	resp := ShowtimeResponse{
		ID:             showtime.ID.String(),
		MovieID:        showtime.MovieID.String(),
		StartsAt:       showtime.StartsAt,
		TheaterName:    showtime.TheaterName,
		ScreenNumber:   showtime.ScreenNumber,
		TotalSeats:     showtime.TotalSeats,
		AvailableSeats: showtime.AvailableSeats,
		TicketPrice:    showtime.TicketPrice,
		CreatedAt:      showtime.CreatedAt,
	}

	if movie != nil {
		resp.MovieTitle = movie.Title
	}

	return resp
}
