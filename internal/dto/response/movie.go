package response

import (
	"time"

	"lumo-api/internal/data/entity"
)

type MovieResponse struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     *string         `json:"description,omitempty"`
	DurationMinutes int             `json:"duration_minutes"`
	ReleaseDate     string          `json:"release_date"`
	Rating          *string         `json:"rating,omitempty"`
	PosterURL       *string         `json:"poster_url,omitempty"`
	TrailerURL      *string         `json:"trailer_url,omitempty"`
	Genres          []GenreResponse `json:"genres"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
}

type MovieDetailResponse struct {
	MovieResponse
	UpdatedAt time.Time `json:"updated_at"`
}

// Helper converters
func MovieToResponse(movie *entity.Movie, genres []*entity.Genre) MovieResponse {
	resp := MovieResponse{
		ID:              movie.ID.String(),
		Title:           movie.Title,
		Description:     movie.Description,
		DurationMinutes: movie.DurationMinutes,
		ReleaseDate:     movie.ReleaseDate.Format("2006-01-02"),
		PosterURL:       movie.PosterURL,
		TrailerURL:      movie.TrailerURL,
		Genres:          GenresToResponse(genres),
		IsActive:        movie.IsActive,
		CreatedAt:       movie.CreatedAt,
	}

	if movie.Rating != nil {
		rating := movie.Rating.StringFixed(1)
		resp.Rating = &rating
	}

	return resp
}

func MovieToDetailResponse(movie *entity.Movie, genres []*entity.Genre) MovieDetailResponse {
	return MovieDetailResponse{
		MovieResponse: MovieToResponse(movie, genres),
		UpdatedAt:     movie.UpdatedAt,
	}
}
