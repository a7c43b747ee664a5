package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Movie struct {
	Base
	Title           string           `db:"title"`
	Description     *string          `db:"description"`
	DurationMinutes int              `db:"duration_minutes"`
	ReleaseDate     time.Time        `db:"release_date"`
	Rating          *decimal.Decimal `db:"rating"` // 0.0-10.0
	PosterURL       *string          `db:"poster_url"`
	TrailerURL      *string          `db:"trailer_url"`
	TMDBID          *int64           `db:"tmdb_id"`
	IsActive        bool             `db:"is_active"`
}
