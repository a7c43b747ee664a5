package request

type MovieRequest struct {
	Title           string   `json:"title" validate:"required,min=1,max=200"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes int      `json:"duration_minutes" validate:"required,min=1,max=999"`
	ReleaseDate     string   `json:"release_date" validate:"required,datetime=2006-01-02"`
	Rating          *string  `json:"rating,omitempty" validate:"omitempty,numeric"`
	PosterURL       *string  `json:"poster_url,omitempty" validate:"omitempty,url"`
	TrailerURL      *string  `json:"trailer_url,omitempty" validate:"omitempty,url"`
	GenreIDs        []string `json:"genre_ids,omitempty" validate:"dive,uuid4"`
}

// MovieListQuery is filled from query string parameters, not a JSON body.
type MovieListQuery struct {
	GenreID         string `validate:"omitempty,uuid4"`
	Search          string
	ReleaseDateFrom string `validate:"omitempty,datetime=2006-01-02"`
	ReleaseDateTo   string `validate:"omitempty,datetime=2006-01-02"`
	SortBy          string `validate:"omitempty,oneof=title release_date rating"`
	Order           string `validate:"omitempty,oneof=asc desc"`
}

type MovieUpdateRequest struct {
	Title           *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" validate:"omitempty,min=1,max=999"`
	ReleaseDate     *string  `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Rating          *string  `json:"rating,omitempty" validate:"omitempty,numeric"`
	PosterURL       *string  `json:"poster_url,omitempty" validate:"omitempty,url"`
	TrailerURL      *string  `json:"trailer_url,omitempty" validate:"omitempty,url"`
	GenreIDs        []string `json:"genre_ids,omitempty" validate:"dive,uuid4"`
	IsActive        *bool    `json:"is_active,omitempty"`
}
