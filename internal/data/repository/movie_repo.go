package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lumo-api/internal/data/entity"
	"lumo-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// MovieFilter narrows and orders the catalog listing. Zero values mean
// "no constraint"; OrderBy must come from the whitelist below.
type MovieFilter struct {
	GenreID         *uuid.UUID
	Search          *string
	ReleaseDateFrom *time.Time
	ReleaseDateTo   *time.Time
	OrderBy         string
	Descending      bool
}

var movieOrderColumns = map[string]string{
	"release_date": "release_date",
	"rating":       "rating",
	"title":        "title",
}

type MovieRepository interface {
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	FindByTMDBID(ctx context.Context, tmdbID int64) (*entity.Movie, error)
	Update(ctx context.Context, movie *entity.Movie) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, filter MovieFilter, offset, limit int) ([]*entity.Movie, error)
	CountAll(ctx context.Context, filter MovieFilter) (int64, error)
}

type movieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	query := `
		INSERT INTO movies (id, title, description, duration_minutes, release_date,
		                   rating, poster_url, trailer_url, tmdb_id, is_active,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.DurationMinutes,
		movie.ReleaseDate,
		movie.Rating,
		movie.PosterURL,
		movie.TrailerURL,
		movie.TMDBID,
		movie.IsActive,
		movie.CreatedAt,
		movie.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return fmt.Errorf("create movie %s: %w", movie.Title, err)
	}

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	query := `
		SELECT id, title, description, duration_minutes, release_date, rating,
		       poster_url, trailer_url, tmdb_id, is_active, created_at, updated_at
		FROM movies
		WHERE id = $1
	`

	var movie entity.Movie
	err := r.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.DurationMinutes,
		&movie.ReleaseDate,
		&movie.Rating,
		&movie.PosterURL,
		&movie.TrailerURL,
		&movie.TMDBID,
		&movie.IsActive,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return nil, fmt.Errorf("find movie by ID %s: %w", id.String(), err)
	}

	return &movie, nil
}

func (r *movieRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	movie, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil || !movie.IsActive {
		return nil, nil
	}
	return movie, nil
}

func (r *movieRepository) FindByTMDBID(ctx context.Context, tmdbID int64) (*entity.Movie, error) {
	query := `
		SELECT id, title, description, duration_minutes, release_date, rating,
		       poster_url, trailer_url, tmdb_id, is_active, created_at, updated_at
		FROM movies
		WHERE tmdb_id = $1
	`

	var movie entity.Movie
	err := r.db.QueryRow(ctx, query, tmdbID).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.DurationMinutes,
		&movie.ReleaseDate,
		&movie.Rating,
		&movie.PosterURL,
		&movie.TrailerURL,
		&movie.TMDBID,
		&movie.IsActive,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by TMDB ID",
			zap.Error(err),
			zap.Int64("tmdb_id", tmdbID),
		)
		return nil, fmt.Errorf("find movie by TMDB ID %d: %w", tmdbID, err)
	}

	return &movie, nil
}

// buildMovieWhere appends filter conditions and returns the arg list.
func buildMovieWhere(qb *strings.Builder, filter MovieFilter) []interface{} {
	args := []interface{}{}
	argCount := 1

	qb.WriteString(" WHERE m.is_active = TRUE")

	if filter.GenreID != nil {
		qb.WriteString(fmt.Sprintf(
			" AND EXISTS (SELECT 1 FROM movie_genres mg WHERE mg.movie_id = m.id AND mg.genre_id = $%d)", argCount))
		args = append(args, *filter.GenreID)
		argCount++
	}

	if filter.Search != nil && *filter.Search != "" {
		qb.WriteString(fmt.Sprintf(
			" AND (m.title ILIKE $%d OR m.description ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+*filter.Search+"%")
		argCount++
	}

	if filter.ReleaseDateFrom != nil {
		qb.WriteString(fmt.Sprintf(" AND m.release_date >= $%d", argCount))
		args = append(args, *filter.ReleaseDateFrom)
		argCount++
	}

	if filter.ReleaseDateTo != nil {
		qb.WriteString(fmt.Sprintf(" AND m.release_date <= $%d", argCount))
		args = append(args, *filter.ReleaseDateTo)
		argCount++
	}

	return args
}

func (r *movieRepository) FindAll(ctx context.Context, filter MovieFilter, offset, limit int) ([]*entity.Movie, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT m.id, m.title, m.description, m.duration_minutes, m.release_date,
		       m.rating, m.poster_url, m.trailer_url, m.tmdb_id, m.is_active,
		       m.created_at, m.updated_at
		FROM movies m
	`)

	args := buildMovieWhere(&queryBuilder, filter)
	argCount := len(args) + 1

	orderColumn, ok := movieOrderColumns[filter.OrderBy]
	if !ok {
		orderColumn = "release_date"
		filter.Descending = true
	}
	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}
	// NULLS LAST keeps unrated movies at the end when ordering by rating
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY m.%s %s NULLS LAST, m.id", orderColumn, direction))

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all movies",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("find movies: %w", err)
	}
	defer rows.Close()

	var movies []*entity.Movie
	for rows.Next() {
		var movie entity.Movie
		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Description,
			&movie.DurationMinutes,
			&movie.ReleaseDate,
			&movie.Rating,
			&movie.PosterURL,
			&movie.TrailerURL,
			&movie.TMDBID,
			&movie.IsActive,
			&movie.CreatedAt,
			&movie.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("scan movie row: %w", err)
		}
		movies = append(movies, &movie)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate movie rows: %w", err)
	}

	return movies, nil
}

func (r *movieRepository) CountAll(ctx context.Context, filter MovieFilter) (int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT COUNT(*) FROM movies m`)

	args := buildMovieWhere(&queryBuilder, filter)

	var total int64
	err := r.db.QueryRow(ctx, queryBuilder.String(), args...).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count movies", zap.Error(err))
		return 0, fmt.Errorf("count movies: %w", err)
	}

	return total, nil
}

func (r *movieRepository) Update(ctx context.Context, movie *entity.Movie) error {
	query := `
		UPDATE movies
		SET title = $2, description = $3, duration_minutes = $4, release_date = $5,
		    rating = $6, poster_url = $7, trailer_url = $8, tmdb_id = $9,
		    is_active = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.DurationMinutes,
		movie.ReleaseDate,
		movie.Rating,
		movie.PosterURL,
		movie.TrailerURL,
		movie.TMDBID,
		movie.IsActive,
		movie.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movie.ID.String()),
		)
		return fmt.Errorf("update movie %s: %w", movie.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("movie %s not found", movie.ID.String())
	}

	return nil
}

// Deactivate soft-disables a movie; booking history stays intact.
func (r *movieRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE movies SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active = TRUE`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to deactivate movie",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return fmt.Errorf("deactivate movie %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("movie %s not found or already inactive", id.String())
	}

	r.log.Info("Movie deactivated", zap.String("movie_id", id.String()))
	return nil
}
