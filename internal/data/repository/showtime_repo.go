package repository

import (
	"context"
	"fmt"
	"strings"

	"lumo-api/internal/data/entity"
	"lumo-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ShowtimeRepository interface {
	Create(ctx context.Context, showtime *entity.Showtime) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error)
	Update(ctx context.Context, showtime *entity.Showtime) error
	FindAll(ctx context.Context, movieID *uuid.UUID, upcomingOnly bool, offset, limit int) ([]*entity.Showtime, error)
	CountAll(ctx context.Context, movieID *uuid.UUID, upcomingOnly bool) (int64, error)

	// Transactional capacity accounting. The row lock taken by
	// FindByIDForUpdateTx serializes concurrent bookings per showtime.
	FindByIDForUpdateTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Showtime, error)
	DecrementAvailableSeatsTx(ctx context.Context, q database.Querier, id uuid.UUID, count int) (bool, error)
	IncrementAvailableSeatsTx(ctx context.Context, q database.Querier, id uuid.UUID, count int) (bool, error)
	UpdateSeatsTx(ctx context.Context, q database.Querier, id uuid.UUID, totalSeats, availableSeats int) error
}

type showtimeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowtimeRepository(db database.PgxIface, log *zap.Logger) ShowtimeRepository {
	return &showtimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "showtime")),
	}
}

func (r *showtimeRepository) Create(ctx context.Context, showtime *entity.Showtime) error {
	query := `
		INSERT INTO showtimes (id, movie_id, starts_at, theater_name, screen_number,
		                      total_seats, available_seats, ticket_price,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		showtime.ID,
		showtime.MovieID,
		showtime.StartsAt,
		showtime.TheaterName,
		showtime.ScreenNumber,
		showtime.TotalSeats,
		showtime.AvailableSeats,
		showtime.TicketPrice,
		showtime.CreatedAt,
		showtime.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create showtime",
			zap.Error(err),
			zap.String("movie_id", showtime.MovieID.String()),
		)
		return fmt.Errorf("create showtime: %w", err)
	}

	return nil
}

func scanShowtime(row pgx.Row) (*entity.Showtime, error) {
	var showtime entity.Showtime
	err := row.Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.StartsAt,
		&showtime.TheaterName,
		&showtime.ScreenNumber,
		&showtime.TotalSeats,
		&showtime.AvailableSeats,
		&showtime.TicketPrice,
		&showtime.CreatedAt,
		&showtime.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &showtime, nil
}

func (r *showtimeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	query := `
		SELECT id, movie_id, starts_at, theater_name, screen_number,
		       total_seats, available_seats, ticket_price, created_at, updated_at
		FROM showtimes
		WHERE id = $1
	`

	showtime, err := scanShowtime(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime by ID",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return nil, fmt.Errorf("find showtime by ID %s: %w", id.String(), err)
	}

	return showtime, nil
}

// FindByIDForUpdateTx locks the showtime row until the transaction ends.
func (r *showtimeRepository) FindByIDForUpdateTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Showtime, error) {
	query := `
		SELECT id, movie_id, starts_at, theater_name, screen_number,
		       total_seats, available_seats, ticket_price, created_at, updated_at
		FROM showtimes
		WHERE id = $1
		FOR UPDATE
	`

	showtime, err := scanShowtime(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock showtime row",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return nil, fmt.Errorf("lock showtime %s: %w", id.String(), err)
	}

	return showtime, nil
}

// DecrementAvailableSeatsTx returns false when fewer than count seats
// remain; the row is left untouched in that case.
func (r *showtimeRepository) DecrementAvailableSeatsTx(ctx context.Context, q database.Querier, id uuid.UUID, count int) (bool, error) {
	query := `
		UPDATE showtimes
		SET available_seats = available_seats - $2, updated_at = NOW()
		WHERE id = $1 AND available_seats >= $2
	`

	result, err := q.Exec(ctx, query, id, count)
	if err != nil {
		r.log.Error("Failed to decrement available seats",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
			zap.Int("count", count),
		)
		return false, fmt.Errorf("decrement seats for showtime %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

// IncrementAvailableSeatsTx returns false if the restore would exceed
// total_seats, which signals corrupted accounting.
func (r *showtimeRepository) IncrementAvailableSeatsTx(ctx context.Context, q database.Querier, id uuid.UUID, count int) (bool, error) {
	query := `
		UPDATE showtimes
		SET available_seats = available_seats + $2, updated_at = NOW()
		WHERE id = $1 AND available_seats + $2 <= total_seats
	`

	result, err := q.Exec(ctx, query, id, count)
	if err != nil {
		r.log.Error("Failed to increment available seats",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
			zap.Int("count", count),
		)
		return false, fmt.Errorf("increment seats for showtime %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *showtimeRepository) UpdateSeatsTx(ctx context.Context, q database.Querier, id uuid.UUID, totalSeats, availableSeats int) error {
	query := `
		UPDATE showtimes
		SET total_seats = $2, available_seats = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query, id, totalSeats, availableSeats)
	if err != nil {
		r.log.Error("Failed to update showtime seats",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return fmt.Errorf("update seats for showtime %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("showtime %s not found", id.String())
	}

	return nil
}

func (r *showtimeRepository) Update(ctx context.Context, showtime *entity.Showtime) error {
	query := `
		UPDATE showtimes
		SET movie_id = $2, starts_at = $3, theater_name = $4, screen_number = $5,
		    ticket_price = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		showtime.ID,
		showtime.MovieID,
		showtime.StartsAt,
		showtime.TheaterName,
		showtime.ScreenNumber,
		showtime.TicketPrice,
		showtime.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update showtime",
			zap.Error(err),
			zap.String("showtime_id", showtime.ID.String()),
		)
		return fmt.Errorf("update showtime %s: %w", showtime.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("showtime %s not found", showtime.ID.String())
	}

	return nil
}

func (r *showtimeRepository) FindAll(ctx context.Context, movieID *uuid.UUID, upcomingOnly bool, offset, limit int) ([]*entity.Showtime, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, movie_id, starts_at, theater_name, screen_number,
		       total_seats, available_seats, ticket_price, created_at, updated_at
		FROM showtimes
		WHERE 1=1
	`)

	args := []interface{}{}
	argCount := 1

	if movieID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND movie_id = $%d", argCount))
		args = append(args, *movieID)
		argCount++
	}

	if upcomingOnly {
		queryBuilder.WriteString(" AND starts_at > NOW()")
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY starts_at LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find showtimes",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("find showtimes: %w", err)
	}
	defer rows.Close()

	var showtimes []*entity.Showtime
	for rows.Next() {
		var showtime entity.Showtime
		err := rows.Scan(
			&showtime.ID,
			&showtime.MovieID,
			&showtime.StartsAt,
			&showtime.TheaterName,
			&showtime.ScreenNumber,
			&showtime.TotalSeats,
			&showtime.AvailableSeats,
			&showtime.TicketPrice,
			&showtime.CreatedAt,
			&showtime.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan showtime row", zap.Error(err))
			return nil, fmt.Errorf("scan showtime row: %w", err)
		}
		showtimes = append(showtimes, &showtime)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate showtime rows: %w", err)
	}

	return showtimes, nil
}

func (r *showtimeRepository) CountAll(ctx context.Context, movieID *uuid.UUID, upcomingOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM showtimes WHERE 1=1`
	args := []interface{}{}

	if movieID != nil {
		query += " AND movie_id = $1"
		args = append(args, *movieID)
	}

	if upcomingOnly {
		query += " AND starts_at > NOW()"
	}

	var total int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count showtimes", zap.Error(err))
		return 0, fmt.Errorf("count showtimes: %w", err)
	}

	return total, nil
}
