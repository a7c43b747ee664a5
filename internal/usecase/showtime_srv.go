package usecase

import (
	"context"
	"time"

	"lumo-api/internal/data/entity"
	"lumo-api/internal/data/repository"
	"lumo-api/internal/dto/request"
	"lumo-api/internal/dto/response"
	"lumo-api/pkg/apperror"
	"lumo-api/pkg/database"
	"lumo-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ShowtimeService interface {
	GetShowtimes(ctx context.Context, movieID string, upcomingOnly bool, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ShowtimeResponse], error)
	GetShowtimeByID(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error)

	// Admin endpoints
	CreateShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error)
	UpdateShowtime(ctx context.Context, showtimeID string, req *request.ShowtimeUpdateRequest) (*response.ShowtimeResponse, error)
}

type showtimeService struct {
	repo *repository.Repository
	db   database.TxBeginner
	log  *zap.Logger
}

func NewShowtimeService(repo *repository.Repository, db database.TxBeginner, log *zap.Logger) ShowtimeService {
	return &showtimeService{
		repo: repo,
		db:   db,
		log:  log.With(zap.String("service", "showtime")),
	}
}

func (s *showtimeService) GetShowtimes(ctx context.Context, movieID string, upcomingOnly bool, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ShowtimeResponse], error) {
	// 1. Optional movie filter
	var movieUUID *uuid.UUID
	if movieID != "" {
		id, err := uuid.Parse(movieID)
		if err != nil {
			return nil, apperror.Validation(apperror.CodeInvalidRequest, "invalid movie id")
		}
		movieUUID = &id
	}

	limit := page.Limit()
	offset := page.Offset()

	// 2. Fetch the page and the total
	showtimes, err := s.repo.Showtime.FindAll(ctx, movieUUID, upcomingOnly, offset, limit)
	if err != nil {
		s.log.Error("Failed to get showtimes",
			zap.Error(err),
			zap.Int("page", page.Page),
			zap.Int("per_page", page.PerPage),
		)
		return nil, apperror.Internal(err)
	}

	total, err := s.repo.Showtime.CountAll(ctx, movieUUID, upcomingOnly)
	if err != nil {
		s.log.Error("Failed to count showtimes", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	// 3. Resolve movie titles once per distinct movie
	movies := map[uuid.UUID]*entity.Movie{}
	for _, showtime := range showtimes {
		if _, ok := movies[showtime.MovieID]; ok {
			continue
		}
		movie, err := s.repo.Movie.FindByID(ctx, showtime.MovieID)
		if err != nil {
			s.log.Warn("Failed to load movie for showtime",
				zap.Error(err),
				zap.String("movie_id", showtime.MovieID.String()),
			)
			continue
		}
		movies[showtime.MovieID] = movie
	}

	showtimeResponses := make([]response.ShowtimeResponse, len(showtimes))
	for i, showtime := range showtimes {
		showtimeResponses[i] = response.ShowtimeToResponse(showtime, movies[showtime.MovieID])
	}

	s.log.Info("Showtimes retrieved",
		zap.Int("count", len(showtimes)),
		zap.Int64("total", total),
		zap.Bool("upcoming_only", upcomingOnly),
	)

	return response.NewPaginatedResponse(showtimeResponses, page.Page, page.PerPage, total), nil
}

func (s *showtimeService) GetShowtimeByID(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error) {
	id, err := uuid.Parse(showtimeID)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "invalid showtime id")
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get showtime", zap.Error(err), zap.String("showtime_id", showtimeID))
		return nil, apperror.Internal(err)
	}
	if showtime == nil {
		return nil, apperror.NotFound(apperror.CodeShowtimeNotFound, "showtime not found")
	}

	movie, err := s.repo.Movie.FindByID(ctx, showtime.MovieID)
	if err != nil {
		s.log.Warn("Failed to load movie for showtime", zap.Error(err))
	}

	resp := response.ShowtimeToResponse(showtime, movie)
	return &resp, nil
}

// ==================== ADMIN METHODS ====================

func (s *showtimeService) CreateShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error) {
	// 1. Validate request data
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create showtime validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(apperror.CodeInvalidRequest, utils.FormatValidationErrors(errs))
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "invalid movie id")
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "starts_at must be RFC 3339")
	}
	if !startsAt.After(time.Now()) {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "starts_at must be in the future")
	}

	price, err := decimal.NewFromString(req.TicketPrice)
	if err != nil || !price.IsPositive() {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "ticket_price must be a positive decimal")
	}

	// 2. Showtimes only attach to active movies
	movie, err := s.repo.Movie.FindActiveByID(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to find movie", zap.Error(err), zap.String("movie_id", req.MovieID))
		return nil, apperror.Internal(err)
	}
	if movie == nil {
		return nil, apperror.NotFound(apperror.CodeMovieNotFound, "movie not found")
	}

	// 3. Create with a full house of available seats
	now := time.Now()
	showtime := &entity.Showtime{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MovieID:        movieID,
		StartsAt:       startsAt,
		TheaterName:    req.TheaterName,
		ScreenNumber:   req.ScreenNumber,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		TicketPrice:    price,
	}

	if err := s.repo.Showtime.Create(ctx, showtime); err != nil {
		s.log.Error("Failed to create showtime",
			zap.Error(err),
			zap.String("movie_id", req.MovieID),
		)
		return nil, apperror.Internal(err)
	}

	s.log.Info("Showtime created",
		zap.String("showtime_id", showtime.ID.String()),
		zap.String("movie_id", req.MovieID),
		zap.Time("starts_at", startsAt),
	)

	resp := response.ShowtimeToResponse(showtime, movie)
	return &resp, nil
}

func (s *showtimeService) UpdateShowtime(ctx context.Context, showtimeID string, req *request.ShowtimeUpdateRequest) (*response.ShowtimeResponse, error) {
	// 1. Validate request data
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update showtime validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(apperror.CodeInvalidRequest, utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(showtimeID)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "invalid showtime id")
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find showtime", zap.Error(err), zap.String("showtime_id", showtimeID))
		return nil, apperror.Internal(err)
	}
	if showtime == nil {
		return nil, apperror.NotFound(apperror.CodeShowtimeNotFound, "showtime not found")
	}

	// 2. Capacity edits run under the same row lock bookings take, so the
	// seat counters cannot go inconsistent with concurrent reservations.
	if req.TotalSeats != nil && *req.TotalSeats != showtime.TotalSeats {
		if err := s.resizeSeats(ctx, id, *req.TotalSeats); err != nil {
			return nil, err
		}
	}

	// 3. Apply remaining fields outside the lock; they never touch the
	// seat counters.
	updated := false
	if req.StartsAt != nil {
		startsAt, err := time.Parse(time.RFC3339, *req.StartsAt)
		if err != nil {
			return nil, apperror.Validation(apperror.CodeInvalidRequest, "starts_at must be RFC 3339")
		}
		showtime.StartsAt = startsAt
		updated = true
	}
	if req.TheaterName != nil {
		showtime.TheaterName = *req.TheaterName
		updated = true
	}
	if req.ScreenNumber != nil {
		showtime.ScreenNumber = *req.ScreenNumber
		updated = true
	}
	if req.TicketPrice != nil {
		price, err := decimal.NewFromString(*req.TicketPrice)
		if err != nil || !price.IsPositive() {
			return nil, apperror.Validation(apperror.CodeInvalidRequest, "ticket_price must be a positive decimal")
		}
		showtime.TicketPrice = price
		updated = true
	}

	if updated {
		showtime.UpdatedAt = time.Now()
		if err := s.repo.Showtime.Update(ctx, showtime); err != nil {
			s.log.Error("Failed to update showtime", zap.Error(err), zap.String("showtime_id", showtimeID))
			return nil, apperror.Internal(err)
		}
	}

	// 4. Re-read for a consistent view of the seat counters
	showtime, err = s.repo.Showtime.FindByID(ctx, id)
	if err != nil || showtime == nil {
		s.log.Error("Failed to reload showtime", zap.Error(err), zap.String("showtime_id", showtimeID))
		return nil, apperror.Internal(err)
	}

	movie, _ := s.repo.Movie.FindByID(ctx, showtime.MovieID)

	s.log.Info("Showtime updated", zap.String("showtime_id", showtimeID))

	resp := response.ShowtimeToResponse(showtime, movie)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

// resizeSeats changes total capacity while preserving the booked count.
// Shrinking below the number of already-booked seats is rejected.
func (s *showtimeService) resizeSeats(ctx context.Context, id uuid.UUID, newTotal int) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		s.log.Error("Failed to begin transaction", zap.Error(err))
		return apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	locked, err := s.repo.Showtime.FindByIDForUpdateTx(ctx, tx, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if locked == nil {
		return apperror.NotFound(apperror.CodeShowtimeNotFound, "showtime not found")
	}

	booked := locked.TotalSeats - locked.AvailableSeats
	newAvailable := newTotal - booked
	if newAvailable < 0 {
		return apperror.Conflict(apperror.CodeInsufficientCapacity,
			"total seats cannot drop below the number of booked seats")
	}

	if err := s.repo.Showtime.UpdateSeatsTx(ctx, tx, id, newTotal, newAvailable); err != nil {
		return apperror.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit seat resize", zap.Error(err))
		return apperror.Internal(err)
	}

	s.log.Info("Showtime capacity resized",
		zap.String("showtime_id", id.String()),
		zap.Int("total_seats", newTotal),
		zap.Int("available_seats", newAvailable),
	)

	return nil
}
