package usecase

import (
	"context"
	"errors"
	"time"

	"lumo-api/internal/data/entity"
	"lumo-api/internal/data/repository"
	"lumo-api/internal/dto/request"
	"lumo-api/internal/dto/response"
	"lumo-api/internal/loyalty"
	"lumo-api/internal/queue"
	"lumo-api/pkg/apperror"
	"lumo-api/pkg/database"
	"lumo-api/pkg/metrics"
	"lumo-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error)
	GetBookingByID(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo      *repository.Repository
	db        database.TxBeginner
	policy    loyalty.Policy
	publisher *queue.Publisher
	log       *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	db database.TxBeginner,
	policy loyalty.Policy,
	publisher *queue.Publisher,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		db:        db,
		policy:    policy,
		publisher: publisher,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// 1. Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(apperror.CodeInvalidRequest, utils.FormatValidationErrors(errs))
	}

	showtimeID, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "invalid showtime id")
	}

	if len(req.SeatNumbers) > 0 && len(req.SeatNumbers) != req.SeatCount {
		return nil, apperror.Validation(apperror.CodeInvalidRequest,
			"seat_numbers must match seat_count when provided")
	}

	// 2. Resolve the customer behind the authenticated user
	customer, err := s.customerForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 3. Everything that moves counters happens in one transaction
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		s.log.Error("Failed to begin transaction", zap.Error(err))
		return nil, apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	// 4. Lock the showtime row; concurrent bookings for the same
	// showtime queue up here.
	showtime, err := s.repo.Showtime.FindByIDForUpdateTx(ctx, tx, showtimeID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if showtime == nil {
		metrics.BookingsRejected.WithLabelValues("showtime_not_found").Inc()
		return nil, apperror.NotFound(apperror.CodeShowtimeNotFound, "showtime not found")
	}

	if !showtime.StartsAt.After(time.Now()) {
		metrics.BookingsRejected.WithLabelValues("showtime_started").Inc()
		return nil, apperror.Conflict(apperror.CodeShowtimeAlreadyStarted,
			"showtime has already started")
	}

	if showtime.AvailableSeats < req.SeatCount {
		metrics.BookingsRejected.WithLabelValues("insufficient_capacity").Inc()
		return nil, apperror.Conflict(apperror.CodeInsufficientCapacity,
			"not enough seats available")
	}

	// 5. Price, then the loyalty discount against it
	gross := showtime.TicketPrice.Mul(decimal.NewFromInt(int64(req.SeatCount)))
	discount, pointsUsed := s.policy.Discount(req.LoyaltyPointsUsed, gross)

	if pointsUsed > 0 {
		lockedCustomer, err := s.repo.Customer.FindByUserIDForUpdateTx(ctx, tx, userID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if lockedCustomer == nil || lockedCustomer.LoyaltyPoints < pointsUsed {
			metrics.BookingsRejected.WithLabelValues("insufficient_points").Inc()
			return nil, apperror.Validation(apperror.CodeInsufficientLoyaltyPoints,
				"not enough loyalty points")
		}

		ok, err := s.repo.Customer.AddLoyaltyPointsTx(ctx, tx, customer.ID, -pointsUsed)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if !ok {
			metrics.BookingsRejected.WithLabelValues("insufficient_points").Inc()
			return nil, apperror.Validation(apperror.CodeInsufficientLoyaltyPoints,
				"not enough loyalty points")
		}
	}

	// 6. Take the seats; the conditional update is the real capacity gate
	ok, err := s.repo.Showtime.DecrementAvailableSeatsTx(ctx, tx, showtimeID, req.SeatCount)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		metrics.BookingsRejected.WithLabelValues("insufficient_capacity").Inc()
		return nil, apperror.Conflict(apperror.CodeInsufficientCapacity,
			"not enough seats available")
	}

	// 7. Insert the booking as active
	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingReference:  utils.GenerateBookingReference(),
		CustomerID:        customer.ID,
		ShowtimeID:        showtimeID,
		SeatCount:         req.SeatCount,
		SeatNumbers:       req.SeatNumbers,
		BasePricePerSeat:  showtime.TicketPrice,
		DiscountAmount:    discount,
		TotalAmount:       gross.Sub(discount),
		LoyaltyPointsUsed: pointsUsed,
		Status:            entity.BookingStatusActive,
		SpecialRequests:   req.SpecialRequests,
	}

	if err := s.repo.Booking.CreateTx(ctx, tx, booking); err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("showtime_id", req.ShowtimeID),
		)
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit booking", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	metrics.BookingsCreated.Inc()

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_reference", booking.BookingReference),
		zap.String("user_id", userID.String()),
		zap.Int("seat_count", req.SeatCount),
		zap.String("total_amount", booking.TotalAmount.String()),
	)

	// 8. Notify after commit; the booking stands even if the broker is down
	movie, _ := s.repo.Movie.FindByID(ctx, showtime.MovieID)
	s.publishEvent(ctx, queue.EventTypeBookingCreated, booking, showtime, movie)

	resp := response.BookingToResponse(booking, showtime, movie)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "invalid booking id")
	}

	customer, err := s.customerForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 1. Lock the booking, then the showtime, in the same order bookings
	// are created to avoid lock cycles.
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		s.log.Error("Failed to begin transaction", zap.Error(err))
		return nil, apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	booking, err := s.repo.Booking.FindByIDForUpdateTx(ctx, tx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if booking == nil {
		return nil, apperror.NotFound(apperror.CodeBookingNotFound, "booking not found")
	}

	if booking.CustomerID != customer.ID {
		return nil, apperror.PermissionDenied(apperror.CodeNotOwner, "booking belongs to another customer")
	}

	if booking.Status != entity.BookingStatusActive {
		return nil, apperror.Conflict(apperror.CodeBookingNotActive, "booking is not active")
	}

	showtime, err := s.repo.Showtime.FindByIDForUpdateTx(ctx, tx, booking.ShowtimeID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if showtime == nil {
		s.log.Error("Booking references missing showtime",
			zap.String("booking_id", bookingID),
			zap.String("showtime_id", booking.ShowtimeID.String()),
		)
		return nil, apperror.Internal(errors.New("booking references missing showtime"))
	}

	// 2. The cancellation window closes two hours before curtain
	now := time.Now()
	if now.After(showtime.StartsAt.Add(-entity.CancellationWindow)) {
		return nil, apperror.Conflict(apperror.CodeCancellationWindowClosed,
			"bookings can only be cancelled up to 2 hours before the showtime")
	}

	// 3. Flip status, restore seats, refund any redeemed points
	if err := s.repo.Booking.MarkCancelledTx(ctx, tx, id, now); err != nil {
		return nil, apperror.Internal(err)
	}

	ok, err := s.repo.Showtime.IncrementAvailableSeatsTx(ctx, tx, booking.ShowtimeID, booking.SeatCount)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		s.log.Error("Seat restore would exceed capacity",
			zap.String("booking_id", bookingID),
			zap.String("showtime_id", booking.ShowtimeID.String()),
		)
		return nil, apperror.Internal(errors.New("seat restore exceeds total capacity"))
	}

	if booking.LoyaltyPointsUsed > 0 {
		if _, err := s.repo.Customer.AddLoyaltyPointsTx(ctx, tx, customer.ID, booking.LoyaltyPointsUsed); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit cancellation", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	booking.Status = entity.BookingStatusCancelled
	booking.CancelledAt = &now

	metrics.BookingsCancelled.Inc()

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("booking_reference", booking.BookingReference),
		zap.String("user_id", userID.String()),
	)

	movie, _ := s.repo.Movie.FindByID(ctx, showtime.MovieID)
	s.publishEvent(ctx, queue.EventTypeBookingCancelled, booking, showtime, movie)

	resp := response.BookingToResponse(booking, showtime, movie)
	return &resp, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "invalid booking id")
	}

	customer, err := s.customerForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, apperror.Internal(err)
	}
	if booking == nil {
		return nil, apperror.NotFound(apperror.CodeBookingNotFound, "booking not found")
	}

	if booking.CustomerID != customer.ID {
		return nil, apperror.PermissionDenied(apperror.CodeNotOwner, "booking belongs to another customer")
	}

	resp := s.buildBookingResponse(ctx, booking)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	customer, err := s.customerForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	limit := page.Limit()
	offset := page.Offset()

	bookings, err := s.repo.Booking.FindByCustomerID(ctx, customer.ID, limit, offset)
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("page", page.Page),
			zap.Int("per_page", page.PerPage),
		)
		return nil, apperror.Internal(err)
	}

	total, err := s.repo.Booking.CountByCustomerID(ctx, customer.ID)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = s.buildBookingResponse(ctx, booking)
	}

	s.log.Info("User bookings retrieved",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(bookings)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(bookingResponses, page.Page, page.PerPage, total), nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) customerForUser(ctx context.Context, userID uuid.UUID) (*entity.Customer, error) {
	customer, err := s.repo.Customer.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find customer profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.Internal(err)
	}
	if customer == nil {
		return nil, apperror.NotFound(apperror.CodeUserNotFound, "customer profile not found")
	}
	return customer, nil
}

func (s *bookingService) buildBookingResponse(ctx context.Context, booking *entity.Booking) response.BookingResponse {
	showtime, err := s.repo.Showtime.FindByID(ctx, booking.ShowtimeID)
	if err != nil {
		s.log.Warn("Failed to load showtime for booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}

	var movie *entity.Movie
	if showtime != nil {
		movie, err = s.repo.Movie.FindByID(ctx, showtime.MovieID)
		if err != nil {
			s.log.Warn("Failed to load movie for booking",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
		}
	}

	return response.BookingToResponse(booking, showtime, movie)
}

func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *entity.Booking, showtime *entity.Showtime, movie *entity.Movie) {
	event := queue.BookingEvent{
		Type:             eventType,
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		CustomerID:       booking.CustomerID,
		ShowtimeID:       booking.ShowtimeID,
		SeatCount:        booking.SeatCount,
		TotalAmount:      booking.TotalAmount.String(),
		OccurredAt:       time.Now(),
	}
	if showtime != nil {
		event.StartsAt = showtime.StartsAt
	}
	if movie != nil {
		event.MovieTitle = movie.Title
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("type", eventType),
			zap.String("booking_id", booking.ID.String()),
		)
	}
}
