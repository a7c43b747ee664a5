package usecase

import (
	"context"
	"time"

	"lumo-api/internal/data/entity"
	"lumo-api/internal/data/repository"
	"lumo-api/internal/dto/request"
	"lumo-api/internal/dto/response"
	"lumo-api/internal/loyalty"
	"lumo-api/pkg/apperror"
	"lumo-api/pkg/database"
	"lumo-api/pkg/metrics"
	"lumo-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, userID uuid.UUID, req *request.CreatePaymentRequest) (*response.CreatePaymentResponse, error)
	GetPaymentByID(ctx context.Context, userID uuid.UUID, paymentID string) (*response.PaymentResponse, error)
	GetUserPayments(ctx context.Context, userID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error)
}

type paymentService struct {
	repo   *repository.Repository
	db     database.TxBeginner
	policy loyalty.Policy
	log    *zap.Logger
}

func NewPaymentService(
	repo *repository.Repository,
	db database.TxBeginner,
	policy loyalty.Policy,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:   repo,
		db:     db,
		policy: policy,
		log:    log.With(zap.String("service", "payment")),
	}
}

// CreatePayment settles an active booking. The gateway is mocked, so a
// payment that passes the booking checks always completes.
func (s *paymentService) CreatePayment(ctx context.Context, userID uuid.UUID, req *request.CreatePaymentRequest) (*response.CreatePaymentResponse, error) {
	// 1. Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create payment validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(apperror.CodeInvalidRequest, utils.FormatValidationErrors(errs))
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "invalid booking id")
	}

	customer, err := s.customerForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 2. Lock the booking so a double-submit cannot pay it twice
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		s.log.Error("Failed to begin transaction", zap.Error(err))
		return nil, apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	booking, err := s.repo.Booking.FindByIDForUpdateTx(ctx, tx, bookingID)
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
		return nil, apperror.Conflict(apperror.CodeBookingNotPayable, "only active bookings can be paid")
	}

	exists, err := s.repo.Payment.ExistsCompletedForBookingTx(ctx, tx, bookingID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict(apperror.CodeDuplicatePayment, "booking is already paid")
	}

	// 3. Record the completed payment
	now := time.Now()
	payment := &entity.Payment{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		BookingID:     bookingID,
		Amount:        booking.TotalAmount,
		Method:        entity.PaymentMethod(req.PaymentMethod),
		Status:        entity.PaymentStatusCompleted,
		TransactionID: utils.GenerateTransactionID(),
		ProcessedAt:   &now,
	}

	if err := s.repo.Payment.CreateTx(ctx, tx, payment); err != nil {
		s.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("booking_id", req.BookingID),
		)
		return nil, apperror.Internal(err)
	}

	// 4. Credit loyalty points for the amount actually charged
	earned := s.policy.EarnedPoints(booking.TotalAmount)
	if earned > 0 {
		if _, err := s.repo.Customer.AddLoyaltyPointsTx(ctx, tx, customer.ID, earned); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit payment", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	metrics.PaymentsCompleted.Inc()

	s.log.Info("Payment completed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", req.BookingID),
		zap.String("transaction_id", payment.TransactionID),
		zap.String("amount", payment.Amount.String()),
		zap.Int("loyalty_points_earned", earned),
	)

	return &response.CreatePaymentResponse{
		PaymentResponse:     response.PaymentToResponse(payment),
		LoyaltyPointsEarned: earned,
	}, nil
}

func (s *paymentService) GetPaymentByID(ctx context.Context, userID uuid.UUID, paymentID string) (*response.PaymentResponse, error) {
	id, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "invalid payment id")
	}

	customer, err := s.customerForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	payment, err := s.repo.Payment.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get payment", zap.Error(err), zap.String("payment_id", paymentID))
		return nil, apperror.Internal(err)
	}
	if payment == nil {
		return nil, apperror.NotFound(apperror.CodePaymentNotFound, "payment not found")
	}

	// Ownership runs through the booking the payment settles
	booking, err := s.repo.Booking.FindByID(ctx, payment.BookingID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if booking == nil || booking.CustomerID != customer.ID {
		return nil, apperror.PermissionDenied(apperror.CodeNotOwner, "payment belongs to another customer")
	}

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) GetUserPayments(ctx context.Context, userID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error) {
	customer, err := s.customerForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.Payment.FindByCustomerID(ctx, customer.ID, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to get user payments",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, apperror.Internal(err)
	}

	total, err := s.repo.Payment.CountByCustomerID(ctx, customer.ID)
	if err != nil {
		s.log.Error("Failed to count user payments", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	paymentResponses := make([]response.PaymentResponse, len(payments))
	for i, payment := range payments {
		paymentResponses[i] = response.PaymentToResponse(payment)
	}

	return response.NewPaginatedResponse(paymentResponses, page.Page, page.PerPage, total), nil
}

// ==================== HELPER METHODS ====================

func (s *paymentService) customerForUser(ctx context.Context, userID uuid.UUID) (*entity.Customer, error) {
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
