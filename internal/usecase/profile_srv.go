package usecase

import (
	"context"
	"time"

	"lumo-api/internal/data/entity"
	"lumo-api/internal/data/repository"
	"lumo-api/internal/dto/request"
	"lumo-api/internal/dto/response"
	"lumo-api/pkg/apperror"
	"lumo-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.ProfileResponse, error)
}

type profileService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewProfileService(repo *repository.Repository, log *zap.Logger) ProfileService {
	return &profileService{
		repo: repo,
		log:  log.With(zap.String("service", "profile")),
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound(apperror.CodeUserNotFound, "user not found")
	}

	customer, err := s.getOrCreateCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.ProfileToResponse(user, customer)
	return &resp, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.ProfileResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update profile validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(apperror.CodeInvalidRequest, utils.FormatValidationErrors(errs))
	}

	// 2. Load user and profile
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound(apperror.CodeUserNotFound, "user not found")
	}

	customer, err := s.getOrCreateCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 3. Apply only the provided fields
	userChanged := false
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
		userChanged = true
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
		userChanged = true
	}

	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, apperror.Validation(apperror.CodeInvalidRequest, "date_of_birth must be YYYY-MM-DD")
		}
		customer.DateOfBirth = &dob
	}
	if req.PreferredLanguage != nil {
		customer.PreferredLanguage = entity.PreferredLanguage(*req.PreferredLanguage)
	}
	if req.ReceiveMarketingEmails != nil {
		customer.ReceiveMarketingEmails = *req.ReceiveMarketingEmails
	}
	if req.ReceiveBookingNotifications != nil {
		customer.ReceiveBookingNotifications = *req.ReceiveBookingNotifications
	}

	// 4. Persist
	if userChanged {
		user.UpdatedAt = time.Now()
		if err := s.repo.User.Update(ctx, user); err != nil {
			s.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", userID.String()))
			return nil, apperror.Internal(err)
		}
	}

	customer.UpdatedAt = time.Now()
	if err := s.repo.Customer.Update(ctx, customer); err != nil {
		s.log.Error("Failed to update customer profile",
			zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.Internal(err)
	}

	s.log.Info("Profile updated", zap.String("user_id", userID.String()))

	resp := response.ProfileToResponse(user, customer)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func (s *profileService) getOrCreateCustomer(ctx context.Context, userID uuid.UUID) (*entity.Customer, error) {
	customer, err := s.repo.Customer.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find customer profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.Internal(err)
	}
	if customer != nil {
		return customer, nil
	}

	now := time.Now()
	customer = &entity.Customer{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:                      userID,
		PreferredLanguage:           entity.LanguageEnglish,
		ReceiveMarketingEmails:      true,
		ReceiveBookingNotifications: true,
	}

	if err := s.repo.Customer.Create(ctx, customer); err != nil {
		s.log.Error("Failed to create customer profile",
			zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.Internal(err)
	}

	return customer, nil
}
