package usecase

import (
	"context"
	"strings"
	"time"

	"lumo-api/internal/data/entity"
	"lumo-api/internal/data/repository"
	"lumo-api/internal/dto/request"
	"lumo-api/internal/dto/response"
	"lumo-api/pkg/apperror"
	"lumo-api/pkg/token"
	"lumo-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, userAgent, ipAddress string) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, userAgent, ipAddress string) (*response.AuthResponse, error)
	Refresh(ctx context.Context, req *request.RefreshTokenRequest, userAgent, ipAddress string) (*response.AuthResponse, error)
	Logout(ctx context.Context, req *request.LogoutRequest) error
}

type authService struct {
	repo   *repository.Repository
	tokens *token.Manager
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, tokens *token.Manager, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, userAgent, ipAddress string) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(apperror.CodeInvalidRequest, utils.FormatValidationErrors(errs))
	}

	// 2. Check email is free
	existing, err := s.repo.User.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict(apperror.CodeEmailTaken, "email already registered")
	}

	// 3. Check username is free
	existing, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", req.Username))
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict(apperror.CodeUsernameTaken, "username already taken")
	}

	// 4. Hash password
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	// 5. Create user
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         entity.RoleCustomer,
		IsActive:     true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, apperror.Internal(err)
	}

	// 6. Every account gets a customer profile at registration
	customer := &entity.Customer{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:                      user.ID,
		Phone:                       req.Phone,
		PreferredLanguage:           entity.LanguageEnglish,
		ReceiveMarketingEmails:      true,
		ReceiveBookingNotifications: true,
	}

	if err := s.repo.Customer.Create(ctx, customer); err != nil {
		s.log.Error("Failed to create customer profile",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, apperror.Internal(err)
	}

	// 7. Log the new user straight in
	resp, err := s.issueTokens(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, userAgent, ipAddress string) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(apperror.CodeInvalidRequest, utils.FormatValidationErrors(errs))
	}

	// 2. Identifier may be an email or a username
	var user *entity.User
	var err error
	if strings.Contains(req.Identifier, "@") {
		user, err = s.repo.User.FindByEmail(ctx, strings.ToLower(req.Identifier))
	} else {
		user, err = s.repo.User.FindByUsername(ctx, req.Identifier)
	}
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	// 3. Same answer for unknown user and wrong password
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid credentials", zap.String("identifier", req.Identifier))
		return nil, apperror.Unauthorized(apperror.CodeInvalidCredentials, "invalid credentials")
	}

	// 4. Check if user is active
	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, apperror.Unauthorized(apperror.CodeInvalidCredentials, "account is deactivated")
	}

	// 5. Issue token pair
	resp, err := s.issueTokens(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return resp, nil
}

func (s *authService) Refresh(ctx context.Context, req *request.RefreshTokenRequest, userAgent, ipAddress string) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, utils.FormatValidationErrors(errs))
	}

	// 2. Look up the stored hash; expired and revoked rows never match
	hash := token.HashRefreshRaw(req.RefreshToken)
	stored, err := s.repo.RefreshToken.FindValidByHash(ctx, hash)
	if err != nil {
		s.log.Error("Failed to look up refresh token", zap.Error(err))
		return nil, apperror.Internal(err)
	}
	if stored == nil {
		return nil, apperror.Unauthorized(apperror.CodeInvalidToken, "invalid or expired refresh token")
	}

	// 3. The user must still exist and be active
	user, err := s.repo.User.FindByID(ctx, stored.UserID)
	if err != nil {
		s.log.Error("Failed to load user for refresh", zap.Error(err))
		return nil, apperror.Internal(err)
	}
	if user == nil || !user.IsActive {
		return nil, apperror.Unauthorized(apperror.CodeInvalidToken, "invalid or expired refresh token")
	}

	// 4. Rotate: the presented token is spent, a fresh pair replaces it
	if err := s.repo.RefreshToken.Revoke(ctx, hash); err != nil {
		s.log.Error("Failed to revoke refresh token", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	resp, err := s.issueTokens(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	s.log.Info("Tokens refreshed", zap.String("user_id", user.ID.String()))
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, req *request.LogoutRequest) error {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperror.Validation(apperror.CodeInvalidRequest, utils.FormatValidationErrors(errs))
	}

	// 2. Revoke; unknown or already-revoked tokens are a no-op
	hash := token.HashRefreshRaw(req.RefreshToken)
	if err := s.repo.RefreshToken.Revoke(ctx, hash); err != nil {
		s.log.Error("Failed to revoke refresh token on logout", zap.Error(err))
		return apperror.Internal(err)
	}

	s.log.Info("User logged out")
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) issueTokens(ctx context.Context, user *entity.User, userAgent, ipAddress string) (*response.AuthResponse, error) {
	access, err := s.tokens.NewAccessToken(user.ID, string(user.Role))
	if err != nil {
		s.log.Error("Failed to sign access token", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	refresh, err := s.tokens.NewRefreshToken()
	if err != nil {
		s.log.Error("Failed to generate refresh token", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	stored := &entity.RefreshToken{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:    user.ID,
		TokenHash: token.HashRefreshRaw(refresh.Raw),
		ExpiresAt: refresh.ExpiresAt,
	}
	if userAgent != "" {
		stored.UserAgent = &userAgent
	}
	if ipAddress != "" {
		stored.IPAddress = &ipAddress
	}

	if err := s.repo.RefreshToken.Create(ctx, stored); err != nil {
		s.log.Error("Failed to store refresh token", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	return &response.AuthResponse{
		UserID:           user.ID.String(),
		Username:         user.Username,
		Email:            user.Email,
		Role:             user.Role,
		AccessToken:      access.Token,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshToken:     refresh.Raw,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}
