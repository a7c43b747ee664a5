package usecase

import (
	"context"
	"testing"

	"lumo-api/internal/data/entity"
	"lumo-api/internal/dto/request"
	"lumo-api/pkg/apperror"
	"lumo-api/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(f *fixture) AuthService {
	return NewAuthService(f.repo, token.NewManager("test-secret", 1, 30), zap.NewNop())
}

func registerReq(username, email string) *request.RegisterRequest {
	return &request.RegisterRequest{
		Username:  username,
		Email:     email,
		Password:  "s3cret-pass",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
}

func TestRegister(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	resp, err := svc.Register(context.Background(), registerReq("ada", "Ada@Example.com"), "test-agent", "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, "ada", resp.Username)
	assert.Equal(t, "ada@example.com", resp.Email)
	assert.Equal(t, entity.RoleCustomer, resp.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	user, err := f.users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.IsActive)
	// The raw password never lands in storage
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	customer, err := f.customers.FindByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, 0, customer.LoyaltyPoints)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	_, err := svc.Register(context.Background(), registerReq("ada", "ada@example.com"), "", "")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerReq("grace", "ADA@example.com"), "", "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, apperror.CodeEmailTaken, apperror.CodeOf(err))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	_, err := svc.Register(context.Background(), registerReq("ada", "ada@example.com"), "", "")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerReq("ada", "other@example.com"), "", "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, apperror.CodeUsernameTaken, apperror.CodeOf(err))
}

func TestRegisterShortPassword(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	req := registerReq("ada", "ada@example.com")
	req.Password = "short"

	_, err := svc.Register(context.Background(), req, "", "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestLogin(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	_, err := svc.Register(context.Background(), registerReq("ada", "ada@example.com"), "", "")
	require.NoError(t, err)

	// By username
	resp, err := svc.Login(context.Background(), &request.LoginRequest{
		Identifier: "ada",
		Password:   "s3cret-pass",
	}, "test-agent", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	// By email, case-insensitive
	resp, err = svc.Login(context.Background(), &request.LoginRequest{
		Identifier: "ADA@example.com",
		Password:   "s3cret-pass",
	}, "", "")
	require.NoError(t, err)
	assert.Equal(t, "ada", resp.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	_, err := svc.Register(context.Background(), registerReq("ada", "ada@example.com"), "", "")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &request.LoginRequest{
		Identifier: "ada",
		Password:   "wrong-pass",
	}, "", "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	assert.Equal(t, apperror.CodeInvalidCredentials, apperror.CodeOf(err))

	// Unknown users get the same answer as wrong passwords
	_, err = svc.Login(context.Background(), &request.LoginRequest{
		Identifier: "nobody",
		Password:   "wrong-pass",
	}, "", "")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidCredentials, apperror.CodeOf(err))
}

func TestLoginDeactivated(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	_, err := svc.Register(context.Background(), registerReq("ada", "ada@example.com"), "", "")
	require.NoError(t, err)

	user, err := f.users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, f.users.Update(context.Background(), user))

	_, err = svc.Login(context.Background(), &request.LoginRequest{
		Identifier: "ada",
		Password:   "s3cret-pass",
	}, "", "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestRefreshRotation(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	first, err := svc.Register(context.Background(), registerReq("ada", "ada@example.com"), "", "")
	require.NoError(t, err)

	second, err := svc.Refresh(context.Background(), &request.RefreshTokenRequest{
		RefreshToken: first.RefreshToken,
	}, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The presented token is spent; replaying it must fail
	_, err = svc.Refresh(context.Background(), &request.RefreshTokenRequest{
		RefreshToken: first.RefreshToken,
	}, "", "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	assert.Equal(t, apperror.CodeInvalidToken, apperror.CodeOf(err))

	// The rotated token still works
	_, err = svc.Refresh(context.Background(), &request.RefreshTokenRequest{
		RefreshToken: second.RefreshToken,
	}, "", "")
	require.NoError(t, err)
}

func TestRefreshGarbageToken(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	_, err := svc.Refresh(context.Background(), &request.RefreshTokenRequest{
		RefreshToken: "not-a-token",
	}, "", "")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidToken, apperror.CodeOf(err))
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	resp, err := svc.Register(context.Background(), registerReq("ada", "ada@example.com"), "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), &request.LogoutRequest{
		RefreshToken: resp.RefreshToken,
	}))

	_, err = svc.Refresh(context.Background(), &request.RefreshTokenRequest{
		RefreshToken: resp.RefreshToken,
	}, "", "")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidToken, apperror.CodeOf(err))

	// Logging out an unknown token is a no-op
	require.NoError(t, svc.Logout(context.Background(), &request.LogoutRequest{
		RefreshToken: "already-gone",
	}))
}
