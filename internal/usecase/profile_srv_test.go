package usecase

import (
	"context"
	"testing"

	"lumo-api/internal/data/entity"
	"lumo-api/internal/dto/request"
	"lumo-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProfileService(f *fixture) ProfileService {
	return NewProfileService(f.repo, zap.NewNop())
}

func TestGetProfile(t *testing.T) {
	f := newFixture()
	user, _ := f.seedUser(entity.RoleCustomer, 120)

	svc := newProfileService(f)

	resp, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.Username, resp.Username)
	assert.Equal(t, "en", resp.PreferredLanguage)
	assert.Equal(t, 120, resp.LoyaltyPoints)
}

func TestGetProfileUnknownUser(t *testing.T) {
	f := newFixture()
	svc := newProfileService(f)

	_, err := svc.GetProfile(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, apperror.CodeUserNotFound, apperror.CodeOf(err))
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture()
	user, _ := f.seedUser(entity.RoleCustomer, 0)

	svc := newProfileService(f)

	firstName := "Grace"
	phone := "+15551234567"
	dob := "1990-03-14"
	lang := "fr"
	marketing := false
	resp, err := svc.UpdateProfile(context.Background(), user.ID, &request.UpdateProfileRequest{
		FirstName:              &firstName,
		Phone:                  &phone,
		DateOfBirth:            &dob,
		PreferredLanguage:      &lang,
		ReceiveMarketingEmails: &marketing,
	})
	require.NoError(t, err)

	assert.Equal(t, "Grace", resp.FirstName)
	require.NotNil(t, resp.Phone)
	assert.Equal(t, "+15551234567", *resp.Phone)
	require.NotNil(t, resp.DateOfBirth)
	assert.Equal(t, "1990-03-14", *resp.DateOfBirth)
	assert.Equal(t, "fr", resp.PreferredLanguage)
	assert.False(t, resp.ReceiveMarketingEmails)
	// Untouched fields keep their values
	assert.Equal(t, "User", resp.LastName)
	assert.True(t, resp.ReceiveBookingNotifications)
}

func TestUpdateProfileBadLanguage(t *testing.T) {
	f := newFixture()
	user, _ := f.seedUser(entity.RoleCustomer, 0)

	svc := newProfileService(f)

	lang := "de"
	_, err := svc.UpdateProfile(context.Background(), user.ID, &request.UpdateProfileRequest{
		PreferredLanguage: &lang,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
