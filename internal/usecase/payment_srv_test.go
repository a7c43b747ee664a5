package usecase

import (
	"context"
	"testing"
	"time"

	"lumo-api/internal/data/entity"
	"lumo-api/internal/dto/request"
	"lumo-api/internal/loyalty"
	"lumo-api/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPaymentService(f *fixture) PaymentService {
	return NewPaymentService(f.repo, f.db, loyalty.DefaultPolicy(), zap.NewNop())
}

func TestCreatePayment(t *testing.T) {
	f := newFixture()
	user, customer := f.seedUser(entity.RoleCustomer, 0)
	movie := f.seedMovie("Arrival")
	showtime := f.seedShowtime(movie.ID, time.Now().Add(24*time.Hour), 100, 97, "12.50")
	booking := f.seedBooking(customer.ID, showtime.ID, 3, "37.50", 0)

	svc := newPaymentService(f)

	resp, err := svc.CreatePayment(context.Background(), user.ID, &request.CreatePaymentRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "credit_card",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusCompleted, resp.Status)
	assert.Equal(t, "37.5", resp.Amount.String())
	assert.NotEmpty(t, resp.TransactionID)
	assert.NotNil(t, resp.ProcessedAt)
	// One point per whole currency unit of the charged amount
	assert.Equal(t, 37, resp.LoyaltyPointsEarned)
	assert.Equal(t, 37, f.customers.points(customer.ID))
}

func TestCreatePaymentDuplicate(t *testing.T) {
	f := newFixture()
	user, customer := f.seedUser(entity.RoleCustomer, 0)
	movie := f.seedMovie("Arrival")
	showtime := f.seedShowtime(movie.ID, time.Now().Add(24*time.Hour), 100, 97, "12.50")
	booking := f.seedBooking(customer.ID, showtime.ID, 3, "37.50", 0)

	svc := newPaymentService(f)

	req := &request.CreatePaymentRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "paypal",
	}

	_, err := svc.CreatePayment(context.Background(), user.ID, req)
	require.NoError(t, err)

	_, err = svc.CreatePayment(context.Background(), user.ID, req)
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, apperror.CodeDuplicatePayment, apperror.CodeOf(err))
	// Points are only earned once
	assert.Equal(t, 37, f.customers.points(customer.ID))
}

func TestCreatePaymentCancelledBooking(t *testing.T) {
	f := newFixture()
	user, customer := f.seedUser(entity.RoleCustomer, 0)
	movie := f.seedMovie("Arrival")
	showtime := f.seedShowtime(movie.ID, time.Now().Add(24*time.Hour), 100, 97, "12.50")
	booking := f.seedBooking(customer.ID, showtime.ID, 3, "37.50", 0)

	require.NoError(t, f.bookings.MarkCancelledTx(context.Background(), nil, booking.ID, time.Now()))

	svc := newPaymentService(f)

	_, err := svc.CreatePayment(context.Background(), user.ID, &request.CreatePaymentRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "credit_card",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, apperror.CodeBookingNotPayable, apperror.CodeOf(err))
}

func TestCreatePaymentNotOwner(t *testing.T) {
	f := newFixture()
	_, owner := f.seedUser(entity.RoleCustomer, 0)
	other, _ := f.seedUser(entity.RoleCustomer, 0)
	movie := f.seedMovie("Arrival")
	showtime := f.seedShowtime(movie.ID, time.Now().Add(24*time.Hour), 100, 97, "12.50")
	booking := f.seedBooking(owner.ID, showtime.ID, 3, "37.50", 0)

	svc := newPaymentService(f)

	_, err := svc.CreatePayment(context.Background(), other.ID, &request.CreatePaymentRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "credit_card",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindPermissionDenied, apperror.KindOf(err))
}

func TestCreatePaymentInvalidMethod(t *testing.T) {
	f := newFixture()
	user, customer := f.seedUser(entity.RoleCustomer, 0)
	movie := f.seedMovie("Arrival")
	showtime := f.seedShowtime(movie.ID, time.Now().Add(24*time.Hour), 100, 97, "12.50")
	booking := f.seedBooking(customer.ID, showtime.ID, 3, "37.50", 0)

	svc := newPaymentService(f)

	_, err := svc.CreatePayment(context.Background(), user.ID, &request.CreatePaymentRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "cash",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestGetPaymentByIDNotOwner(t *testing.T) {
	f := newFixture()
	user, customer := f.seedUser(entity.RoleCustomer, 0)
	other, _ := f.seedUser(entity.RoleCustomer, 0)
	movie := f.seedMovie("Arrival")
	showtime := f.seedShowtime(movie.ID, time.Now().Add(24*time.Hour), 100, 97, "12.50")
	booking := f.seedBooking(customer.ID, showtime.ID, 3, "37.50", 0)

	svc := newPaymentService(f)

	resp, err := svc.CreatePayment(context.Background(), user.ID, &request.CreatePaymentRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "credit_card",
	})
	require.NoError(t, err)

	_, err = svc.GetPaymentByID(context.Background(), other.ID, resp.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindPermissionDenied, apperror.KindOf(err))

	got, err := svc.GetPaymentByID(context.Background(), user.ID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.TransactionID, got.TransactionID)
}

func TestGetUserPayments(t *testing.T) {
	f := newFixture()
	user, customer := f.seedUser(entity.RoleCustomer, 0)
	movie := f.seedMovie("Arrival")
	showtime := f.seedShowtime(movie.ID, time.Now().Add(24*time.Hour), 100, 90, "10.00")

	svc := newPaymentService(f)

	for i := 0; i < 3; i++ {
		booking := f.seedBooking(customer.ID, showtime.ID, 1, "10.00", 0)
		_, err := svc.CreatePayment(context.Background(), user.ID, &request.CreatePaymentRequest{
			BookingID:     booking.ID.String(),
			PaymentMethod: "debit_card",
		})
		require.NoError(t, err)
	}

	page, err := svc.GetUserPayments(context.Background(), user.ID, &request.PaginatedRequest{Page: 1, PerPage: 2})
	require.NoError(t, err)

	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(3), page.Pagination.Total)
}
