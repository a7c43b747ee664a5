package usecase

import (
	"context"
	"testing"
	"time"

	"lumo-api/internal/dto/request"
	"lumo-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newShowtimeService(f *fixture) ShowtimeService {
	return NewShowtimeService(f.repo, f.db, zap.NewNop())
}

func TestCreateShowtime(t *testing.T) {
	f := newFixture()
	movie := f.seedMovie("Arrival")
	svc := newShowtimeService(f)

	startsAt := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	resp, err := svc.CreateShowtime(context.Background(), &request.ShowtimeRequest{
		MovieID:      movie.ID.String(),
		StartsAt:     startsAt.Format(time.RFC3339),
		TheaterName:  "Grand Hall",
		ScreenNumber: 2,
		TotalSeats:   120,
		TicketPrice:  "15.00",
	})
	require.NoError(t, err)

	assert.Equal(t, "Arrival", resp.MovieTitle)
	assert.Equal(t, "Grand Hall", resp.TheaterName)
	assert.Equal(t, 120, resp.TotalSeats)
	// A new showtime starts with every seat on sale
	assert.Equal(t, 120, resp.AvailableSeats)
	assert.Equal(t, "15", resp.TicketPrice.String())
}

func TestCreateShowtimeInPast(t *testing.T) {
	f := newFixture()
	movie := f.seedMovie("Arrival")
	svc := newShowtimeService(f)

	_, err := svc.CreateShowtime(context.Background(), &request.ShowtimeRequest{
		MovieID:      movie.ID.String(),
		StartsAt:     time.Now().Add(-time.Hour).Format(time.RFC3339),
		TheaterName:  "Grand Hall",
		ScreenNumber: 2,
		TotalSeats:   120,
		TicketPrice:  "15.00",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestCreateShowtimeInactiveMovie(t *testing.T) {
	f := newFixture()
	movie := f.seedMovie("Arrival")
	require.NoError(t, f.movies.Deactivate(context.Background(), movie.ID))
	svc := newShowtimeService(f)

	_, err := svc.CreateShowtime(context.Background(), &request.ShowtimeRequest{
		MovieID:      movie.ID.String(),
		StartsAt:     time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		TheaterName:  "Grand Hall",
		ScreenNumber: 2,
		TotalSeats:   120,
		TicketPrice:  "15.00",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, apperror.CodeMovieNotFound, apperror.CodeOf(err))
}

func TestCreateShowtimeNonPositivePrice(t *testing.T) {
	f := newFixture()
	movie := f.seedMovie("Arrival")
	svc := newShowtimeService(f)

	_, err := svc.CreateShowtime(context.Background(), &request.ShowtimeRequest{
		MovieID:      movie.ID.String(),
		StartsAt:     time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		TheaterName:  "Grand Hall",
		ScreenNumber: 2,
		TotalSeats:   120,
		TicketPrice:  "0",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestGetShowtimes(t *testing.T) {
	f := newFixture()
	movie := f.seedMovie("Arrival")
	other := f.seedMovie("Blade Runner")
	f.seedShowtime(movie.ID, time.Now().Add(-2*time.Hour), 100, 100, "12.00")
	f.seedShowtime(movie.ID, time.Now().Add(24*time.Hour), 100, 100, "12.00")
	f.seedShowtime(other.ID, time.Now().Add(24*time.Hour), 80, 80, "14.00")

	svc := newShowtimeService(f)

	// Default listing hides showtimes that already started
	page, err := svc.GetShowtimes(context.Background(), "", true, &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)

	// Movie filter narrows further
	page, err = svc.GetShowtimes(context.Background(), movie.ID.String(), true, &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Arrival", page.Data[0].MovieTitle)

	// Including past ones shows the full schedule
	page, err = svc.GetShowtimes(context.Background(), movie.ID.String(), false, &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
}

func TestGetShowtimeByIDNotFound(t *testing.T) {
	f := newFixture()
	svc := newShowtimeService(f)

	_, err := svc.GetShowtimeByID(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, apperror.CodeShowtimeNotFound, apperror.CodeOf(err))
}

// ==================== ADMIN METHODS ====================

func TestUpdateShowtimePrice(t *testing.T) {
	f := newFixture()
	movie := f.seedMovie("Arrival")
	showtime := f.seedShowtime(movie.ID, time.Now().Add(24*time.Hour), 100, 100, "12.00")

	svc := newShowtimeService(f)

	price := "18.00"
	resp, err := svc.UpdateShowtime(context.Background(), showtime.ID.String(), &request.ShowtimeUpdateRequest{
		TicketPrice: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "18", resp.TicketPrice.String())
}

func TestUpdateShowtimeResize(t *testing.T) {
	f := newFixture()
	movie := f.seedMovie("Arrival")
	// 3 of 100 seats already booked
	showtime := f.seedShowtime(movie.ID, time.Now().Add(24*time.Hour), 100, 97, "12.00")

	svc := newShowtimeService(f)

	// Shrinking keeps the booked seats and trims the rest
	newTotal := 50
	resp, err := svc.UpdateShowtime(context.Background(), showtime.ID.String(), &request.ShowtimeUpdateRequest{
		TotalSeats: &newTotal,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, resp.TotalSeats)
	assert.Equal(t, 47, resp.AvailableSeats)
}

func TestUpdateShowtimeResizeBelowBooked(t *testing.T) {
	f := newFixture()
	movie := f.seedMovie("Arrival")
	showtime := f.seedShowtime(movie.ID, time.Now().Add(24*time.Hour), 100, 97, "12.00")

	svc := newShowtimeService(f)

	newTotal := 2
	_, err := svc.UpdateShowtime(context.Background(), showtime.ID.String(), &request.ShowtimeUpdateRequest{
		TotalSeats: &newTotal,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, apperror.CodeInsufficientCapacity, apperror.CodeOf(err))

	// Counters are untouched after the rejected resize
	assert.Equal(t, 97, f.showtimes.availableSeats(showtime.ID))
}

func TestUpdateShowtimeNotFound(t *testing.T) {
	f := newFixture()
	svc := newShowtimeService(f)

	name := "Grand Hall"
	_, err := svc.UpdateShowtime(context.Background(), uuid.NewString(), &request.ShowtimeUpdateRequest{
		TheaterName: &name,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeShowtimeNotFound, apperror.CodeOf(err))
}
