package usecase

// Shared in-memory fakes for the service tests. They mirror the conditional
// updates the SQL repositories perform, and the ForUpdate methods take a
// per-row lock that is held until the fake transaction finishes, so the
// concurrency tests exercise the same serialization the database provides.

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"lumo-api/internal/data/entity"
	"lumo-api/internal/data/repository"
	"lumo-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ==================== TRANSACTIONS ====================

type fakeTx struct {
	mu        sync.Mutex
	finished  bool
	committed bool
	onFinish  []func()
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.finish(true)
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.finish(false)
	return nil
}

func (t *fakeTx) deferFinish(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onFinish = append(t.onFinish, fn)
}

func (t *fakeTx) finish(commit bool) {
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		return
	}
	t.finished = true
	t.committed = commit
	fns := t.onFinish
	t.onFinish = nil
	t.mu.Unlock()

	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

type fakeDB struct {
	mu       sync.Mutex
	beginErr error
	txs      []*fakeTx
}

func (d *fakeDB) BeginTx(ctx context.Context) (database.Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	tx := &fakeTx{}
	d.mu.Lock()
	d.txs = append(d.txs, tx)
	d.mu.Unlock()
	return tx, nil
}

// lockRow takes the named row lock and schedules its release for when the
// transaction ends, the way SELECT ... FOR UPDATE behaves.
func lockRow(q database.Querier, locks map[uuid.UUID]*sync.Mutex, mu *sync.Mutex, id uuid.UUID) {
	mu.Lock()
	rowLock, ok := locks[id]
	if !ok {
		rowLock = &sync.Mutex{}
		locks[id] = rowLock
	}
	mu.Unlock()

	rowLock.Lock()
	if tx, ok := q.(*fakeTx); ok {
		tx.deferFinish(rowLock.Unlock)
	} else {
		rowLock.Unlock()
	}
}

// ==================== USERS ====================

type memUserRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{rows: make(map[uuid.UUID]*entity.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.rows[user.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if strings.EqualFold(row.Email, email) {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Username == username {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[user.ID]; !ok {
		return fmt.Errorf("user %s not found", user.ID)
	}
	cp := *user
	r.rows[user.ID] = &cp
	return nil
}

// ==================== CUSTOMERS ====================

type memCustomerRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{rows: make(map[uuid.UUID]*entity.Customer)}
}

func (r *memCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *customer
	r.rows[customer.ID] = &cp
	return nil
}

func (r *memCustomerRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == userID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (r *memCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[customer.ID]; !ok {
		return fmt.Errorf("customer %s not found", customer.ID)
	}
	cp := *customer
	r.rows[customer.ID] = &cp
	return nil
}

func (r *memCustomerRepo) FindByUserIDForUpdateTx(ctx context.Context, q database.Querier, userID uuid.UUID) (*entity.Customer, error) {
	return r.FindByUserID(ctx, userID)
}

func (r *memCustomerRepo) AddLoyaltyPointsTx(ctx context.Context, q database.Querier, customerID uuid.UUID, delta int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[customerID]
	if !ok || row.LoyaltyPoints+delta < 0 {
		return false, nil
	}
	row.LoyaltyPoints += delta
	return true, nil
}

func (r *memCustomerRepo) points(customerID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[customerID]; ok {
		return row.LoyaltyPoints
	}
	return -1
}

// ==================== REFRESH TOKENS ====================

type memRefreshTokenRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.RefreshToken
}

func newMemRefreshTokenRepo() *memRefreshTokenRepo {
	return &memRefreshTokenRepo{rows: make(map[string]*entity.RefreshToken)}
}

func (r *memRefreshTokenRepo) Create(ctx context.Context, refreshToken *entity.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *refreshToken
	r.rows[refreshToken.TokenHash] = &cp
	return nil
}

func (r *memRefreshTokenRepo) FindValidByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[tokenHash]
	if !ok || row.RevokedAt != nil || !row.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *memRefreshTokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[tokenHash]; ok && row.RevokedAt == nil {
		now := time.Now()
		row.RevokedAt = &now
	}
	return nil
}

func (r *memRefreshTokenRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, row := range r.rows {
		if row.UserID == userID && row.RevokedAt == nil {
			row.RevokedAt = &now
		}
	}
	return nil
}

func (r *memRefreshTokenRepo) CleanExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, row := range r.rows {
		if !row.ExpiresAt.After(time.Now()) {
			delete(r.rows, hash)
		}
	}
	return nil
}

// ==================== MOVIES ====================

type memMovieRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.Movie
}

func newMemMovieRepo() *memMovieRepo {
	return &memMovieRepo{rows: make(map[uuid.UUID]*entity.Movie)}
}

func (r *memMovieRepo) Create(ctx context.Context, movie *entity.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *movie
	r.rows[movie.ID] = &cp
	return nil
}

func (r *memMovieRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (r *memMovieRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok && row.IsActive {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (r *memMovieRepo) FindByTMDBID(ctx context.Context, tmdbID int64) (*entity.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.TMDBID != nil && *row.TMDBID == tmdbID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMovieRepo) Update(ctx context.Context, movie *entity.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[movie.ID]; !ok {
		return fmt.Errorf("movie %s not found", movie.ID)
	}
	cp := *movie
	r.rows[movie.ID] = &cp
	return nil
}

func (r *memMovieRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("movie %s not found", id)
	}
	row.IsActive = false
	return nil
}

func (r *memMovieRepo) FindAll(ctx context.Context, filter repository.MovieFilter, offset, limit int) ([]*entity.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Movie
	for _, row := range r.rows {
		if !row.IsActive {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMovieRepo) CountAll(ctx context.Context, filter repository.MovieFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.IsActive {
			n++
		}
	}
	return n, nil
}

// ==================== GENRES ====================

type memGenreRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.Genre
}

func newMemGenreRepo() *memGenreRepo {
	return &memGenreRepo{rows: make(map[uuid.UUID]*entity.Genre)}
}

func (r *memGenreRepo) Create(ctx context.Context, genre *entity.Genre) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *genre
	r.rows[genre.ID] = &cp
	return nil
}

func (r *memGenreRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (r *memGenreRepo) FindByName(ctx context.Context, name string) (*entity.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if strings.EqualFold(row.Name, name) {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memGenreRepo) FindAll(ctx context.Context) ([]*entity.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Genre
	for _, row := range r.rows {
		cp := *row
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memGenreRepo) FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.Genre, error) {
	return nil, nil
}

// ==================== MOVIE GENRES ====================

type memMovieGenreRepo struct {
	mu     sync.Mutex
	links  []*entity.MovieGenre
	genres *memGenreRepo
}

func (r *memMovieGenreRepo) CreateBatch(ctx context.Context, movieGenres []*entity.MovieGenre) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, link := range movieGenres {
		cp := *link
		r.links = append(r.links, &cp)
	}
	return nil
}

func (r *memMovieGenreRepo) DeleteByMovieID(ctx context.Context, movieID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.links[:0]
	for _, link := range r.links {
		if link.MovieID != movieID {
			kept = append(kept, link)
		}
	}
	r.links = kept
	return nil
}

func (r *memMovieGenreRepo) FindGenresByMovieIDs(ctx context.Context, movieIDs []uuid.UUID) (map[uuid.UUID][]*entity.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(movieIDs))
	for _, id := range movieIDs {
		wanted[id] = true
	}
	out := make(map[uuid.UUID][]*entity.Genre)
	for _, link := range r.links {
		if !wanted[link.MovieID] {
			continue
		}
		genre, _ := r.genres.FindByID(ctx, link.GenreID)
		if genre != nil {
			out[link.MovieID] = append(out[link.MovieID], genre)
		}
	}
	return out, nil
}

// ==================== SHOWTIMES ====================

type memShowtimeRepo struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]*entity.Showtime
	rowLocks map[uuid.UUID]*sync.Mutex
}

func newMemShowtimeRepo() *memShowtimeRepo {
	return &memShowtimeRepo{
		rows:     make(map[uuid.UUID]*entity.Showtime),
		rowLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (r *memShowtimeRepo) Create(ctx context.Context, showtime *entity.Showtime) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *showtime
	r.rows[showtime.ID] = &cp
	return nil
}

func (r *memShowtimeRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (r *memShowtimeRepo) Update(ctx context.Context, showtime *entity.Showtime) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[showtime.ID]
	if !ok {
		return fmt.Errorf("showtime %s not found", showtime.ID)
	}
	// Mirrors the SQL update, which never touches the seat counters
	row.MovieID = showtime.MovieID
	row.StartsAt = showtime.StartsAt
	row.TheaterName = showtime.TheaterName
	row.ScreenNumber = showtime.ScreenNumber
	row.TicketPrice = showtime.TicketPrice
	row.UpdatedAt = showtime.UpdatedAt
	return nil
}

func (r *memShowtimeRepo) FindAll(ctx context.Context, movieID *uuid.UUID, upcomingOnly bool, offset, limit int) ([]*entity.Showtime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Showtime
	for _, row := range r.rows {
		if movieID != nil && row.MovieID != *movieID {
			continue
		}
		if upcomingOnly && !row.StartsAt.After(time.Now()) {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memShowtimeRepo) CountAll(ctx context.Context, movieID *uuid.UUID, upcomingOnly bool) (int64, error) {
	rows, err := r.FindAll(ctx, movieID, upcomingOnly, 0, 1<<30)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *memShowtimeRepo) FindByIDForUpdateTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Showtime, error) {
	lockRow(q, r.rowLocks, &r.mu, id)
	return r.FindByID(ctx, id)
}

func (r *memShowtimeRepo) DecrementAvailableSeatsTx(ctx context.Context, q database.Querier, id uuid.UUID, count int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.AvailableSeats < count {
		return false, nil
	}
	row.AvailableSeats -= count
	return true, nil
}

func (r *memShowtimeRepo) IncrementAvailableSeatsTx(ctx context.Context, q database.Querier, id uuid.UUID, count int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.AvailableSeats+count > row.TotalSeats {
		return false, nil
	}
	row.AvailableSeats += count
	return true, nil
}

func (r *memShowtimeRepo) UpdateSeatsTx(ctx context.Context, q database.Querier, id uuid.UUID, totalSeats, availableSeats int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("showtime %s not found", id)
	}
	row.TotalSeats = totalSeats
	row.AvailableSeats = availableSeats
	return nil
}

func (r *memShowtimeRepo) availableSeats(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		return row.AvailableSeats
	}
	return -1
}

// ==================== BOOKINGS ====================

type memBookingRepo struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]*entity.Booking
	rowLocks map[uuid.UUID]*sync.Mutex
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{
		rows:     make(map[uuid.UUID]*entity.Booking),
		rowLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (r *memBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (r *memBookingRepo) FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, row := range r.rows {
		if row.CustomerID == customerID {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memBookingRepo) CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (r *memBookingRepo) CreateTx(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *booking
	r.rows[booking.ID] = &cp
	return nil
}

func (r *memBookingRepo) FindByIDForUpdateTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Booking, error) {
	lockRow(q, r.rowLocks, &r.mu, id)
	return r.FindByID(ctx, id)
}

func (r *memBookingRepo) MarkCancelledTx(ctx context.Context, q database.Querier, id uuid.UUID, cancelledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.Status != entity.BookingStatusActive {
		return fmt.Errorf("booking %s is not active", id)
	}
	row.Status = entity.BookingStatusCancelled
	row.CancelledAt = &cancelledAt
	return nil
}

// ==================== PAYMENTS ====================

type memPaymentRepo struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]*entity.Payment
	bookings *memBookingRepo
}

func (r *memPaymentRepo) CreateTx(ctx context.Context, q database.Querier, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *payment
	r.rows[payment.ID] = &cp
	return nil
}

func (r *memPaymentRepo) ExistsCompletedForBookingTx(ctx context.Context, q database.Querier, bookingID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.BookingID == bookingID && row.Status == entity.PaymentStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (r *memPaymentRepo) FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Payment
	for _, row := range r.rows {
		booking, _ := r.bookings.FindByID(ctx, row.BookingID)
		if booking != nil && booking.CustomerID == customerID {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memPaymentRepo) CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error) {
	rows, err := r.FindByCustomerID(ctx, customerID, 1<<30, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// ==================== CHAT MESSAGES ====================

type memChatRepo struct {
	mu        sync.Mutex
	rows      []*entity.ChatMessage
	createErr error
}

func (r *memChatRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *message
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memChatRepo) FindRecentByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ChatMessage
	for _, row := range r.rows {
		if row.UserID == userID {
			cp := *row
			out = append(out, &cp)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *memChatRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ChatMessage
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID {
			cp := *r.rows[i]
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memChatRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.UserID == userID {
			n++
		}
	}
	return n, nil
}

// ==================== FIXTURE ====================

type fixture struct {
	db          *fakeDB
	users       *memUserRepo
	customers   *memCustomerRepo
	tokens      *memRefreshTokenRepo
	movies      *memMovieRepo
	genres      *memGenreRepo
	movieGenres *memMovieGenreRepo
	showtimes   *memShowtimeRepo
	bookings    *memBookingRepo
	payments    *memPaymentRepo
	chats       *memChatRepo
	repo        *repository.Repository
}

func newFixture() *fixture {
	f := &fixture{
		db:        &fakeDB{},
		users:     newMemUserRepo(),
		customers: newMemCustomerRepo(),
		tokens:    newMemRefreshTokenRepo(),
		movies:    newMemMovieRepo(),
		genres:    newMemGenreRepo(),
		showtimes: newMemShowtimeRepo(),
		bookings:  newMemBookingRepo(),
		chats:     &memChatRepo{},
	}
	f.movieGenres = &memMovieGenreRepo{genres: f.genres}
	f.payments = &memPaymentRepo{rows: make(map[uuid.UUID]*entity.Payment), bookings: f.bookings}
	f.repo = &repository.Repository{
		User:         f.users,
		Customer:     f.customers,
		RefreshToken: f.tokens,
		Movie:        f.movies,
		Genre:        f.genres,
		MovieGenre:   f.movieGenres,
		Showtime:     f.showtimes,
		Booking:      f.bookings,
		Payment:      f.payments,
		ChatMessage:  f.chats,
	}
	return f
}

func (f *fixture) seedUser(role entity.UserRole, loyaltyPoints int) (*entity.User, *entity.Customer) {
	now := time.Now()
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username:     "user-" + uuid.NewString()[:8],
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     true,
	}
	customer := &entity.Customer{
		Base:                        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:                      user.ID,
		PreferredLanguage:           entity.LanguageEnglish,
		ReceiveMarketingEmails:      true,
		ReceiveBookingNotifications: true,
		LoyaltyPoints:               loyaltyPoints,
	}
	_ = f.users.Create(context.Background(), user)
	_ = f.customers.Create(context.Background(), customer)
	return user, customer
}

func (f *fixture) seedMovie(title string) *entity.Movie {
	now := time.Now()
	movie := &entity.Movie{
		Base:            entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Title:           title,
		DurationMinutes: 120,
		ReleaseDate:     now.AddDate(0, -1, 0),
		IsActive:        true,
	}
	_ = f.movies.Create(context.Background(), movie)
	return movie
}

func (f *fixture) seedShowtime(movieID uuid.UUID, startsAt time.Time, total, available int, price string) *entity.Showtime {
	now := time.Now()
	showtime := &entity.Showtime{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		MovieID:        movieID,
		StartsAt:       startsAt,
		TheaterName:    "Main Hall",
		ScreenNumber:   1,
		TotalSeats:     total,
		AvailableSeats: available,
		TicketPrice:    mustDecimal(price),
	}
	_ = f.showtimes.Create(context.Background(), showtime)
	return showtime
}

func (f *fixture) seedBooking(customerID, showtimeID uuid.UUID, seats int, total string, pointsUsed int) *entity.Booking {
	now := time.Now()
	booking := &entity.Booking{
		Base:              entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		BookingReference:  "BK0000000000",
		CustomerID:        customerID,
		ShowtimeID:        showtimeID,
		SeatCount:         seats,
		BasePricePerSeat:  mustDecimal(total),
		TotalAmount:       mustDecimal(total),
		LoyaltyPointsUsed: pointsUsed,
		Status:            entity.BookingStatusActive,
	}
	_ = f.bookings.CreateTx(context.Background(), nil, booking)
	return booking
}
