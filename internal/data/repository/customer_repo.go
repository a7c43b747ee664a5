package repository

import (
	"context"
	"fmt"

	"lumo-api/internal/data/entity"
	"lumo-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error

	// Transactional loyalty accounting. AddLoyaltyPointsTx accepts negative
	// deltas; the balance check keeps the stored value non-negative.
	FindByUserIDForUpdateTx(ctx context.Context, q database.Querier, userID uuid.UUID) (*entity.Customer, error)
	AddLoyaltyPointsTx(ctx context.Context, q database.Querier, customerID uuid.UUID, delta int) (bool, error)
}

type customerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCustomerRepository(db database.PgxIface, log *zap.Logger) CustomerRepository {
	return &customerRepository{
		db:  db,
		log: log.With(zap.String("repository", "customer")),
	}
}

const customerColumns = `id, user_id, phone, date_of_birth, preferred_language,
	       receive_marketing_emails, receive_booking_notifications, loyalty_points,
	       created_at, updated_at`

func (r *customerRepository) scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var customer entity.Customer
	err := row.Scan(
		&customer.ID,
		&customer.UserID,
		&customer.Phone,
		&customer.DateOfBirth,
		&customer.PreferredLanguage,
		&customer.ReceiveMarketingEmails,
		&customer.ReceiveBookingNotifications,
		&customer.LoyaltyPoints,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, user_id, phone, date_of_birth, preferred_language,
		                      receive_marketing_emails, receive_booking_notifications,
		                      loyalty_points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		customer.ID,
		customer.UserID,
		customer.Phone,
		customer.DateOfBirth,
		customer.PreferredLanguage,
		customer.ReceiveMarketingEmails,
		customer.ReceiveBookingNotifications,
		customer.LoyaltyPoints,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create customer",
			zap.Error(err),
			zap.String("user_id", customer.UserID.String()),
		)
		return fmt.Errorf("create customer for user %s: %w", customer.UserID.String(), err)
	}

	return nil
}

func (r *customerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1`

	customer, err := r.scanCustomer(r.db.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find customer by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find customer by user ID %s: %w", userID.String(), err)
	}

	return customer, nil
}

func (r *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := r.scanCustomer(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find customer by ID",
			zap.Error(err),
			zap.String("customer_id", id.String()),
		)
		return nil, fmt.Errorf("find customer by ID %s: %w", id.String(), err)
	}

	return customer, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET phone = $2, date_of_birth = $3, preferred_language = $4,
		    receive_marketing_emails = $5, receive_booking_notifications = $6,
		    updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		customer.ID,
		customer.Phone,
		customer.DateOfBirth,
		customer.PreferredLanguage,
		customer.ReceiveMarketingEmails,
		customer.ReceiveBookingNotifications,
		customer.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update customer",
			zap.Error(err),
			zap.String("customer_id", customer.ID.String()),
		)
		return fmt.Errorf("update customer %s: %w", customer.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("customer %s not found", customer.ID.String())
	}

	return nil
}

func (r *customerRepository) FindByUserIDForUpdateTx(ctx context.Context, q database.Querier, userID uuid.UUID) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1 FOR UPDATE`

	customer, err := r.scanCustomer(q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock customer row",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("lock customer by user ID %s: %w", userID.String(), err)
	}

	return customer, nil
}

// AddLoyaltyPointsTx returns false when a deduction would drive the
// balance negative; the row is left untouched in that case.
func (r *customerRepository) AddLoyaltyPointsTx(ctx context.Context, q database.Querier, customerID uuid.UUID, delta int) (bool, error) {
	query := `
		UPDATE customers
		SET loyalty_points = loyalty_points + $2, updated_at = NOW()
		WHERE id = $1 AND loyalty_points + $2 >= 0
	`

	result, err := q.Exec(ctx, query, customerID, delta)
	if err != nil {
		r.log.Error("Failed to adjust loyalty points",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
			zap.Int("delta", delta),
		)
		return false, fmt.Errorf("adjust loyalty points for customer %s: %w", customerID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
