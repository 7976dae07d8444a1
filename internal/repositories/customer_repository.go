package repositories

import (
	"context"
	"fmt"

	"cafepos/internal/models"

	"github.com/jmoiron/sqlx"
)

// CustomerRepository defines the interface for customer-related database operations.
type CustomerRepository interface {
	Upsert(ctx context.Context, executor SQLExecutor, customer *models.Customer) (int64, error)
	GetAll(ctx context.Context, executor SQLExecutor) ([]models.Customer, error)
}

type customerRepository struct{}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository() CustomerRepository {
	return &customerRepository{}
}

// Upsert inserts a customer, or overwrites the existing row with the same ID in place.
func (r *customerRepository) Upsert(ctx context.Context, executor SQLExecutor, customer *models.Customer) (int64, error) {
	var (
		query string
		args  []interface{}
	)
	if customer.ID == 0 {
		query = `INSERT INTO customers (name, loyalty_points, discount_percent)
		         VALUES (?, ?, ?)
		         RETURNING id`
		args = []interface{}{customer.Name, customer.LoyaltyPoints, customer.DiscountPercent}
	} else {
		query = `INSERT INTO customers (id, name, loyalty_points, discount_percent)
		         VALUES (?, ?, ?, ?)
		         ON CONFLICT (id) DO UPDATE SET
		             name = excluded.name,
		             loyalty_points = excluded.loyalty_points,
		             discount_percent = excluded.discount_percent
		         RETURNING id`
		args = []interface{}{customer.ID, customer.Name, customer.LoyaltyPoints, customer.DiscountPercent}
	}

	if err := executor.QueryRowxContext(ctx, executor.Rebind(query), args...).Scan(&customer.ID); err != nil {
		return 0, wrapError(err, fmt.Sprintf("upserting customer '%s'", customer.Name))
	}
	return customer.ID, nil
}

// GetAll retrieves every customer ordered by ID.
func (r *customerRepository) GetAll(ctx context.Context, executor SQLExecutor) ([]models.Customer, error) {
	customers := []models.Customer{}
	query := `SELECT id, name, loyalty_points, discount_percent FROM customers ORDER BY id`
	if err := sqlx.SelectContext(ctx, executor, &customers, query); err != nil {
		return nil, fmt.Errorf("%w: getting customers: %v", ErrDatabaseError, err)
	}
	return customers, nil
}
