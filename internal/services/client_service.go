package services

import (
	"context"
	"fmt"

	"cafepos/internal/models"
	"cafepos/internal/repositories"

	"github.com/jmoiron/sqlx"
)

// AddCustomer creates a customer with no loyalty points.
func (s *cafeService) AddCustomer(ctx context.Context, name string, discountPercent float64) (int64, error) {
	customer := models.Customer{Name: name, LoyaltyPoints: 0, DiscountPercent: discountPercent}
	err := s.inTx(ctx, "adding customer", func(tx *sqlx.Tx) error {
		if _, err := s.customerRepo.Upsert(ctx, tx, &customer); err != nil {
			return fmt.Errorf("failed to create customer record: %w", err)
		}
		return nil
	}, repositories.TableCustomers)
	if err != nil {
		return 0, err
	}
	return customer.ID, nil
}
