package services

import (
	"context"
	"fmt"
	"time"

	"cafepos/internal/database"
	"cafepos/internal/models"
	"cafepos/internal/reporting"

	"github.com/jmoiron/sqlx"
)

// ComputeReport summarizes the sales recorded between from and to, both inclusive.
// Products are resolved against the active catalog.
func (s *cafeService) ComputeReport(ctx context.Context, from, to time.Time) (*models.ReportSummary, error) {
	var (
		sales     []models.Sale
		products  []models.Product
		employees []models.Employee
	)
	// One transaction so the three reads see the same state.
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		if sales, err = s.saleRepo.GetSalesBetween(ctx, tx, from, to); err != nil {
			return err
		}
		if products, err = s.productRepo.GetActive(ctx, tx); err != nil {
			return err
		}
		employees, err = s.employeeRepo.GetAll(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load report data: %w", err)
	}

	summary := reporting.Compute(sales, products, employees, from, to)
	return &summary, nil
}
