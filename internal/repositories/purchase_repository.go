package repositories

import (
	"context"
	"fmt"

	"cafepos/internal/models"

	"github.com/jmoiron/sqlx"
)

// PurchaseRepository defines the interface for goods receipt database operations.
type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, executor SQLExecutor, purchase *models.Purchase) (int64, error)
	GetPurchases(ctx context.Context, executor SQLExecutor) ([]models.Purchase, error)
}

type purchaseRepository struct{}

// NewPurchaseRepository creates a new instance of PurchaseRepository.
func NewPurchaseRepository() PurchaseRepository {
	return &purchaseRepository{}
}

type purchaseRow struct {
	ID          int64   `db:"id"`
	ProductID   int64   `db:"product_id"`
	Quantity    int     `db:"quantity"`
	Supplier    string  `db:"supplier"`
	CostPerUnit float64 `db:"cost_per_unit"`
	Timestamp   int64   `db:"timestamp"`
}

func (r *purchaseRepository) CreatePurchase(ctx context.Context, executor SQLExecutor, purchase *models.Purchase) (int64, error) {
	query := `INSERT INTO purchases (product_id, quantity, supplier, cost_per_unit, timestamp)
	          VALUES (?, ?, ?, ?, ?)
	          RETURNING id`
	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		purchase.ProductID, purchase.Quantity, purchase.Supplier, purchase.CostPerUnit, toMillis(purchase.Timestamp),
	).Scan(&purchase.ID)
	if err != nil {
		return 0, wrapError(err, fmt.Sprintf("creating purchase for product ID %d", purchase.ProductID))
	}
	return purchase.ID, nil
}

func (r *purchaseRepository) GetPurchases(ctx context.Context, executor SQLExecutor) ([]models.Purchase, error) {
	var rows []purchaseRow
	query := `SELECT id, product_id, quantity, supplier, cost_per_unit, timestamp
	          FROM purchases ORDER BY timestamp DESC, id DESC`
	if err := sqlx.SelectContext(ctx, executor, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: getting purchases: %v", ErrDatabaseError, err)
	}
	purchases := make([]models.Purchase, 0, len(rows))
	for _, row := range rows {
		purchases = append(purchases, models.Purchase{
			ID:          row.ID,
			ProductID:   row.ProductID,
			Quantity:    row.Quantity,
			Supplier:    row.Supplier,
			CostPerUnit: row.CostPerUnit,
			Timestamp:   fromMillis(row.Timestamp),
		})
	}
	return purchases, nil
}
