package repositories

import (
	"context"
	"fmt"

	"cafepos/internal/models"

	"github.com/jmoiron/sqlx"
)

// InventoryRepository defines the interface for stock level database operations.
type InventoryRepository interface {
	// Upsert writes the stock record of item.ProductID, overwriting an existing one in place.
	Upsert(ctx context.Context, executor SQLExecutor, item *models.InventoryItem) error
	// AdjustQuantity adds delta to the stock of productID and returns the number of rows touched.
	// The quantity is not clamped and may go negative.
	AdjustQuantity(ctx context.Context, executor SQLExecutor, productID int64, delta int) (int64, error)
	GetByProductID(ctx context.Context, executor SQLExecutor, productID int64) (*models.InventoryItem, error)
	// GetSnapshots joins every stock record with its active product. Records without one are dropped.
	GetSnapshots(ctx context.Context, executor SQLExecutor) ([]models.InventorySnapshot, error)
}

type inventoryRepository struct{}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository() InventoryRepository {
	return &inventoryRepository{}
}

func (r *inventoryRepository) Upsert(ctx context.Context, executor SQLExecutor, item *models.InventoryItem) error {
	query := `INSERT INTO inventory (product_id, quantity, reorder_level)
	          VALUES (?, ?, ?)
	          ON CONFLICT (product_id) DO UPDATE SET
	              quantity = excluded.quantity,
	              reorder_level = excluded.reorder_level`
	if _, err := executor.ExecContext(ctx, executor.Rebind(query), item.ProductID, item.Quantity, item.ReorderLevel); err != nil {
		return wrapError(err, fmt.Sprintf("upserting inventory for product ID %d", item.ProductID))
	}
	return nil
}

func (r *inventoryRepository) AdjustQuantity(ctx context.Context, executor SQLExecutor, productID int64, delta int) (int64, error) {
	query := `UPDATE inventory SET quantity = quantity + ? WHERE product_id = ?`
	result, err := executor.ExecContext(ctx, executor.Rebind(query), delta, productID)
	if err != nil {
		return 0, wrapError(err, fmt.Sprintf("adjusting inventory for product ID %d", productID))
	}
	rowsAffected, _ := result.RowsAffected()
	return rowsAffected, nil
}

func (r *inventoryRepository) GetByProductID(ctx context.Context, executor SQLExecutor, productID int64) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	query := `SELECT product_id, quantity, reorder_level FROM inventory WHERE product_id = ?`
	if err := sqlx.GetContext(ctx, executor, item, executor.Rebind(query), productID); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("getting inventory for product ID %d", productID))
	}
	return item, nil
}

type inventorySnapshotRow struct {
	models.Product
	Quantity     int `db:"quantity"`
	ReorderLevel int `db:"reorder_level"`
}

func (r *inventoryRepository) GetSnapshots(ctx context.Context, executor SQLExecutor) ([]models.InventorySnapshot, error) {
	var rows []inventorySnapshotRow
	query := `SELECT p.id, p.name, p.price, p.tax_rate, p.category, p.image_uri, p.is_active,
	                 i.quantity, i.reorder_level
	          FROM inventory i
	          JOIN products p ON p.id = i.product_id
	          WHERE p.is_active = ?
	          ORDER BY p.id`
	if err := sqlx.SelectContext(ctx, executor, &rows, executor.Rebind(query), true); err != nil {
		return nil, fmt.Errorf("%w: getting inventory snapshots: %v", ErrDatabaseError, err)
	}

	snapshots := make([]models.InventorySnapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, models.InventorySnapshot{
			Product: row.Product,
			Inventory: models.InventoryItem{
				ProductID:    row.Product.ID,
				Quantity:     row.Quantity,
				ReorderLevel: row.ReorderLevel,
			},
		})
	}
	return snapshots, nil
}
