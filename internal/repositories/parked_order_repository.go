package repositories

import (
	"context"
	"fmt"

	"cafepos/internal/models"

	"github.com/jmoiron/sqlx"
)

// ParkedOrderRepository defines the interface for parked order database operations.
type ParkedOrderRepository interface {
	CreateParkedOrder(ctx context.Context, executor SQLExecutor, order *models.ParkedOrder) (int64, error)
	// GetParkedOrderByID loads the header and its items, or returns ErrNotFound.
	GetParkedOrderByID(ctx context.Context, executor SQLExecutor, id int64) (*models.ParkedOrder, error)
	GetParkedOrders(ctx context.Context, executor SQLExecutor) ([]models.ParkedOrder, error)
	DeleteParkedOrderItems(ctx context.Context, executor SQLExecutor, orderID int64) error
	// DeleteParkedOrder removes the header and reports how many rows were deleted.
	DeleteParkedOrder(ctx context.Context, executor SQLExecutor, orderID int64) (int64, error)
}

type parkedOrderRepository struct{}

// NewParkedOrderRepository creates a new instance of ParkedOrderRepository.
func NewParkedOrderRepository() ParkedOrderRepository {
	return &parkedOrderRepository{}
}

type parkedOrderRow struct {
	ID         int64  `db:"id"`
	CreatedAt  int64  `db:"created_at"`
	Name       string `db:"name"`
	EmployeeID int64  `db:"employee_id"`
}

func (row parkedOrderRow) toModel() models.ParkedOrder {
	return models.ParkedOrder{
		ID:         row.ID,
		CreatedAt:  fromMillis(row.CreatedAt),
		Name:       row.Name,
		EmployeeID: row.EmployeeID,
		Items:      []models.SaleItem{},
	}
}

func (r *parkedOrderRepository) CreateParkedOrder(ctx context.Context, executor SQLExecutor, order *models.ParkedOrder) (int64, error) {
	query := `INSERT INTO parked_orders (created_at, name, employee_id)
	          VALUES (?, ?, ?)
	          RETURNING id`
	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		toMillis(order.CreatedAt), order.Name, order.EmployeeID,
	).Scan(&order.ID)
	if err != nil {
		return 0, wrapError(err, fmt.Sprintf("creating parked order '%s'", order.Name))
	}

	itemQuery := executor.Rebind(`INSERT INTO parked_order_items (parked_order_id, product_id, quantity, unit_price, tax_rate)
	                              VALUES (?, ?, ?, ?, ?)`)
	for _, item := range order.Items {
		if _, err := executor.ExecContext(ctx, itemQuery, order.ID, item.ProductID, item.Quantity, item.UnitPrice, item.TaxRate); err != nil {
			return 0, wrapError(err, fmt.Sprintf("creating item for product ID %d of parked order ID %d", item.ProductID, order.ID))
		}
	}
	return order.ID, nil
}

const parkedItemColumns = `parked_order_id AS owner_id, product_id, quantity, unit_price, tax_rate`

func (r *parkedOrderRepository) GetParkedOrderByID(ctx context.Context, executor SQLExecutor, id int64) (*models.ParkedOrder, error) {
	var row parkedOrderRow
	query := `SELECT id, created_at, name, employee_id FROM parked_orders WHERE id = ?`
	if err := sqlx.GetContext(ctx, executor, &row, executor.Rebind(query), id); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("getting parked order by ID %d", id))
	}

	var items []saleItemRow
	itemQuery := `SELECT ` + parkedItemColumns + ` FROM parked_order_items WHERE parked_order_id = ? ORDER BY id`
	if err := sqlx.SelectContext(ctx, executor, &items, executor.Rebind(itemQuery), id); err != nil {
		return nil, fmt.Errorf("%w: getting items of parked order ID %d: %v", ErrDatabaseError, id, err)
	}

	order := row.toModel()
	for _, item := range items {
		order.Items = append(order.Items, item.SaleItem)
	}
	return &order, nil
}

func (r *parkedOrderRepository) GetParkedOrders(ctx context.Context, executor SQLExecutor) ([]models.ParkedOrder, error) {
	var rows []parkedOrderRow
	query := `SELECT id, created_at, name, employee_id FROM parked_orders ORDER BY created_at, id`
	if err := sqlx.SelectContext(ctx, executor, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: getting parked orders: %v", ErrDatabaseError, err)
	}

	var items []saleItemRow
	itemQuery := `SELECT ` + parkedItemColumns + ` FROM parked_order_items ORDER BY id`
	if err := sqlx.SelectContext(ctx, executor, &items, itemQuery); err != nil {
		return nil, fmt.Errorf("%w: getting parked order items: %v", ErrDatabaseError, err)
	}
	itemsByOrder := make(map[int64][]models.SaleItem, len(rows))
	for _, item := range items {
		itemsByOrder[item.OwnerID] = append(itemsByOrder[item.OwnerID], item.SaleItem)
	}

	orders := make([]models.ParkedOrder, 0, len(rows))
	for _, row := range rows {
		order := row.toModel()
		if orderItems, ok := itemsByOrder[row.ID]; ok {
			order.Items = orderItems
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *parkedOrderRepository) DeleteParkedOrderItems(ctx context.Context, executor SQLExecutor, orderID int64) error {
	query := `DELETE FROM parked_order_items WHERE parked_order_id = ?`
	if _, err := executor.ExecContext(ctx, executor.Rebind(query), orderID); err != nil {
		return wrapError(err, fmt.Sprintf("deleting items of parked order ID %d", orderID))
	}
	return nil
}

func (r *parkedOrderRepository) DeleteParkedOrder(ctx context.Context, executor SQLExecutor, orderID int64) (int64, error) {
	query := `DELETE FROM parked_orders WHERE id = ?`
	result, err := executor.ExecContext(ctx, executor.Rebind(query), orderID)
	if err != nil {
		return 0, wrapError(err, fmt.Sprintf("deleting parked order ID %d", orderID))
	}
	rowsAffected, _ := result.RowsAffected()
	return rowsAffected, nil
}
