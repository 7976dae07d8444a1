package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cafepos/internal/models"

	"github.com/jmoiron/sqlx"
)

// SaleRepository defines the interface for sale-related database operations.
type SaleRepository interface {
	// CreateSale inserts the sale header and all of its line items.
	CreateSale(ctx context.Context, executor SQLExecutor, sale *models.Sale) (int64, error)
	// GetSales returns every sale with its items, newest first.
	GetSales(ctx context.Context, executor SQLExecutor) ([]models.Sale, error)
	// GetSalesBetween returns the sales with from <= timestamp <= to, newest first.
	GetSalesBetween(ctx context.Context, executor SQLExecutor, from, to time.Time) ([]models.Sale, error)
}

type saleRepository struct{}

// NewSaleRepository creates a new instance of SaleRepository.
func NewSaleRepository() SaleRepository {
	return &saleRepository{}
}

type saleRow struct {
	ID            int64                `db:"id"`
	EmployeeID    int64                `db:"employee_id"`
	Timestamp     int64                `db:"timestamp"`
	PaymentMethod models.PaymentMethod `db:"payment_method"`
	DiscountType  sql.NullString       `db:"discount_type"`
	DiscountValue sql.NullFloat64      `db:"discount_value"`
	CustomerID    sql.NullInt64        `db:"customer_id"`
	IsParked      bool                 `db:"is_parked"`
	IsSynced      bool                 `db:"is_synced"`
}

type saleItemRow struct {
	OwnerID int64 `db:"owner_id"`
	models.SaleItem
}

func (row saleRow) toModel() models.Sale {
	sale := models.Sale{
		ID:            row.ID,
		Items:         []models.SaleItem{},
		EmployeeID:    row.EmployeeID,
		Timestamp:     fromMillis(row.Timestamp),
		PaymentMethod: row.PaymentMethod,
		IsParked:      row.IsParked,
		IsSynced:      row.IsSynced,
	}
	if row.DiscountType.Valid {
		sale.Discount = &models.Discount{
			Type:  models.DiscountType(row.DiscountType.String),
			Value: row.DiscountValue.Float64,
		}
	}
	if row.CustomerID.Valid {
		customerID := row.CustomerID.Int64
		sale.CustomerID = &customerID
	}
	return sale
}

func (r *saleRepository) CreateSale(ctx context.Context, executor SQLExecutor, sale *models.Sale) (int64, error) {
	query := `INSERT INTO sales
	          (employee_id, timestamp, payment_method, discount_type, discount_value, customer_id, is_parked, is_synced)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	          RETURNING id`

	var (
		discountType  sql.NullString
		discountValue sql.NullFloat64
		customerID    sql.NullInt64
	)
	if sale.Discount != nil {
		discountType = sql.NullString{String: string(sale.Discount.Type), Valid: true}
		discountValue = sql.NullFloat64{Float64: sale.Discount.Value, Valid: true}
	}
	if sale.CustomerID != nil {
		customerID = sql.NullInt64{Int64: *sale.CustomerID, Valid: true}
	}

	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		sale.EmployeeID, toMillis(sale.Timestamp), sale.PaymentMethod,
		discountType, discountValue, customerID, sale.IsParked, sale.IsSynced,
	).Scan(&sale.ID)
	if err != nil {
		return 0, wrapError(err, "creating sale")
	}

	itemQuery := executor.Rebind(`INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, tax_rate)
	                              VALUES (?, ?, ?, ?, ?)`)
	for _, item := range sale.Items {
		if _, err := executor.ExecContext(ctx, itemQuery, sale.ID, item.ProductID, item.Quantity, item.UnitPrice, item.TaxRate); err != nil {
			return 0, wrapError(err, fmt.Sprintf("creating item for product ID %d of sale ID %d", item.ProductID, sale.ID))
		}
	}
	return sale.ID, nil
}

const saleColumns = `id, employee_id, timestamp, payment_method, discount_type, discount_value, customer_id, is_parked, is_synced`

func (r *saleRepository) GetSales(ctx context.Context, executor SQLExecutor) ([]models.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales ORDER BY timestamp DESC, id DESC`
	return r.querySales(ctx, executor, query)
}

func (r *saleRepository) GetSalesBetween(ctx context.Context, executor SQLExecutor, from, to time.Time) ([]models.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales
	          WHERE timestamp >= ? AND timestamp <= ?
	          ORDER BY timestamp DESC, id DESC`
	return r.querySales(ctx, executor, query, toMillis(from), toMillis(to))
}

func (r *saleRepository) querySales(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]models.Sale, error) {
	var rows []saleRow
	if err := sqlx.SelectContext(ctx, executor, &rows, executor.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("%w: getting sales: %v", ErrDatabaseError, err)
	}
	if len(rows) == 0 {
		return []models.Sale{}, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	itemQuery, itemArgs, err := sqlx.In(`SELECT sale_id AS owner_id, product_id, quantity, unit_price, tax_rate
	                                     FROM sale_items WHERE sale_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: building sale items query: %v", ErrDatabaseError, err)
	}
	var items []saleItemRow
	if err := sqlx.SelectContext(ctx, executor, &items, executor.Rebind(itemQuery), itemArgs...); err != nil {
		return nil, fmt.Errorf("%w: getting sale items: %v", ErrDatabaseError, err)
	}

	itemsBySale := make(map[int64][]models.SaleItem, len(rows))
	for _, item := range items {
		itemsBySale[item.OwnerID] = append(itemsBySale[item.OwnerID], item.SaleItem)
	}

	sales := make([]models.Sale, 0, len(rows))
	for _, row := range rows {
		sale := row.toModel()
		if saleItems, ok := itemsBySale[row.ID]; ok {
			sale.Items = saleItems
		}
		sales = append(sales, sale)
	}
	return sales, nil
}
