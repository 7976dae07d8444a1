package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cafepos/internal/models"

	"github.com/jmoiron/sqlx"
)

// ProductRepository defines the interface for product catalog database operations.
type ProductRepository interface {
	// Upsert inserts the product, or overwrites it in place when ID is set and already exists.
	// Child rows (inventory, line items) of an overwritten product are kept.
	Upsert(ctx context.Context, executor SQLExecutor, product *models.Product) (int64, error)
	GetByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Product, error)
	GetActive(ctx context.Context, executor SQLExecutor) ([]models.Product, error)
	MaxID(ctx context.Context, executor SQLExecutor) (int64, error)
}

type productRepository struct{}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository() ProductRepository {
	return &productRepository{}
}

const productColumns = `id, name, price, tax_rate, category, image_uri, is_active`

func (r *productRepository) Upsert(ctx context.Context, executor SQLExecutor, product *models.Product) (int64, error) {
	var (
		query string
		args  []interface{}
	)
	if product.ID == 0 {
		query = `INSERT INTO products (name, price, tax_rate, category, image_uri, is_active)
		         VALUES (?, ?, ?, ?, ?, ?)
		         RETURNING id`
		args = []interface{}{product.Name, product.Price, product.TaxRate, product.Category, product.ImageURI, product.IsActive}
	} else {
		query = `INSERT INTO products (id, name, price, tax_rate, category, image_uri, is_active)
		         VALUES (?, ?, ?, ?, ?, ?, ?)
		         ON CONFLICT (id) DO UPDATE SET
		             name = excluded.name,
		             price = excluded.price,
		             tax_rate = excluded.tax_rate,
		             category = excluded.category,
		             image_uri = excluded.image_uri,
		             is_active = excluded.is_active
		         RETURNING id`
		args = []interface{}{product.ID, product.Name, product.Price, product.TaxRate, product.Category, product.ImageURI, product.IsActive}
	}

	var id sql.NullInt64
	if err := executor.QueryRowxContext(ctx, executor.Rebind(query), args...).Scan(&id); err != nil {
		return 0, wrapError(err, fmt.Sprintf("upserting product '%s'", product.Name))
	}
	product.ID = id.Int64
	return id.Int64, nil
}

func (r *productRepository) GetByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	if err := sqlx.GetContext(ctx, executor, product, executor.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrDatabaseError, id, err)
	}
	return product, nil
}

func (r *productRepository) GetActive(ctx context.Context, executor SQLExecutor) ([]models.Product, error) {
	products := []models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = ? ORDER BY id`
	if err := sqlx.SelectContext(ctx, executor, &products, executor.Rebind(query), true); err != nil {
		return nil, fmt.Errorf("%w: getting active products: %v", ErrDatabaseError, err)
	}
	return products, nil
}

// MaxID returns the highest product id, or 0 when the catalog is empty.
func (r *productRepository) MaxID(ctx context.Context, executor SQLExecutor) (int64, error) {
	var id int64
	if err := sqlx.GetContext(ctx, executor, &id, `SELECT COALESCE(MAX(id), 0) FROM products`); err != nil {
		return 0, fmt.Errorf("%w: getting highest product id: %v", ErrDatabaseError, err)
	}
	return id, nil
}
