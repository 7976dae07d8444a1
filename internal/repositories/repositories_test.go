package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cafepos/internal/database"
	"cafepos/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "repositories-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func createProduct(t *testing.T, db *sqlx.DB, name string) int64 {
	t.Helper()
	product := models.Product{Name: name, Price: 2.40, TaxRate: models.TaxRateReduced, Category: models.CategoryCoffee, IsActive: true}
	id, err := NewProductRepository().Upsert(context.Background(), db, &product)
	require.NoError(t, err)
	require.NoError(t, NewInventoryRepository().Upsert(context.Background(), db, &models.InventoryItem{ProductID: id, ReorderLevel: 5}))
	return id
}

func TestProductUpsertUpdatesInPlaceAndKeepsChildren(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewProductRepository()
	id := createProduct(t, db, "Espresso")

	updated := models.Product{ID: id, Name: "Doppio", Price: 3.10, TaxRate: models.TaxRateReduced, Category: models.CategoryCoffee, IsActive: true}
	gotID, err := repo.Upsert(ctx, db, &updated)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)

	product, err := repo.GetByID(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, "Doppio", product.Name)

	item, err := NewInventoryRepository().GetByProductID(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, 5, item.ReorderLevel)
}

func TestProductGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewProductRepository().GetByID(context.Background(), db, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductMaxID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository()

	id, err := repo.MaxID(context.Background(), db)
	require.NoError(t, err)
	assert.Zero(t, id)

	createProduct(t, db, "Espresso")
	last := createProduct(t, db, "Latte")
	id, err = repo.MaxID(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, last, id)
}

func TestInventoryAdjustQuantity(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewInventoryRepository()
	id := createProduct(t, db, "Espresso")

	rows, err := repo.AdjustQuantity(ctx, db, id, -3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = repo.AdjustQuantity(ctx, db, 999, 4)
	require.NoError(t, err)
	assert.Zero(t, rows)

	item, err := repo.GetByProductID(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, -3, item.Quantity)
}

func TestInventorySnapshotsSkipInactiveProducts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	active := createProduct(t, db, "Espresso")
	inactive := createProduct(t, db, "Chai")

	product, err := NewProductRepository().GetByID(ctx, db, inactive)
	require.NoError(t, err)
	product.IsActive = false
	_, err = NewProductRepository().Upsert(ctx, db, product)
	require.NoError(t, err)

	snapshots, err := NewInventoryRepository().GetSnapshots(ctx, db)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, active, snapshots[0].Product.ID)
	assert.Equal(t, active, snapshots[0].Inventory.ProductID)
}

func TestWrapErrorClassifiesConstraints(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	id := createProduct(t, db, "Espresso")

	_, err := db.ExecContext(ctx, `INSERT INTO inventory (product_id, quantity, reorder_level) VALUES (?, 0, 0)`, id)
	require.Error(t, err)
	assert.ErrorIs(t, wrapError(err, "duplicate inventory"), ErrDuplicateKey)

	_, err = NewPurchaseRepository().CreatePurchase(ctx, db, &models.Purchase{ProductID: 999, Quantity: 1, Supplier: "x", Timestamp: time.Now()})
	assert.ErrorIs(t, err, ErrForeignKey)

	_, err = db.ExecContext(ctx, `SELECT * FROM no_such_table`)
	require.Error(t, err)
	assert.ErrorIs(t, wrapError(err, "bad query"), ErrDatabaseError)
}

func TestSalesBetweenIsInclusiveAndNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewSaleRepository()
	productID := createProduct(t, db, "Espresso")
	base := time.Date(2024, 5, 17, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		sale := models.Sale{
			Items:         []models.SaleItem{{ProductID: productID, Quantity: i + 1, UnitPrice: 2.40, TaxRate: models.TaxRateReduced}},
			EmployeeID:    1,
			Timestamp:     base.Add(time.Duration(i) * time.Hour),
			PaymentMethod: models.PaymentCash,
			IsSynced:      true,
		}
		_, err := repo.CreateSale(ctx, db, &sale)
		require.NoError(t, err)
	}

	sales, err := repo.GetSalesBetween(ctx, db, base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, base.Add(time.Hour), sales[0].Timestamp.UTC())
	assert.Equal(t, 2, sales[0].Items[0].Quantity)
	assert.Equal(t, base, sales[1].Timestamp.UTC())
	assert.Nil(t, sales[1].Discount)
	assert.Nil(t, sales[1].CustomerID)

	all, err := repo.GetSales(ctx, db)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSaleDiscountAndCustomerRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	customerID, err := NewCustomerRepository().Upsert(ctx, db, &models.Customer{Name: "Stammgast", DiscountPercent: 10})
	require.NoError(t, err)

	sale := models.Sale{
		Items:         []models.SaleItem{},
		EmployeeID:    1,
		Timestamp:     time.Date(2024, 5, 17, 8, 0, 0, 0, time.UTC),
		PaymentMethod: models.PaymentCard,
		Discount:      &models.Discount{Type: models.DiscountPercent, Value: 10},
		CustomerID:    &customerID,
	}
	_, err = NewSaleRepository().CreateSale(ctx, db, &sale)
	require.NoError(t, err)

	sales, err := NewSaleRepository().GetSales(ctx, db)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	require.NotNil(t, sales[0].Discount)
	assert.Equal(t, models.DiscountPercent, sales[0].Discount.Type)
	require.NotNil(t, sales[0].CustomerID)
	assert.Equal(t, customerID, *sales[0].CustomerID)
	assert.Empty(t, sales[0].Items)
}

func TestParkedOrderDeleteReportsRows(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewParkedOrderRepository()
	productID := createProduct(t, db, "Espresso")

	order := models.ParkedOrder{
		CreatedAt:  time.Date(2024, 5, 17, 8, 0, 0, 0, time.UTC),
		Name:       "Tisch 4",
		EmployeeID: 1,
		Items:      []models.SaleItem{{ProductID: productID, Quantity: 2, UnitPrice: 2.40, TaxRate: models.TaxRateReduced}},
	}
	id, err := repo.CreateParkedOrder(ctx, db, &order)
	require.NoError(t, err)

	loaded, err := repo.GetParkedOrderByID(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, order.Items, loaded.Items)

	require.NoError(t, repo.DeleteParkedOrderItems(ctx, db, id))
	rows, err := repo.DeleteParkedOrder(ctx, db, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = repo.DeleteParkedOrder(ctx, db, id)
	require.NoError(t, err)
	assert.Zero(t, rows)

	_, err = repo.GetParkedOrderByID(ctx, db, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShiftsOpenAndClose(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewEmployeeRepository()
	employeeID, err := repo.Upsert(ctx, db, &models.Employee{Name: "Mia", PIN: "1234", Role: models.RoleCashier, HourlyRate: 15})
	require.NoError(t, err)

	shift := models.EmployeeShift{EmployeeID: employeeID, ClockIn: time.Date(2024, 5, 17, 8, 0, 0, 0, time.UTC)}
	shiftID, err := repo.CreateShift(ctx, db, &shift)
	require.NoError(t, err)

	open, err := repo.GetOpenShifts(ctx, db)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Nil(t, open[0].ClockOut)

	require.NoError(t, repo.CloseShift(ctx, db, shiftID, shift.ClockIn.Add(8*time.Hour)))
	closed, err := repo.GetShiftByID(ctx, db, shiftID)
	require.NoError(t, err)
	require.NotNil(t, closed.ClockOut)
	assert.Equal(t, shift.ClockIn.Add(8*time.Hour), closed.ClockOut.UTC())

	assert.ErrorIs(t, repo.CloseShift(ctx, db, 999, time.Now()), ErrNotFound)

	open, err = repo.GetOpenShifts(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, open)
}
