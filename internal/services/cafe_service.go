package services

import (
	"context"
	"errors"
	"time"

	"cafepos/internal/database"
	"cafepos/internal/live"
	"cafepos/internal/models"
	"cafepos/internal/repositories"
	"cafepos/pkg/utils"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrInvalidInput is returned when an enum or identifier argument is not acceptable.
	ErrInvalidInput = errors.New("invalid input")

	// errParkedOrderGone aborts a resume whose parked order was removed concurrently.
	errParkedOrderGone = errors.New("parked order no longer exists")
)

// DefaultReorderLevel applies when AddProductRequest.ReorderLevel is nil.
const DefaultReorderLevel = 5

// --- DTOs ---

type AddProductRequest struct {
	Name         string                 `json:"name" binding:"required"`
	Price        float64                `json:"price" binding:"gte=0"`
	TaxRate      models.TaxRate         `json:"tax_rate" binding:"required"`
	Category     models.ProductCategory `json:"category" binding:"required"`
	ImageURI     *string                `json:"image_uri"`
	ReorderLevel *int                   `json:"reorder_level"`
}

type RecordSaleRequest struct {
	Items           []models.SaleItem    `json:"items"`
	EmployeeID      int64                `json:"employee_id"`
	PaymentMethod   models.PaymentMethod `json:"payment_method" binding:"required"`
	DiscountPercent float64              `json:"discount_percent"`
	CustomerID      *int64               `json:"customer_id"`
	MarkAsParked    bool                 `json:"mark_as_parked"`
	Note            *string              `json:"note"`
}

type AdjustInventoryRequest struct {
	Delta int `json:"delta"`
}

type AddPurchaseRequest struct {
	ProductID   int64   `json:"product_id" binding:"required"`
	Quantity    int     `json:"quantity" binding:"gt=0"`
	Supplier    string  `json:"supplier" binding:"required"`
	CostPerUnit float64 `json:"cost_per_unit" binding:"gte=0"`
}

type ParkOrderRequest struct {
	Name       string            `json:"name" binding:"required"`
	Items      []models.SaleItem `json:"items"`
	EmployeeID int64             `json:"employee_id"`
}

type AddEmployeeRequest struct {
	Name string              `json:"name" binding:"required"`
	PIN  string              `json:"pin" binding:"required"`
	Role models.EmployeeRole `json:"role" binding:"required"`
}

type AddCustomerRequest struct {
	Name            string  `json:"name" binding:"required"`
	DiscountPercent float64 `json:"discount_percent" binding:"gte=0,lte=100"`
}

type CreateAuditLogRequest struct {
	EmployeeID int64  `json:"employee_id"`
	Action     string `json:"action" binding:"required"`
	Reason     string `json:"reason"`
}

// --- CafeService Interface ---

// CafeService is the only writer of the store. Every mutating call runs in one
// transaction and publishes the touched tables once it has committed.
type CafeService interface {
	// Catalog and stock
	AddProduct(ctx context.Context, req AddProductRequest) (int64, error)
	DeactivateProduct(ctx context.Context, productID int64) error
	AdjustInventory(ctx context.Context, productID int64, delta int) error
	AddPurchase(ctx context.Context, productID int64, quantity int, supplier string, costPerUnit float64) (int64, error)

	// Sales
	RecordSale(ctx context.Context, req RecordSaleRequest) (int64, error)
	ParkOrder(ctx context.Context, name string, items []models.SaleItem, employeeID int64) (int64, error)
	ResumeParkedOrder(ctx context.Context, orderID int64) (int64, error)
	DeleteParkedOrder(ctx context.Context, orderID int64) error

	// Staff
	AddEmployee(ctx context.Context, name, pin string, role models.EmployeeRole) (int64, error)
	ClockIn(ctx context.Context, employeeID int64) (int64, error)
	ClockOut(ctx context.Context, shiftID int64) error

	// Customers and journal
	AddCustomer(ctx context.Context, name string, discountPercent float64) (int64, error)
	CreateAuditLog(ctx context.Context, employeeID int64, action, reason string) (int64, error)

	ComputeReport(ctx context.Context, from, to time.Time) (*models.ReportSummary, error)

	Projections
}

// Projections are the read side. ListX returns one snapshot; WatchX emits a fresh
// snapshot after every committed change until ctx is done.
type Projections interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListInventory(ctx context.Context) ([]models.InventorySnapshot, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	ListOpenShifts(ctx context.Context) ([]models.EmployeeShift, error)
	ListSales(ctx context.Context) ([]models.Sale, error)
	ListPurchases(ctx context.Context) ([]models.Purchase, error)
	ListAuditLogs(ctx context.Context) ([]models.AuditLog, error)
	ListParkedSales(ctx context.Context) ([]models.Sale, error)

	WatchProducts(ctx context.Context) <-chan []models.Product
	WatchInventory(ctx context.Context) <-chan []models.InventorySnapshot
	WatchEmployees(ctx context.Context) <-chan []models.Employee
	WatchCustomers(ctx context.Context) <-chan []models.Customer
	WatchOpenShifts(ctx context.Context) <-chan []models.EmployeeShift
	WatchSales(ctx context.Context) <-chan []models.Sale
	WatchPurchases(ctx context.Context) <-chan []models.Purchase
	WatchAuditLogs(ctx context.Context) <-chan []models.AuditLog
	WatchParkedSales(ctx context.Context) <-chan []models.Sale
}

// --- cafeService Implementation ---

type cafeService struct {
	db  *sqlx.DB
	hub *live.Hub
	now func() time.Time

	productRepo     repositories.ProductRepository
	inventoryRepo   repositories.InventoryRepository
	employeeRepo    repositories.EmployeeRepository
	customerRepo    repositories.CustomerRepository
	purchaseRepo    repositories.PurchaseRepository
	auditLogRepo    repositories.AuditLogRepository
	saleRepo        repositories.SaleRepository
	parkedOrderRepo repositories.ParkedOrderRepository
}

type Option func(*cafeService)

// WithClock replaces time.Now as the source of generated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *cafeService) { s.now = now }
}

// NewCafeService creates a new instance of CafeService on top of the given store handle.
func NewCafeService(db *sqlx.DB, hub *live.Hub, opts ...Option) CafeService {
	s := &cafeService{
		db:              db,
		hub:             hub,
		now:             time.Now,
		productRepo:     repositories.NewProductRepository(),
		inventoryRepo:   repositories.NewInventoryRepository(),
		employeeRepo:    repositories.NewEmployeeRepository(),
		customerRepo:    repositories.NewCustomerRepository(),
		purchaseRepo:    repositories.NewPurchaseRepository(),
		auditLogRepo:    repositories.NewAuditLogRepository(),
		saleRepo:        repositories.NewSaleRepository(),
		parkedOrderRepo: repositories.NewParkedOrderRepository(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// inTx runs fn in one transaction and, after a successful commit, notifies
// the projections that depend on tables.
func (s *cafeService) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error, tables ...string) error {
	if err := database.WithTx(ctx, s.db, fn); err != nil {
		if !errors.Is(err, ErrInvalidInput) && !errors.Is(err, errParkedOrderGone) {
			utils.LogError(err, "CafeService: "+op+" failed")
		}
		return err
	}
	s.hub.Publish(tables...)
	return nil
}

// timestamp is the current time truncated to the store's millisecond precision.
func (s *cafeService) timestamp() time.Time {
	return s.now().Truncate(time.Millisecond)
}
