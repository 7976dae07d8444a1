package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrForeignKey is returned when a row references a parent that does not exist.
	ErrForeignKey = errors.New("foreign key constraint violated")
)

// Table names, also used as change-notification topics.
const (
	TableProducts         = "products"
	TableInventory        = "inventory"
	TableEmployees        = "employees"
	TableEmployeeShifts   = "employee_shifts"
	TableCustomers        = "customers"
	TablePurchases        = "purchases"
	TableAuditLogs        = "audit_logs"
	TableSales            = "sales"
	TableSaleItems        = "sale_items"
	TableParkedOrders     = "parked_orders"
	TableParkedOrderItems = "parked_order_items"
)

// SQLExecutor is satisfied by *sqlx.DB and *sqlx.Tx.
// This allows repository methods to be used within transactions or with a direct DB connection.
type SQLExecutor = sqlx.ExtContext

// wrapError classifies a driver error and wraps it with the matching sentinel.
func wrapError(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, op, pqErr.Constraint)
		case "23503":
			return fmt.Errorf("%w: %s (constraint: %s)", ErrForeignKey, op, pqErr.Constraint)
		}
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := liteErr.Error()
		switch {
		case liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, strings.Contains(msg, "FOREIGN KEY"):
			return fmt.Errorf("%w: %s: %v", ErrForeignKey, op, err)
		case liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE,
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
			strings.Contains(msg, "UNIQUE"):
			return fmt.Errorf("%w: %s: %v", ErrDuplicateKey, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrDatabaseError, op, err)
}

// notFoundOr maps sql.ErrNoRows to ErrNotFound and wraps anything else.
func notFoundOr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %s: %v", ErrDatabaseError, op, err)
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
