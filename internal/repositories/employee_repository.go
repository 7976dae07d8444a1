package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cafepos/internal/models"

	"github.com/jmoiron/sqlx"
)

// EmployeeRepository defines the interface for staff and shift related database operations.
type EmployeeRepository interface {
	// Employee methods
	Upsert(ctx context.Context, executor SQLExecutor, employee *models.Employee) (int64, error)
	GetAll(ctx context.Context, executor SQLExecutor) ([]models.Employee, error)

	// Shift methods
	CreateShift(ctx context.Context, executor SQLExecutor, shift *models.EmployeeShift) (int64, error)
	GetShiftByID(ctx context.Context, executor SQLExecutor, id int64) (*models.EmployeeShift, error)
	CloseShift(ctx context.Context, executor SQLExecutor, id int64, clockOut time.Time) error
	GetOpenShifts(ctx context.Context, executor SQLExecutor) ([]models.EmployeeShift, error)
}

type employeeRepository struct{}

// NewEmployeeRepository creates a new instance of EmployeeRepository.
func NewEmployeeRepository() EmployeeRepository {
	return &employeeRepository{}
}

// --- Employee Methods ---

func (r *employeeRepository) Upsert(ctx context.Context, executor SQLExecutor, employee *models.Employee) (int64, error) {
	var (
		query string
		args  []interface{}
	)
	if employee.ID == 0 {
		query = `INSERT INTO employees (name, pin, role, hourly_rate)
		         VALUES (?, ?, ?, ?)
		         RETURNING id`
		args = []interface{}{employee.Name, employee.PIN, employee.Role, employee.HourlyRate}
	} else {
		query = `INSERT INTO employees (id, name, pin, role, hourly_rate)
		         VALUES (?, ?, ?, ?, ?)
		         ON CONFLICT (id) DO UPDATE SET
		             name = excluded.name,
		             pin = excluded.pin,
		             role = excluded.role,
		             hourly_rate = excluded.hourly_rate
		         RETURNING id`
		args = []interface{}{employee.ID, employee.Name, employee.PIN, employee.Role, employee.HourlyRate}
	}

	if err := executor.QueryRowxContext(ctx, executor.Rebind(query), args...).Scan(&employee.ID); err != nil {
		return 0, wrapError(err, fmt.Sprintf("upserting employee '%s'", employee.Name))
	}
	return employee.ID, nil
}

func (r *employeeRepository) GetAll(ctx context.Context, executor SQLExecutor) ([]models.Employee, error) {
	employees := []models.Employee{}
	query := `SELECT id, name, pin, role, hourly_rate FROM employees ORDER BY id`
	if err := sqlx.SelectContext(ctx, executor, &employees, query); err != nil {
		return nil, fmt.Errorf("%w: getting employees: %v", ErrDatabaseError, err)
	}
	return employees, nil
}

// --- Shift Methods ---

type shiftRow struct {
	ID         int64         `db:"id"`
	EmployeeID int64         `db:"employee_id"`
	ClockIn    int64         `db:"clock_in"`
	ClockOut   sql.NullInt64 `db:"clock_out"`
}

func (row shiftRow) toModel() models.EmployeeShift {
	shift := models.EmployeeShift{
		ID:         row.ID,
		EmployeeID: row.EmployeeID,
		ClockIn:    fromMillis(row.ClockIn),
	}
	if row.ClockOut.Valid {
		clockOut := fromMillis(row.ClockOut.Int64)
		shift.ClockOut = &clockOut
	}
	return shift
}

func (r *employeeRepository) CreateShift(ctx context.Context, executor SQLExecutor, shift *models.EmployeeShift) (int64, error) {
	query := `INSERT INTO employee_shifts (employee_id, clock_in, clock_out)
	          VALUES (?, ?, ?)
	          RETURNING id`
	var clockOut sql.NullInt64
	if shift.ClockOut != nil {
		clockOut = sql.NullInt64{Int64: toMillis(*shift.ClockOut), Valid: true}
	}
	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		shift.EmployeeID, toMillis(shift.ClockIn), clockOut,
	).Scan(&shift.ID)
	if err != nil {
		return 0, wrapError(err, fmt.Sprintf("creating shift for employee ID %d", shift.EmployeeID))
	}
	return shift.ID, nil
}

func (r *employeeRepository) GetShiftByID(ctx context.Context, executor SQLExecutor, id int64) (*models.EmployeeShift, error) {
	var row shiftRow
	query := `SELECT id, employee_id, clock_in, clock_out FROM employee_shifts WHERE id = ?`
	if err := sqlx.GetContext(ctx, executor, &row, executor.Rebind(query), id); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("getting shift by ID %d", id))
	}
	shift := row.toModel()
	return &shift, nil
}

func (r *employeeRepository) CloseShift(ctx context.Context, executor SQLExecutor, id int64, clockOut time.Time) error {
	query := `UPDATE employee_shifts SET clock_out = ? WHERE id = ?`
	result, err := executor.ExecContext(ctx, executor.Rebind(query), toMillis(clockOut), id)
	if err != nil {
		return wrapError(err, fmt.Sprintf("closing shift ID %d", id))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *employeeRepository) GetOpenShifts(ctx context.Context, executor SQLExecutor) ([]models.EmployeeShift, error) {
	var rows []shiftRow
	query := `SELECT id, employee_id, clock_in, clock_out FROM employee_shifts WHERE clock_out IS NULL ORDER BY clock_in, id`
	if err := sqlx.SelectContext(ctx, executor, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: getting open shifts: %v", ErrDatabaseError, err)
	}
	shifts := make([]models.EmployeeShift, 0, len(rows))
	for _, row := range rows {
		shifts = append(shifts, row.toModel())
	}
	return shifts, nil
}
