package services

import (
	"context"
	"errors"
	"fmt"

	"cafepos/internal/models"
	"cafepos/internal/repositories"
	"cafepos/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// AddEmployee creates an employee. The hourly rate always follows from the role.
func (s *cafeService) AddEmployee(ctx context.Context, name, pin string, role models.EmployeeRole) (int64, error) {
	if !role.IsValid() {
		return 0, fmt.Errorf("%w: role %q", ErrInvalidInput, role)
	}

	employee := models.Employee{
		Name:       name,
		PIN:        pin,
		Role:       role,
		HourlyRate: models.HourlyRateForRole(role),
	}
	err := s.inTx(ctx, "adding employee", func(tx *sqlx.Tx) error {
		if _, err := s.employeeRepo.Upsert(ctx, tx, &employee); err != nil {
			return fmt.Errorf("failed to create employee record: %w", err)
		}
		return nil
	}, repositories.TableEmployees)
	if err != nil {
		return 0, err
	}

	utils.LogDebug("Employee added", map[string]interface{}{"employee_id": employee.ID, "role": role})
	return employee.ID, nil
}

// ClockIn opens a new shift. Several open shifts per employee are allowed.
func (s *cafeService) ClockIn(ctx context.Context, employeeID int64) (int64, error) {
	shift := models.EmployeeShift{EmployeeID: employeeID, ClockIn: s.timestamp()}
	err := s.inTx(ctx, "clocking in", func(tx *sqlx.Tx) error {
		if _, err := s.employeeRepo.CreateShift(ctx, tx, &shift); err != nil {
			return fmt.Errorf("failed to open shift: %w", err)
		}
		return nil
	}, repositories.TableEmployeeShifts)
	if err != nil {
		return 0, err
	}
	return shift.ID, nil
}

// ClockOut closes the shift at the current time. Unknown shifts are ignored.
func (s *cafeService) ClockOut(ctx context.Context, shiftID int64) error {
	return s.inTx(ctx, "clocking out", func(tx *sqlx.Tx) error {
		if _, err := s.employeeRepo.GetShiftByID(ctx, tx, shiftID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil
			}
			return err
		}
		return s.employeeRepo.CloseShift(ctx, tx, shiftID, s.timestamp())
	}, repositories.TableEmployeeShifts)
}
