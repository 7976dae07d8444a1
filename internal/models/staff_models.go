package models

import "time"

// Employee represents a member of staff. The PIN is stored as entered.
type Employee struct {
	ID         int64        `json:"id" db:"id"`
	Name       string       `json:"name" db:"name"`
	PIN        string       `json:"pin" db:"pin"`
	Role       EmployeeRole `json:"role" db:"role"`
	HourlyRate float64      `json:"hourly_rate" db:"hourly_rate"`
}

// EmployeeShift is open while ClockOut is nil.
type EmployeeShift struct {
	ID         int64      `json:"id"`
	EmployeeID int64      `json:"employee_id"`
	ClockIn    time.Time  `json:"clock_in"`
	ClockOut   *time.Time `json:"clock_out,omitempty"`
}

func (s EmployeeShift) IsOpen() bool {
	return s.ClockOut == nil
}
