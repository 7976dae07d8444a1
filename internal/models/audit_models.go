package models

import "time"

// Audit actions written by the core itself.
const (
	ActionSaleNote    = "SALE_NOTE"
	ActionOrderParked = "ORDER_PARKED"
)

// AuditLog is an append-only journal entry.
type AuditLog struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employee_id"`
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	Reason     string    `json:"reason"`
}
