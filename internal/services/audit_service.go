package services

import (
	"context"

	"cafepos/internal/models"
	"cafepos/internal/repositories"

	"github.com/jmoiron/sqlx"
)

// CreateAuditLog appends a free-text entry to the journal.
func (s *cafeService) CreateAuditLog(ctx context.Context, employeeID int64, action, reason string) (int64, error) {
	entry := models.AuditLog{EmployeeID: employeeID, Timestamp: s.timestamp(), Action: action, Reason: reason}
	err := s.inTx(ctx, "creating audit log", func(tx *sqlx.Tx) error {
		_, err := s.auditLogRepo.CreateAuditLog(ctx, tx, &entry)
		return err
	}, repositories.TableAuditLogs)
	if err != nil {
		return 0, err
	}
	return entry.ID, nil
}
