package repositories

import (
	"context"
	"fmt"

	"cafepos/internal/models"

	"github.com/jmoiron/sqlx"
)

// AuditLogRepository is append-only: entries are never updated or deleted.
type AuditLogRepository interface {
	CreateAuditLog(ctx context.Context, executor SQLExecutor, entry *models.AuditLog) (int64, error)
	// GetAuditLogs returns all entries newest first.
	GetAuditLogs(ctx context.Context, executor SQLExecutor) ([]models.AuditLog, error)
}

type auditLogRepository struct{}

func NewAuditLogRepository() AuditLogRepository {
	return &auditLogRepository{}
}

type auditLogRow struct {
	ID         int64  `db:"id"`
	EmployeeID int64  `db:"employee_id"`
	Timestamp  int64  `db:"timestamp"`
	Action     string `db:"action"`
	Reason     string `db:"reason"`
}

func (r *auditLogRepository) CreateAuditLog(ctx context.Context, executor SQLExecutor, entry *models.AuditLog) (int64, error) {
	query := `INSERT INTO audit_logs (employee_id, timestamp, action, reason)
	          VALUES (?, ?, ?, ?)
	          RETURNING id`
	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		entry.EmployeeID, toMillis(entry.Timestamp), entry.Action, entry.Reason,
	).Scan(&entry.ID)
	if err != nil {
		return 0, wrapError(err, fmt.Sprintf("creating audit log '%s'", entry.Action))
	}
	return entry.ID, nil
}

func (r *auditLogRepository) GetAuditLogs(ctx context.Context, executor SQLExecutor) ([]models.AuditLog, error) {
	var rows []auditLogRow
	query := `SELECT id, employee_id, timestamp, action, reason FROM audit_logs ORDER BY timestamp DESC, id DESC`
	if err := sqlx.SelectContext(ctx, executor, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: getting audit logs: %v", ErrDatabaseError, err)
	}
	entries := make([]models.AuditLog, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.AuditLog{
			ID:         row.ID,
			EmployeeID: row.EmployeeID,
			Timestamp:  fromMillis(row.Timestamp),
			Action:     row.Action,
			Reason:     row.Reason,
		})
	}
	return entries, nil
}
