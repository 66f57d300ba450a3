package repository

import (
	"context"
	"database/sql"
	"time"

	auditDomain "github.com/natterhq/natter/internal/audit/domain"
	"github.com/natterhq/natter/internal/database"
	apperrors "github.com/natterhq/natter/internal/errors"
)

// MySQLAuditRepository implements audit persistence for MySQL.
type MySQLAuditRepository struct {
	db *sql.DB
}

// NewMySQLAuditRepository creates a new MySQL audit repository.
func NewMySQLAuditRepository(db *sql.DB) *MySQLAuditRepository {
	return &MySQLAuditRepository{db: db}
}

// Create appends an audit entry and fills in the generated ID.
func (m *MySQLAuditRepository) Create(ctx context.Context, entry *auditDomain.Entry) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO audit_log (request_id, phase, method, path, status, user_id, audit_time)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		entry.RequestID,
		string(entry.Phase),
		entry.Method,
		entry.Path,
		entry.Status,
		entry.Subject,
		entry.AuditTime,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read audit entry id")
	}
	entry.ID = id
	return nil
}

// List retrieves audit entries, newest first.
func (m *MySQLAuditRepository) List(ctx context.Context, offset, limit int) ([]*auditDomain.Entry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, request_id, phase, method, path, status, user_id, audit_time
			  FROM audit_log
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer rows.Close()

	var entries []*auditDomain.Entry
	for rows.Next() {
		var entry auditDomain.Entry
		var phase string
		if err := rows.Scan(
			&entry.ID,
			&entry.RequestID,
			&phase,
			&entry.Method,
			&entry.Path,
			&entry.Status,
			&entry.Subject,
			&entry.AuditTime,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}
		entry.Phase = auditDomain.Phase(phase)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}

	return entries, nil
}

// CountBefore returns the number of entries older than the given instant.
func (m *MySQLAuditRepository) CountBefore(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM audit_log WHERE audit_time < ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, before).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit entries")
	}
	return count, nil
}

// DeleteBefore removes entries older than the given instant, returning the
// number of rows removed. Used by retention tooling.
func (m *MySQLAuditRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM audit_log WHERE audit_time < ?`

	result, err := querier.ExecContext(ctx, query, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit entries")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted audit entries")
	}
	return rows, nil
}
