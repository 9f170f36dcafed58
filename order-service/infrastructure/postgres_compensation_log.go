package infrastructure

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rswarup82/order-saga-demo/shared/saga"
)

// PostgresCompensationLog implements saga.Journal using PostgreSQL. Rows are
// appended as forward steps succeed and read back in insertion order, so a
// restarted coordinator rebuilds the same unwind stack the crashed one held.
type PostgresCompensationLog struct {
	db *sqlx.DB
}

// NewPostgresCompensationLog creates a new PostgresCompensationLog
func NewPostgresCompensationLog(db *sqlx.DB) *PostgresCompensationLog {
	return &PostgresCompensationLog{db: db}
}

type compensationRow struct {
	OrderID      string    `db:"order_id"`
	Step         string    `db:"step"`
	ResourceID   string    `db:"resource_id"`
	RegisteredAt time.Time `db:"registered_at"`
}

// Append records one compensation entry. Re-appending the same step for the
// same order is a no-op so that a resumed saga can safely re-register.
func (l *PostgresCompensationLog) Append(ctx context.Context, entry saga.CompensationEntry) error {
	query := `
		INSERT INTO compensation_log (order_id, step, resource_id, registered_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id, step) DO NOTHING`

	_, err := l.db.ExecContext(ctx, query,
		entry.OrderID, entry.Step, entry.ResourceID, entry.RegisteredAt)
	if err != nil {
		return errors.Wrap(err, "failed to append compensation entry")
	}
	return nil
}

// ByOrder returns the entries for one order in the order they were appended
func (l *PostgresCompensationLog) ByOrder(ctx context.Context, orderID string) ([]saga.CompensationEntry, error) {
	query := `
		SELECT order_id, step, resource_id, registered_at
		FROM compensation_log
		WHERE order_id = $1
		ORDER BY registered_at ASC`

	var rows []compensationRow
	if err := l.db.SelectContext(ctx, &rows, query, orderID); err != nil {
		return nil, errors.Wrap(err, "failed to load compensation entries")
	}

	entries := make([]saga.CompensationEntry, len(rows))
	for i, row := range rows {
		entries[i] = saga.CompensationEntry{
			Step:         row.Step,
			OrderID:      row.OrderID,
			ResourceID:   row.ResourceID,
			RegisteredAt: row.RegisteredAt,
		}
	}
	return entries, nil
}

// Dispose deletes all entries for a finished order
func (l *PostgresCompensationLog) Dispose(ctx context.Context, orderID string) error {
	query := `DELETE FROM compensation_log WHERE order_id = $1`
	if _, err := l.db.ExecContext(ctx, query, orderID); err != nil {
		return errors.Wrap(err, "failed to dispose compensation entries")
	}
	return nil
}
