/*
Package sqlite implements the repositories on SQLite through go-sqlite3.

It backs single-station deployments (DB_DRIVER=sqlite) and the test suites,
which open ":memory:" databases. Queries mirror the postgresql package; the
differences are dialect only:

  - dates are TEXT "YYYY-MM-DD", timestamps are fixed-width UTC TEXT so they
    sort lexically
  - money is TEXT holding the decimal string, never REAL
  - deductions are a JSON TEXT column

Pay records and room disbursements are never updated or deleted. The
UNIQUE (report_id, room_number) index on payroll_room_disbursements is the
guard against paying a room twice.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/groundops/ops-backend-go/internal/pkg/database"
	"github.com/mattn/go-sqlite3"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
)

type txKey struct{}

// WithTransaction executes fn inside a database transaction. Every statement
// inside fn must go through the returned context (via GetQuerier) or the tx:
// the pool holds a single connection.
func WithTransaction(ctx context.Context, db *database.SQLiteDB, fn func(ctx context.Context, tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("rollback error during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx), tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetQuerier returns the transaction carried by ctx, or the database.
func GetQuerier(ctx context.Context, db *database.SQLiteDB) database.SQLQuerier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id            TEXT PRIMARY KEY,
		employee_code TEXT NOT NULL UNIQUE,
		full_name     TEXT NOT NULL,
		designation   TEXT NOT NULL DEFAULT '',
		shift         TEXT,
		is_active     INTEGER NOT NULL DEFAULT 1,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		room_number TEXT PRIMARY KEY,
		shift_scope TEXT,
		capacity    INTEGER NOT NULL DEFAULT 0 CHECK (capacity >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS room_members (
		room_number TEXT NOT NULL REFERENCES rooms(room_number) ON DELETE CASCADE,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		PRIMARY KEY (room_number, employee_id)
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_records (
		id              TEXT PRIMARY KEY,
		employee_id     TEXT NOT NULL REFERENCES employees(id),
		attendance_date TEXT NOT NULL,
		status          TEXT NOT NULL CHECK (status IN ('present', 'absent', 'late', 'on_duty', 'half_day')),
		shift_tag       TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		UNIQUE (employee_id, attendance_date)
	)`,
	`CREATE TABLE IF NOT EXISTS recoveries (
		id           TEXT PRIMARY KEY,
		employee_id  TEXT NOT NULL REFERENCES employees(id),
		reason       TEXT NOT NULL DEFAULT '',
		total_amount TEXT NOT NULL,
		paid_amount  TEXT NOT NULL DEFAULT '0',
		rate         TEXT,
		status       TEXT NOT NULL CHECK (status IN ('active', 'completed', 'paused')),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recoveries_employee_status ON recoveries (employee_id, status)`,
	`CREATE TABLE IF NOT EXISTS payroll_reports (
		id            TEXT PRIMARY KEY,
		report_date   TEXT NOT NULL,
		revenue_pool  TEXT NOT NULL,
		per_head_rate TEXT NOT NULL,
		total_present INTEGER NOT NULL,
		total_amount  TEXT NOT NULL,
		team_tag      TEXT,
		status        TEXT NOT NULL CHECK (status IN ('draft', 'finalized')),
		created_by    TEXT,
		created_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payroll_reports_date ON payroll_reports (report_date, status, created_at)`,
	`CREATE TABLE IF NOT EXISTS payroll_pay_records (
		id              TEXT PRIMARY KEY,
		report_id       TEXT NOT NULL REFERENCES payroll_reports(id) ON DELETE CASCADE,
		position        INTEGER NOT NULL,
		employee_id     TEXT NOT NULL,
		employee_name   TEXT NOT NULL,
		employee_code   TEXT NOT NULL,
		designation     TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL,
		is_payable      INTEGER NOT NULL,
		shift_snapshot  TEXT,
		room_number     TEXT NOT NULL,
		base_amount     TEXT NOT NULL,
		deductions      TEXT NOT NULL DEFAULT '[]',
		total_deduction TEXT NOT NULL,
		final_amount    TEXT NOT NULL,
		UNIQUE (report_id, employee_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pay_records_employee ON payroll_pay_records (employee_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pay_records_room ON payroll_pay_records (report_id, room_number)`,
	`CREATE TABLE IF NOT EXISTS payroll_room_disbursements (
		id            TEXT PRIMARY KEY,
		report_id     TEXT NOT NULL REFERENCES payroll_reports(id) ON DELETE CASCADE,
		room_number   TEXT NOT NULL,
		is_paid       INTEGER NOT NULL DEFAULT 1,
		receiver_id   TEXT NOT NULL,
		receiver_name TEXT NOT NULL,
		receipt_id    TEXT NOT NULL,
		paid_at       TEXT NOT NULL,
		total_amount  TEXT NOT NULL,
		claimed_total TEXT NOT NULL,
		paid_by       TEXT,
		UNIQUE (report_id, room_number),
		UNIQUE (report_id, receipt_id)
	)`,
}

// Migrate creates the schema if it does not exist.
func Migrate(ctx context.Context, db *database.SQLiteDB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// isUniqueViolation reports a UNIQUE constraint failure, optionally one
// whose message mentions column.
func isUniqueViolation(err error, column string) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return false
	}
	return column == "" || strings.Contains(sqliteErr.Error(), column)
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
