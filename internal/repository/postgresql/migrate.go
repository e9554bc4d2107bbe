package postgresql

import (
	"context"
	"fmt"

	"github.com/groundops/ops-backend-go/internal/pkg/database"
)

// Directory tables (employees, rooms, attendance, recoveries) are owned by
// other services in a full deployment; they are created here so a single
// database can run the payroll engine on its own.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id            TEXT PRIMARY KEY,
		employee_code TEXT NOT NULL UNIQUE,
		full_name     TEXT NOT NULL,
		designation   TEXT NOT NULL DEFAULT '',
		shift         TEXT,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		room_number TEXT PRIMARY KEY,
		shift_scope TEXT,
		capacity    INTEGER NOT NULL DEFAULT 0 CHECK (capacity >= 0),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS room_members (
		room_number TEXT NOT NULL REFERENCES rooms(room_number) ON DELETE CASCADE,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		PRIMARY KEY (room_number, employee_id)
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_records (
		id              TEXT PRIMARY KEY,
		employee_id     TEXT NOT NULL REFERENCES employees(id),
		attendance_date DATE NOT NULL,
		status          TEXT NOT NULL CHECK (status IN ('present', 'absent', 'late', 'on_duty', 'half_day')),
		shift_tag       TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uq_attendance_employee_date UNIQUE (employee_id, attendance_date)
	)`,
	`CREATE TABLE IF NOT EXISTS recoveries (
		id           TEXT PRIMARY KEY,
		employee_id  TEXT NOT NULL REFERENCES employees(id),
		reason       TEXT NOT NULL DEFAULT '',
		total_amount NUMERIC NOT NULL CHECK (total_amount >= 0),
		paid_amount  NUMERIC NOT NULL DEFAULT 0 CHECK (paid_amount >= 0),
		rate         NUMERIC CHECK (rate IS NULL OR (rate >= 0 AND rate <= 100)),
		status       TEXT NOT NULL CHECK (status IN ('active', 'completed', 'paused')),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recoveries_employee_status ON recoveries (employee_id, status)`,
	`CREATE TABLE IF NOT EXISTS payroll_reports (
		id            TEXT PRIMARY KEY,
		report_date   DATE NOT NULL,
		revenue_pool  NUMERIC NOT NULL CHECK (revenue_pool >= 0),
		per_head_rate NUMERIC NOT NULL CHECK (per_head_rate >= 0),
		total_present INTEGER NOT NULL,
		total_amount  NUMERIC NOT NULL,
		team_tag      TEXT,
		status        TEXT NOT NULL CHECK (status IN ('draft', 'finalized')),
		created_by    TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payroll_reports_date ON payroll_reports (report_date, status, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS payroll_pay_records (
		id              TEXT PRIMARY KEY,
		report_id       TEXT NOT NULL REFERENCES payroll_reports(id) ON DELETE CASCADE,
		position        INTEGER NOT NULL,
		employee_id     TEXT NOT NULL,
		employee_name   TEXT NOT NULL,
		employee_code   TEXT NOT NULL,
		designation     TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL,
		is_payable      BOOLEAN NOT NULL,
		shift_snapshot  TEXT,
		room_number     TEXT NOT NULL,
		base_amount     NUMERIC NOT NULL,
		deductions      JSONB NOT NULL DEFAULT '[]',
		total_deduction NUMERIC NOT NULL,
		final_amount    NUMERIC NOT NULL CHECK (final_amount >= 0),
		CONSTRAINT uq_pay_record_employee UNIQUE (report_id, employee_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pay_records_employee ON payroll_pay_records (employee_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pay_records_room ON payroll_pay_records (report_id, room_number)`,
	`CREATE TABLE IF NOT EXISTS payroll_room_disbursements (
		id            TEXT PRIMARY KEY,
		report_id     TEXT NOT NULL REFERENCES payroll_reports(id) ON DELETE CASCADE,
		room_number   TEXT NOT NULL,
		is_paid       BOOLEAN NOT NULL DEFAULT TRUE,
		receiver_id   TEXT NOT NULL,
		receiver_name TEXT NOT NULL,
		receipt_id    TEXT NOT NULL,
		paid_at       TIMESTAMPTZ NOT NULL,
		total_amount  NUMERIC NOT NULL,
		claimed_total NUMERIC NOT NULL,
		paid_by       TEXT,
		CONSTRAINT uq_disbursement_room UNIQUE (report_id, room_number),
		CONSTRAINT uq_disbursement_receipt UNIQUE (report_id, receipt_id)
	)`,
}

// Migrate creates the schema if it does not exist.
func Migrate(ctx context.Context, db *database.DB) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
