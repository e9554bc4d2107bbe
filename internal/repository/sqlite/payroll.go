package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/groundops/ops-backend-go/internal/domain/payroll"
	"github.com/groundops/ops-backend-go/internal/pkg/database"
)

type payrollRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewPayrollRepository(db *database.SQLiteDB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const reportColumns = `id, report_date, revenue_pool, per_head_rate, total_present, total_amount, team_tag, status, created_by, created_at`

func scanReport(row rowScanner) (payroll.Report, error) {
	var rep payroll.Report
	var date, createdAt string
	if err := row.Scan(&rep.ID, &date, &rep.RevenuePool, &rep.PerHeadRate, &rep.TotalPresent, &rep.TotalAmount,
		&rep.TeamTag, &rep.Status, &rep.CreatedBy, &createdAt); err != nil {
		return payroll.Report{}, err
	}
	var err error
	if rep.Date, err = parseDate(date); err != nil {
		return payroll.Report{}, fmt.Errorf("invalid report_date %q: %w", date, err)
	}
	if rep.CreatedAt, err = parseTime(createdAt); err != nil {
		return payroll.Report{}, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	return rep, nil
}

// ========== REPORTS ==========

func (r *payrollRepositoryImpl) CreateReport(ctx context.Context, report payroll.Report) (payroll.Report, error) {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	err := WithTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO payroll_reports (id, report_date, revenue_pool, per_head_rate, total_present, total_amount, team_tag, status, created_by, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, report.ID, formatDate(report.Date), report.RevenuePool.String(), report.PerHeadRate.String(), report.TotalPresent,
			report.TotalAmount.String(), report.TeamTag, string(report.Status), report.CreatedBy, formatTime(report.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to create payroll report: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO payroll_pay_records (
				id, report_id, position, employee_id, employee_name, employee_code, designation,
				status, is_payable, shift_snapshot, room_number,
				base_amount, deductions, total_deduction, final_amount
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare pay record insert: %w", err)
		}
		defer stmt.Close()

		for i, rec := range report.Records {
			deductionsJSON, err := json.Marshal(rec.Deductions)
			if err != nil {
				return fmt.Errorf("failed to encode deductions for employee %s: %w", rec.EmployeeID, err)
			}
			_, err = stmt.ExecContext(ctx,
				rec.ID, report.ID, i, rec.EmployeeID, rec.EmployeeName, rec.EmployeeCode, rec.Designation,
				string(rec.Status), rec.IsPayable(), rec.ShiftSnapshot, rec.RoomNumber,
				rec.BaseAmount.String(), string(deductionsJSON), rec.TotalDeduction.String(), rec.FinalAmount.String())
			if err != nil {
				return fmt.Errorf("failed to create pay record for employee %s: %w", rec.EmployeeID, err)
			}
		}
		return nil
	})
	if err != nil {
		return payroll.Report{}, err
	}

	for i := range report.Records {
		report.Records[i].ReportID = report.ID
	}
	report.Disbursements = []payroll.RoomDisbursement{}
	return report, nil
}

func (r *payrollRepositoryImpl) GetReportByID(ctx context.Context, id string) (payroll.Report, error) {
	q := GetQuerier(ctx, r.db)

	rep, err := scanReport(q.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM payroll_reports WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return payroll.Report{}, payroll.ErrReportNotFound
		}
		return payroll.Report{}, fmt.Errorf("failed to get payroll report: %w", err)
	}

	if err := r.loadChildren(ctx, q, &rep); err != nil {
		return payroll.Report{}, err
	}
	return rep, nil
}

func (r *payrollRepositoryImpl) GetLatestFinalizedByDate(ctx context.Context, date time.Time) (payroll.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + reportColumns + `
		FROM payroll_reports
		WHERE report_date = ? AND status = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	rep, err := scanReport(q.QueryRowContext(ctx, query, formatDate(date), string(payroll.ReportStatusFinalized)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return payroll.Report{}, payroll.ErrReportNotFound
		}
		return payroll.Report{}, fmt.Errorf("failed to get payroll report by date: %w", err)
	}

	if err := r.loadChildren(ctx, q, &rep); err != nil {
		return payroll.Report{}, err
	}
	return rep, nil
}

func (r *payrollRepositoryImpl) ListReports(ctx context.Context, filter payroll.ReportListFilter) ([]payroll.Report, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := ` FROM payroll_reports WHERE status = ?`
	args := []interface{}{string(payroll.ReportStatusFinalized)}

	if filter.DateFrom != nil {
		baseQuery += " AND report_date >= ?"
		args = append(args, formatDate(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		baseQuery += " AND report_date <= ?"
		args = append(args, formatDate(*filter.DateTo))
	}
	if filter.TeamTag != nil {
		baseQuery += " AND LOWER(team_tag) = LOWER(?)"
		args = append(args, *filter.TeamTag)
	}

	var totalCount int64
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll reports: %w", err)
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	selectQuery := `SELECT ` + reportColumns + baseQuery + ` ORDER BY report_date DESC, created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := q.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll reports: %w", err)
	}
	var reports []payroll.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("failed to scan payroll report: %w", err)
		}
		reports = append(reports, rep)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll reports: %w", err)
	}

	for i := range reports {
		if err := r.loadChildren(ctx, q, &reports[i]); err != nil {
			return nil, 0, err
		}
	}
	return reports, totalCount, nil
}

func (r *payrollRepositoryImpl) loadChildren(ctx context.Context, q database.SQLQuerier, rep *payroll.Report) error {
	rows, err := q.QueryContext(ctx, `
		SELECT id, report_id, employee_id, employee_name, employee_code, designation, status, shift_snapshot,
			   room_number, base_amount, deductions, total_deduction, final_amount
		FROM payroll_pay_records
		WHERE report_id = ?
		ORDER BY position
	`, rep.ID)
	if err != nil {
		return fmt.Errorf("failed to get pay records: %w", err)
	}
	rep.Records = []payroll.PayRecord{}
	for rows.Next() {
		var rec payroll.PayRecord
		var deductionsJSON string
		if err := rows.Scan(&rec.ID, &rec.ReportID, &rec.EmployeeID, &rec.EmployeeName, &rec.EmployeeCode, &rec.Designation,
			&rec.Status, &rec.ShiftSnapshot, &rec.RoomNumber, &rec.BaseAmount, &deductionsJSON, &rec.TotalDeduction, &rec.FinalAmount); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan pay record: %w", err)
		}
		if err := json.Unmarshal([]byte(deductionsJSON), &rec.Deductions); err != nil {
			rows.Close()
			return fmt.Errorf("failed to decode deductions for pay record %s: %w", rec.ID, err)
		}
		rep.Records = append(rep.Records, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate pay records: %w", err)
	}

	rows, err = q.QueryContext(ctx, `
		SELECT id, report_id, room_number, is_paid, receiver_id, receiver_name, receipt_id, paid_at,
			   total_amount, claimed_total, paid_by
		FROM payroll_room_disbursements
		WHERE report_id = ?
		ORDER BY paid_at, id
	`, rep.ID)
	if err != nil {
		return fmt.Errorf("failed to get room disbursements: %w", err)
	}
	defer rows.Close()
	rep.Disbursements = []payroll.RoomDisbursement{}
	for rows.Next() {
		var d payroll.RoomDisbursement
		var paidAt string
		if err := rows.Scan(&d.ID, &d.ReportID, &d.RoomNumber, &d.IsPaid, &d.ReceiverID, &d.ReceiverName, &d.ReceiptID,
			&paidAt, &d.TotalAmount, &d.ClaimedTotal, &d.PaidBy); err != nil {
			return fmt.Errorf("failed to scan room disbursement: %w", err)
		}
		if d.PaidAt, err = parseTime(paidAt); err != nil {
			return fmt.Errorf("invalid paid_at %q: %w", paidAt, err)
		}
		rep.Disbursements = append(rep.Disbursements, d)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate room disbursements: %w", err)
	}
	return nil
}

// ========== DISBURSEMENTS ==========

func (r *payrollRepositoryImpl) RecordDisbursement(ctx context.Context, d payroll.RoomDisbursement) (payroll.RoomDisbursement, error) {
	q := GetQuerier(ctx, r.db)

	// One statement: the report must be finalized, the room must have
	// records, and the UNIQUE (report_id, room_number) index turns a second
	// payment into a no-op that returns no row.
	query := `
		INSERT INTO payroll_room_disbursements (
			id, report_id, room_number, is_paid, receiver_id, receiver_name, receipt_id, paid_at,
			total_amount, claimed_total, paid_by
		)
		SELECT ?, r.id, ?, 1, ?, ?, ?, ?, ?, ?, ?
		FROM payroll_reports r
		WHERE r.id = ?
		  AND r.status = ?
		  AND EXISTS (SELECT 1 FROM payroll_pay_records p WHERE p.report_id = r.id AND p.room_number = ?)
		ON CONFLICT (report_id, room_number) DO NOTHING
		RETURNING id
	`

	var id string
	err := q.QueryRowContext(ctx, query,
		d.ID, d.RoomNumber, d.ReceiverID, d.ReceiverName, d.ReceiptID, formatTime(d.PaidAt),
		d.TotalAmount.String(), d.ClaimedTotal.String(), d.PaidBy,
		d.ReportID, string(payroll.ReportStatusFinalized), d.RoomNumber,
	).Scan(&id)
	if err == nil {
		d.IsPaid = true
		d.PaidAt = d.PaidAt.UTC()
		return d, nil
	}
	if isUniqueViolation(err, "receipt_id") {
		return payroll.RoomDisbursement{}, payroll.ErrReceiptIDExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return payroll.RoomDisbursement{}, fmt.Errorf("failed to record room disbursement: %w", err)
	}

	return payroll.RoomDisbursement{}, r.explainRejectedDisbursement(ctx, q, d.ReportID, d.RoomNumber)
}

// explainRejectedDisbursement maps a guarded insert that wrote nothing to the
// reason it was refused.
func (r *payrollRepositoryImpl) explainRejectedDisbursement(ctx context.Context, q database.SQLQuerier, reportID, roomNumber string) error {
	var status payroll.ReportStatus
	var roomExists, roomPaid bool
	err := q.QueryRowContext(ctx, `
		SELECT r.status,
			   EXISTS (SELECT 1 FROM payroll_pay_records p WHERE p.report_id = r.id AND p.room_number = ?),
			   EXISTS (SELECT 1 FROM payroll_room_disbursements d WHERE d.report_id = r.id AND d.room_number = ? AND d.is_paid = 1)
		FROM payroll_reports r
		WHERE r.id = ?
	`, roomNumber, roomNumber, reportID).Scan(&status, &roomExists, &roomPaid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return payroll.ErrReportNotFound
		}
		return fmt.Errorf("failed to inspect rejected disbursement: %w", err)
	}

	switch {
	case status != payroll.ReportStatusFinalized:
		return payroll.ErrReportNotFinalized
	case !roomExists:
		return payroll.ErrRoomNotFound
	default:
		return payroll.ErrRoomAlreadyPaid
	}
}

// ========== HISTORY ==========

func (r *payrollRepositoryImpl) ListEmployeeHistory(ctx context.Context, filter payroll.HistoryListFilter) ([]payroll.HistoryEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT r.id, r.report_date, p.status, p.final_amount, p.room_number, d.receipt_id, d.paid_at
		FROM payroll_pay_records p
		JOIN payroll_reports r ON r.id = p.report_id
		LEFT JOIN payroll_room_disbursements d
			ON d.report_id = r.id AND d.room_number = p.room_number AND d.is_paid = 1
		WHERE p.employee_id = ?
		  AND r.status = ?
		  AND r.id = (
			SELECT r2.id FROM payroll_reports r2
			WHERE r2.report_date = r.report_date AND r2.status = r.status
			ORDER BY r2.created_at DESC, r2.id DESC
			LIMIT 1
		  )
	`
	args := []interface{}{filter.EmployeeID, string(payroll.ReportStatusFinalized)}

	if filter.DateFrom != nil {
		query += " AND r.report_date >= ?"
		args = append(args, formatDate(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query += " AND r.report_date <= ?"
		args = append(args, formatDate(*filter.DateTo))
	}
	query += " ORDER BY r.report_date DESC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee pay history: %w", err)
	}
	defer rows.Close()

	entries := []payroll.HistoryEntry{}
	for rows.Next() {
		var e payroll.HistoryEntry
		var date string
		var paidAt *string
		if err := rows.Scan(&e.ReportID, &date, &e.Status, &e.FinalAmount, &e.RoomNumber, &e.ReceiptID, &paidAt); err != nil {
			return nil, fmt.Errorf("failed to scan pay history entry: %w", err)
		}
		if e.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("invalid report_date %q: %w", date, err)
		}
		if paidAt != nil {
			t, err := parseTime(*paidAt)
			if err != nil {
				return nil, fmt.Errorf("invalid paid_at %q: %w", *paidAt, err)
			}
			e.PaidAt = &t
		}
		e.IsPaid = e.ReceiptID != nil
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pay history: %w", err)
	}
	return entries, nil
}
