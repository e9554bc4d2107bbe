package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/groundops/ops-backend-go/internal/domain/payroll"
	"github.com/groundops/ops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const reportColumns = `id, report_date, revenue_pool, per_head_rate, total_present, total_amount, team_tag, status, created_by, created_at`

func scanReport(row pgx.Row) (payroll.Report, error) {
	var rep payroll.Report
	err := row.Scan(&rep.ID, &rep.Date, &rep.RevenuePool, &rep.PerHeadRate, &rep.TotalPresent, &rep.TotalAmount,
		&rep.TeamTag, &rep.Status, &rep.CreatedBy, &rep.CreatedAt)
	return rep, err
}

// ========== REPORTS ==========

func (r *payrollRepositoryImpl) CreateReport(ctx context.Context, report payroll.Report) (payroll.Report, error) {
	err := WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO payroll_reports (id, report_date, revenue_pool, per_head_rate, total_present, total_amount, team_tag, status, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING created_at
		`, report.ID, report.Date, report.RevenuePool, report.PerHeadRate, report.TotalPresent, report.TotalAmount,
			report.TeamTag, report.Status, report.CreatedBy,
		).Scan(&report.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create payroll report: %w", err)
		}

		batch := &pgx.Batch{}
		for i, rec := range report.Records {
			deductionsJSON, err := json.Marshal(rec.Deductions)
			if err != nil {
				return fmt.Errorf("failed to encode deductions for employee %s: %w", rec.EmployeeID, err)
			}
			batch.Queue(`
				INSERT INTO payroll_pay_records (
					id, report_id, position, employee_id, employee_name, employee_code, designation,
					status, is_payable, shift_snapshot, room_number,
					base_amount, deductions, total_deduction, final_amount
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			`, rec.ID, report.ID, i, rec.EmployeeID, rec.EmployeeName, rec.EmployeeCode, rec.Designation,
				rec.Status, rec.IsPayable(), rec.ShiftSnapshot, rec.RoomNumber,
				rec.BaseAmount, deductionsJSON, rec.TotalDeduction, rec.FinalAmount)
		}

		br := tx.SendBatch(ctx, batch)
		for _, rec := range report.Records {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to create pay record for employee %s: %w", rec.EmployeeID, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to create pay records: %w", err)
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

	rep, err := scanReport(q.QueryRow(ctx, `SELECT `+reportColumns+` FROM payroll_reports WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
		WHERE report_date = $1 AND status = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	rep, err := scanReport(q.QueryRow(ctx, query, date, payroll.ReportStatusFinalized))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	baseQuery := ` FROM payroll_reports WHERE status = $1`
	args := []interface{}{payroll.ReportStatusFinalized}
	argIdx := 2

	if filter.DateFrom != nil {
		baseQuery += fmt.Sprintf(" AND report_date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		baseQuery += fmt.Sprintf(" AND report_date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}
	if filter.TeamTag != nil {
		baseQuery += fmt.Sprintf(" AND LOWER(team_tag) = LOWER($%d)", argIdx)
		args = append(args, *filter.TeamTag)
		argIdx++
	}

	// Count query
	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll reports: %w", err)
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	selectQuery := fmt.Sprintf(`SELECT %s %s ORDER BY report_date DESC, created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		reportColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := q.Query(ctx, selectQuery, args...)
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

func (r *payrollRepositoryImpl) loadChildren(ctx context.Context, q database.Querier, rep *payroll.Report) error {
	rows, err := q.Query(ctx, `
		SELECT id, report_id, employee_id, employee_name, employee_code, designation, status, shift_snapshot,
			   room_number, base_amount, deductions, total_deduction, final_amount
		FROM payroll_pay_records
		WHERE report_id = $1
		ORDER BY position
	`, rep.ID)
	if err != nil {
		return fmt.Errorf("failed to get pay records: %w", err)
	}
	rep.Records = []payroll.PayRecord{}
	for rows.Next() {
		var rec payroll.PayRecord
		var deductionsBytes []byte
		if err := rows.Scan(&rec.ID, &rec.ReportID, &rec.EmployeeID, &rec.EmployeeName, &rec.EmployeeCode, &rec.Designation,
			&rec.Status, &rec.ShiftSnapshot, &rec.RoomNumber, &rec.BaseAmount, &deductionsBytes, &rec.TotalDeduction, &rec.FinalAmount); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan pay record: %w", err)
		}
		if err := json.Unmarshal(deductionsBytes, &rec.Deductions); err != nil {
			rows.Close()
			return fmt.Errorf("failed to decode deductions for pay record %s: %w", rec.ID, err)
		}
		rep.Records = append(rep.Records, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate pay records: %w", err)
	}

	rows, err = q.Query(ctx, `
		SELECT id, report_id, room_number, is_paid, receiver_id, receiver_name, receipt_id, paid_at,
			   total_amount, claimed_total, paid_by
		FROM payroll_room_disbursements
		WHERE report_id = $1
		ORDER BY paid_at, id
	`, rep.ID)
	if err != nil {
		return fmt.Errorf("failed to get room disbursements: %w", err)
	}
	defer rows.Close()
	rep.Disbursements = []payroll.RoomDisbursement{}
	for rows.Next() {
		var d payroll.RoomDisbursement
		if err := rows.Scan(&d.ID, &d.ReportID, &d.RoomNumber, &d.IsPaid, &d.ReceiverID, &d.ReceiverName, &d.ReceiptID,
			&d.PaidAt, &d.TotalAmount, &d.ClaimedTotal, &d.PaidBy); err != nil {
			return fmt.Errorf("failed to scan room disbursement: %w", err)
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

	// The room guard and the report status check live in one statement so
	// two concurrent payments for the same room cannot both succeed.
	query := `
		INSERT INTO payroll_room_disbursements (
			id, report_id, room_number, is_paid, receiver_id, receiver_name, receipt_id, paid_at,
			total_amount, claimed_total, paid_by
		)
		SELECT $1::text, r.id, $3::text, TRUE, $4::text, $5::text, $6::text, $7::timestamptz,
			   $8::numeric, $9::numeric, $10::text
		FROM payroll_reports r
		WHERE r.id = $2::text
		  AND r.status = $11::text
		  AND EXISTS (SELECT 1 FROM payroll_pay_records p WHERE p.report_id = r.id AND p.room_number = $3::text)
		ON CONFLICT (report_id, room_number) DO NOTHING
		RETURNING paid_at
	`

	err := q.QueryRow(ctx, query,
		d.ID, d.ReportID, d.RoomNumber, d.ReceiverID, d.ReceiverName, d.ReceiptID, d.PaidAt,
		d.TotalAmount, d.ClaimedTotal, d.PaidBy, payroll.ReportStatusFinalized,
	).Scan(&d.PaidAt)
	if err == nil {
		d.IsPaid = true
		return d, nil
	}
	if isUniqueViolation(err, "uq_disbursement_receipt") {
		return payroll.RoomDisbursement{}, payroll.ErrReceiptIDExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return payroll.RoomDisbursement{}, fmt.Errorf("failed to record room disbursement: %w", err)
	}

	return payroll.RoomDisbursement{}, r.explainRejectedDisbursement(ctx, q, d.ReportID, d.RoomNumber)
}

// explainRejectedDisbursement maps a guarded insert that wrote nothing to the
// reason it was refused.
func (r *payrollRepositoryImpl) explainRejectedDisbursement(ctx context.Context, q database.Querier, reportID, roomNumber string) error {
	var status payroll.ReportStatus
	var roomExists, roomPaid bool
	err := q.QueryRow(ctx, `
		SELECT r.status,
			   EXISTS (SELECT 1 FROM payroll_pay_records p WHERE p.report_id = r.id AND p.room_number = $2),
			   EXISTS (SELECT 1 FROM payroll_room_disbursements d WHERE d.report_id = r.id AND d.room_number = $2 AND d.is_paid)
		FROM payroll_reports r
		WHERE r.id = $1
	`, reportID, roomNumber).Scan(&status, &roomExists, &roomPaid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
			ON d.report_id = r.id AND d.room_number = p.room_number AND d.is_paid
		WHERE p.employee_id = $1
		  AND r.status = $2
		  AND r.id = (
			SELECT r2.id FROM payroll_reports r2
			WHERE r2.report_date = r.report_date AND r2.status = $2
			ORDER BY r2.created_at DESC, r2.id DESC
			LIMIT 1
		  )
	`
	args := []interface{}{filter.EmployeeID, payroll.ReportStatusFinalized}
	argIdx := 3

	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND r.report_date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND r.report_date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
	}
	query += " ORDER BY r.report_date DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee pay history: %w", err)
	}
	defer rows.Close()

	entries := []payroll.HistoryEntry{}
	for rows.Next() {
		var e payroll.HistoryEntry
		if err := rows.Scan(&e.ReportID, &e.Date, &e.Status, &e.FinalAmount, &e.RoomNumber, &e.ReceiptID, &e.PaidAt); err != nil {
			return nil, fmt.Errorf("failed to scan pay history entry: %w", err)
		}
		e.IsPaid = e.ReceiptID != nil
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pay history: %w", err)
	}
	return entries, nil
}
