package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/groundops/ops-backend-go/internal/domain/attendance"
	"github.com/groundops/ops-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// GetByDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByDate(ctx context.Context, date time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, attendance_date, status, shift_tag, created_at, updated_at
		FROM attendance_records
		WHERE attendance_date = $1
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		var a attendance.AttendanceRecord
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.ShiftTag, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}
	return records, nil
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	if !record.Status.IsValid() {
		return attendance.AttendanceRecord{}, attendance.ErrInvalidStatus
	}
	if record.ID == "" {
		record.ID = uuid.Must(uuid.NewV7()).String()
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (id, employee_id, attendance_date, status, shift_tag)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, attendance_date) DO UPDATE SET
			status = EXCLUDED.status,
			shift_tag = EXCLUDED.shift_tag,
			updated_at = NOW()
		RETURNING id, employee_id, attendance_date, status, shift_tag, created_at, updated_at
	`

	var a attendance.AttendanceRecord
	err := q.QueryRow(ctx, query, record.ID, record.EmployeeID, record.Date, record.Status, record.ShiftTag).
		Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.ShiftTag, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}
	return a, nil
}
