package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/groundops/ops-backend-go/internal/domain/attendance"
	"github.com/groundops/ops-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewAttendanceRepository(db *database.SQLiteDB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `id, employee_id, attendance_date, status, shift_tag, created_at, updated_at`

func scanAttendance(row rowScanner) (attendance.AttendanceRecord, error) {
	var a attendance.AttendanceRecord
	var date, createdAt, updatedAt string
	if err := row.Scan(&a.ID, &a.EmployeeID, &date, &a.Status, &a.ShiftTag, &createdAt, &updatedAt); err != nil {
		return attendance.AttendanceRecord{}, err
	}
	var err error
	if a.Date, err = parseDate(date); err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("invalid attendance_date %q: %w", date, err)
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	return a, nil
}

func (r *attendanceRepositoryImpl) GetByDate(ctx context.Context, date time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `SELECT `+attendanceColumns+` FROM attendance_records WHERE attendance_date = ? ORDER BY employee_id`, formatDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}
	return records, nil
}

func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	if !record.Status.IsValid() {
		return attendance.AttendanceRecord{}, attendance.ErrInvalidStatus
	}
	if record.ID == "" {
		record.ID = uuid.Must(uuid.NewV7()).String()
	}
	q := GetQuerier(ctx, r.db)
	now := formatTime(time.Now())

	query := `
		INSERT INTO attendance_records (id, employee_id, attendance_date, status, shift_tag, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, attendance_date) DO UPDATE SET
			status = excluded.status,
			shift_tag = excluded.shift_tag,
			updated_at = excluded.updated_at
		RETURNING ` + attendanceColumns

	saved, err := scanAttendance(q.QueryRowContext(ctx, query,
		record.ID, record.EmployeeID, formatDate(record.Date), string(record.Status), record.ShiftTag, now, now))
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}
	return saved, nil
}
