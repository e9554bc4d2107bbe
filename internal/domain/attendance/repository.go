package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// GetByDate returns every record for the calendar day.
	GetByDate(ctx context.Context, date time.Time) ([]AttendanceRecord, error)
	// Upsert creates or replaces the employee's record for record.Date.
	Upsert(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)
}
