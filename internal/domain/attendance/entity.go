package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusOnDuty  Status = "on_duty"
	StatusHalfDay Status = "half_day"
)

// IsPayable reports whether the status earns the daily per-head amount.
func (s Status) IsPayable() bool {
	return s == StatusPresent || s == StatusOnDuty
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusOnDuty, StatusHalfDay:
		return true
	}
	return false
}

type AttendanceRecord struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Status     Status
	ShiftTag   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
