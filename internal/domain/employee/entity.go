package employee

import (
	"time"
)

type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Designation  string
	// Shift is the live shift tag on the profile; it may change after a
	// report was built.
	Shift     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
