package recovery

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
)

// Recovery is money an employee owes back, collected from daily pay.
type Recovery struct {
	ID          string
	EmployeeID  string
	Reason      string
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	// Rate is the share of the day's base pay to withhold, in percent. Nil
	// means the payroll default.
	Rate      *decimal.Decimal
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Outstanding is what is still owed, never negative.
func (r Recovery) Outstanding() decimal.Decimal {
	out := r.TotalAmount.Sub(r.PaidAmount)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}
