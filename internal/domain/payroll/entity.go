package payroll

import (
	"time"

	"github.com/groundops/ops-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// UnassignedRoom groups employees with no room membership at build time.
const UnassignedRoom = "Unassigned"

type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "draft"
	ReportStatusFinalized ReportStatus = "finalized"
)

// Report is the daily payroll aggregate. Records are written once when the
// report is built; afterwards only Disbursements grow.
type Report struct {
	ID            string
	Date          time.Time
	RevenuePool   decimal.Decimal
	PerHeadRate   decimal.Decimal
	TotalPresent  int
	TotalAmount   decimal.Decimal
	TeamTag       *string
	Status        ReportStatus
	CreatedBy     *string
	CreatedAt     time.Time
	Records       []PayRecord
	Disbursements []RoomDisbursement
}

func (r Report) IsFinalized() bool {
	return r.Status == ReportStatusFinalized
}

// RecordsInRoom returns the records snapshotted into roomNumber.
func (r Report) RecordsInRoom(roomNumber string) []PayRecord {
	var out []PayRecord
	for _, rec := range r.Records {
		if rec.RoomNumber == roomNumber {
			out = append(out, rec)
		}
	}
	return out
}

// PaidDisbursement returns the paid disbursement for roomNumber, if any.
func (r Report) PaidDisbursement(roomNumber string) (RoomDisbursement, bool) {
	for _, d := range r.Disbursements {
		if d.RoomNumber == roomNumber && d.IsPaid {
			return d, true
		}
	}
	return RoomDisbursement{}, false
}

// PayRecord is one employee's line in a report. Name, code, status, shift
// and room are copies taken at build time.
type PayRecord struct {
	ID             string
	ReportID       string
	EmployeeID     string
	EmployeeName   string
	EmployeeCode   string
	Designation    string
	Status         attendance.Status
	ShiftSnapshot  *string
	RoomNumber     string
	BaseAmount     decimal.Decimal
	Deductions     []Deduction
	TotalDeduction decimal.Decimal
	FinalAmount    decimal.Decimal
}

func (p PayRecord) IsPayable() bool {
	return p.Status.IsPayable()
}

type Deduction struct {
	RecoveryID *string         `json:"recovery_id,omitempty"`
	Reason     string          `json:"reason"`
	Amount     decimal.Decimal `json:"amount"`
}

// RoomDisbursement records the cash hand-over for one room of a report.
type RoomDisbursement struct {
	ID           string
	ReportID     string
	RoomNumber   string
	IsPaid       bool
	ReceiverID   string
	ReceiverName string
	ReceiptID    string
	PaidAt       time.Time
	TotalAmount  decimal.Decimal
	ClaimedTotal decimal.Decimal
	PaidBy       *string
}

func (d RoomDisbursement) AmountMismatch() bool {
	return !d.TotalAmount.Equal(d.ClaimedTotal)
}

// PayableTotal sums FinalAmount over payable records.
func PayableTotal(records []PayRecord) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range records {
		if rec.IsPayable() {
			total = total.Add(rec.FinalAmount)
		}
	}
	return total
}

// HistoryEntry is one day of an employee's pay, read from the latest
// finalized report of that date.
type HistoryEntry struct {
	ReportID    string
	Date        time.Time
	Status      attendance.Status
	FinalAmount decimal.Decimal
	RoomNumber  string
	IsPaid      bool
	ReceiptID   *string
	PaidAt      *time.Time
}

type ReportListFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	TeamTag  *string
	Limit    int
	Offset   int
}

type HistoryListFilter struct {
	EmployeeID string
	DateFrom   *time.Time
	DateTo     *time.Time
}
