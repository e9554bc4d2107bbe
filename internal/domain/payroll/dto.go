package payroll

import (
	"github.com/groundops/ops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== BUILD ==========

type BuildReportRequest struct {
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
	RevenuePool decimal.Decimal  `json:"revenue_pool" validate:"decimal_gte=0"`
	PerHeadRate *decimal.Decimal `json:"per_head_rate,omitempty" validate:"omitempty,decimal_gte=0"` // nil = revenue_pool / payable count
	Team        *string          `json:"team,omitempty" validate:"omitempty,max=50"`
	CreatedBy   *string          `json:"-"`
}

func (r *BuildReportRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== REPORTS ==========

type PayRecordResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	EmployeeCode   string          `json:"employee_code"`
	Designation    string          `json:"designation,omitempty"`
	Status         string          `json:"status"`
	IsPayable      bool            `json:"is_payable"`
	Shift          *string         `json:"shift,omitempty"`
	RoomNumber     string          `json:"room_number"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	Deductions     []Deduction     `json:"deductions"`
	TotalDeduction decimal.Decimal `json:"total_deduction"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
}

type DisbursementResponse struct {
	RoomNumber     string          `json:"room_number"`
	IsPaid         bool            `json:"is_paid"`
	ReceiptID      string          `json:"receipt_id"`
	ReceiverID     string          `json:"receiver_id"`
	ReceiverName   string          `json:"receiver_name"`
	PaidAt         string          `json:"paid_at"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ClaimedTotal   decimal.Decimal `json:"claimed_total"`
	AmountMismatch bool            `json:"amount_mismatch"`
	PaidBy         *string         `json:"paid_by,omitempty"`
}

type ReportResponse struct {
	ID            string                 `json:"id"`
	Date          string                 `json:"date"`
	Status        string                 `json:"status"`
	TeamTag       *string                `json:"team,omitempty"`
	RevenuePool   decimal.Decimal        `json:"revenue_pool"`
	PerHeadRate   decimal.Decimal        `json:"per_head_rate"`
	TotalPresent  int                    `json:"total_present"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	Shift         string                 `json:"shift"`
	Records       []PayRecordResponse    `json:"records"`
	Disbursements []DisbursementResponse `json:"disbursements"`
	CreatedBy     *string                `json:"created_by,omitempty"`
	CreatedAt     string                 `json:"created_at"`
}

type ReportFilter struct {
	DateFrom *string `json:"date_from,omitempty"`
	DateTo   *string `json:"date_to,omitempty"`
	Team     *string `json:"team,omitempty"`
	Shift    string  `json:"shift"`
	Page     int     `json:"page"`
	Limit    int     `json:"limit"`
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors

	_, _, rangeErrs := validator.ParseDateRange(f.DateFrom, f.DateTo)
	errs = append(errs, rangeErrs...)

	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Page < 1 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "must be at least 1"})
	}
	if f.Limit < 1 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "must be between 1 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ReportSummaryResponse counts only the records visible to the requesting shift.
type ReportSummaryResponse struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`
	Status        string          `json:"status"`
	TeamTag       *string         `json:"team,omitempty"`
	RevenuePool   decimal.Decimal `json:"revenue_pool"`
	PerHeadRate   decimal.Decimal `json:"per_head_rate"`
	RecordCount   int             `json:"record_count"`
	TotalPresent  int             `json:"total_present"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	RoomCount     int             `json:"room_count"`
	PaidRoomCount int             `json:"paid_room_count"`
	CreatedAt     string          `json:"created_at"`
}

type ListReportResponse struct {
	Data       []ReportSummaryResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

// ========== ROOM VIEW ==========

type RoomViewQuery struct {
	ReportID string `json:"report_id,omitempty"`
	Date     string `json:"date,omitempty"`
	Shift    string `json:"shift,omitempty"`
}

func (q *RoomViewQuery) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(q.ReportID) && validator.IsEmpty(q.Date) {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date or report_id is required"})
	}
	if !validator.IsEmpty(q.Date) {
		if _, ok := validator.IsValidDate(q.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RoomEmployeeResponse struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	EmployeeCode string          `json:"employee_code"`
	Designation  string          `json:"designation,omitempty"`
	Status       string          `json:"status"`
	IsPayable    bool            `json:"is_payable"`
	Shift        *string         `json:"shift,omitempty"`
	FinalAmount  decimal.Decimal `json:"final_amount"`
}

type ReceiptInfo struct {
	ReceiptID      string          `json:"receipt_id"`
	ReceiverID     string          `json:"receiver_id"`
	ReceiverName   string          `json:"receiver_name"`
	PaidAt         string          `json:"paid_at"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ClaimedTotal   decimal.Decimal `json:"claimed_total"`
	AmountMismatch bool            `json:"amount_mismatch"`
}

type RoomResponse struct {
	RoomNumber   string                 `json:"room_number"`
	ShiftScope   *string                `json:"shift_scope,omitempty"`
	Capacity     *int                   `json:"capacity,omitempty"`
	TotalAmount  decimal.Decimal        `json:"total_amount"`
	PayableCount int                    `json:"payable_count"`
	Employees    []RoomEmployeeResponse `json:"employees"`
	IsPaid       bool                   `json:"is_paid"`
	Receipt      *ReceiptInfo           `json:"receipt,omitempty"`
}

// RoomViewResponse has Found=false, and no rooms, when no finalized report
// exists for the requested date.
type RoomViewResponse struct {
	Found        bool            `json:"found"`
	ReportID     *string         `json:"report_id,omitempty"`
	Date         string          `json:"date"`
	Shift        string          `json:"shift"`
	Rooms        []RoomResponse  `json:"rooms"`
	TotalPresent int             `json:"total_present"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// ========== DISBURSEMENT ==========

type RecordPaymentRequest struct {
	ReportID     string           `json:"-"`
	RoomNumber   string           `json:"room_number" validate:"required,max=50"`
	ReceiverID   string           `json:"receiver_id" validate:"required"`
	ClaimedTotal *decimal.Decimal `json:"claimed_total,omitempty" validate:"omitempty,decimal_gte=0"`
	PaidBy       *string          `json:"-"`
}

func (r *RecordPaymentRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.ReportID) {
		errs = append(errs, validator.ValidationError{Field: "report_id", Message: "is required"})
	}
	if !errs.Has("room_number") && validator.IsEmpty(r.RoomNumber) {
		errs = append(errs, validator.ValidationError{Field: "room_number", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PaymentReceiptResponse carries what a payment voucher prints.
type PaymentReceiptResponse struct {
	ReceiptID          string                 `json:"receipt_id"`
	ReportID           string                 `json:"report_id"`
	ReportDate         string                 `json:"report_date"`
	RoomNumber         string                 `json:"room_number"`
	ReceiverID         string                 `json:"receiver_id"`
	ReceiverName       string                 `json:"receiver_name"`
	ReceiverIsResident bool                   `json:"receiver_is_resident"`
	PaidAt             string                 `json:"paid_at"`
	TotalAmount        decimal.Decimal        `json:"total_amount"`
	ClaimedTotal       decimal.Decimal        `json:"claimed_total"`
	AmountMismatch     bool                   `json:"amount_mismatch"`
	Employees          []RoomEmployeeResponse `json:"employees"`
}

// ========== HISTORY ==========

type HistoryFilter struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	DateFrom   *string `json:"date_from,omitempty"`
	DateTo     *string `json:"date_to,omitempty"`
}

func (f *HistoryFilter) Validate() error {
	errs := validator.Struct(f)
	_, _, rangeErrs := validator.ParseDateRange(f.DateFrom, f.DateTo)
	errs = append(errs, rangeErrs...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeHistoryEntry struct {
	ReportID   string          `json:"report_id"`
	Date       string          `json:"date"`
	Status     string          `json:"status"`
	Amount     decimal.Decimal `json:"amount"`
	RoomNumber string          `json:"room_number"`
	IsPaid     bool            `json:"is_paid"`
	ReceiptID  *string         `json:"receipt_id,omitempty"`
	PaidAt     *string         `json:"paid_at,omitempty"`
}

type EmployeeHistoryResponse struct {
	EmployeeID   string                 `json:"employee_id"`
	EmployeeName string                 `json:"employee_name"`
	EmployeeCode string                 `json:"employee_code"`
	Entries      []EmployeeHistoryEntry `json:"entries"`
}
