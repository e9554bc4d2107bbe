package payroll

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrReportNotFound     = errors.New("payroll report not found")
	ErrReportNotFinalized = errors.New("payroll report is not finalized")
	ErrRoomNotFound       = errors.New("room not found in payroll report")
	ErrRoomAlreadyPaid    = errors.New("room already paid for this payroll report")
	ErrReceiverNotFound   = errors.New("receiver employee not found")
	ErrReceiptIDExists    = errors.New("receipt id already used in this payroll report")
)

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Format("2006-01-02")
}

// ConflictError reports a second payment for a room that was already paid.
type ConflictError struct {
	ReportID   string
	ReportDate time.Time
	RoomNumber string
	ReceiptID  string
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("room %s of the %s payroll report is already paid", e.RoomNumber, formatDate(e.ReportDate))
	if e.ReceiptID != "" {
		msg += " (receipt " + e.ReceiptID + ")"
	}
	return msg
}

func (e *ConflictError) Unwrap() error {
	return ErrRoomAlreadyPaid
}

// RoomNotFoundError reports a room number that has no records in the report.
type RoomNotFoundError struct {
	ReportID   string
	ReportDate time.Time
	RoomNumber string
}

func (e *RoomNotFoundError) Error() string {
	return fmt.Sprintf("room %s has no pay records in the %s payroll report", e.RoomNumber, formatDate(e.ReportDate))
}

func (e *RoomNotFoundError) Unwrap() error {
	return ErrRoomNotFound
}

// NotFinalizedError reports an attempt to pay against a report that is not
// finalized.
type NotFinalizedError struct {
	ReportID   string
	ReportDate time.Time
	Status     ReportStatus
}

func (e *NotFinalizedError) Error() string {
	return fmt.Sprintf("the %s payroll report is %s, not finalized", formatDate(e.ReportDate), e.Status)
}

func (e *NotFinalizedError) Unwrap() error {
	return ErrReportNotFinalized
}
