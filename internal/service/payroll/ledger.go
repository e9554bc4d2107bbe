package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/groundops/ops-backend-go/internal/domain/employee"
	"github.com/groundops/ops-backend-go/internal/domain/payroll"
	"github.com/groundops/ops-backend-go/internal/pkg/receipt"
)

// receiptAttempts bounds receipt generation when a suffix collides inside
// the same report.
const receiptAttempts = 2

func (s *PayrollServiceImpl) RecordPayment(ctx context.Context, req payroll.RecordPaymentRequest) (payroll.PaymentReceiptResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PaymentReceiptResponse{}, err
	}

	report, err := s.payrollRepo.GetReportByID(ctx, req.ReportID)
	if err != nil {
		return payroll.PaymentReceiptResponse{}, err
	}
	if !report.IsFinalized() {
		return payroll.PaymentReceiptResponse{}, &payroll.NotFinalizedError{
			ReportID:   report.ID,
			ReportDate: report.Date,
			Status:     report.Status,
		}
	}

	records := report.RecordsInRoom(req.RoomNumber)
	if len(records) == 0 {
		return payroll.PaymentReceiptResponse{}, &payroll.RoomNotFoundError{
			ReportID:   report.ID,
			ReportDate: report.Date,
			RoomNumber: req.RoomNumber,
		}
	}
	if paid, ok := report.PaidDisbursement(req.RoomNumber); ok {
		return payroll.PaymentReceiptResponse{}, conflict(report, req.RoomNumber, paid.ReceiptID)
	}

	receiver, err := s.employeeRepo.GetByID(ctx, req.ReceiverID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.PaymentReceiptResponse{}, payroll.ErrReceiverNotFound
		}
		return payroll.PaymentReceiptResponse{}, err
	}

	resident := false
	for _, rec := range records {
		if rec.EmployeeID == receiver.ID {
			resident = true
			break
		}
	}
	if !resident {
		s.logger.WarnContext(ctx, "payment receiver is not a resident of the room",
			"report_id", report.ID,
			"room_number", req.RoomNumber,
			"receiver_id", receiver.ID,
		)
	}

	total := payroll.PayableTotal(records)
	claimed := total
	if req.ClaimedTotal != nil {
		claimed = *req.ClaimedTotal
	}

	d := payroll.RoomDisbursement{
		ReportID:     report.ID,
		RoomNumber:   req.RoomNumber,
		IsPaid:       true,
		ReceiverID:   receiver.ID,
		ReceiverName: receiver.FullName,
		PaidAt:       s.now().UTC(),
		TotalAmount:  total,
		ClaimedTotal: claimed,
		PaidBy:       req.PaidBy,
	}

	var saved payroll.RoomDisbursement
	for attempt := 1; ; attempt++ {
		d.ID = newID()
		d.ReceiptID = receipt.New(d.PaidAt)
		saved, err = s.payrollRepo.RecordDisbursement(ctx, d)
		if errors.Is(err, payroll.ErrReceiptIDExists) && attempt < receiptAttempts {
			continue
		}
		break
	}
	if err != nil {
		return payroll.PaymentReceiptResponse{}, s.explainPaymentFailure(ctx, report, req.RoomNumber, err)
	}

	if saved.AmountMismatch() {
		s.logger.WarnContext(ctx, "claimed room total differs from computed total",
			"report_id", report.ID,
			"room_number", saved.RoomNumber,
			"receipt_id", saved.ReceiptID,
			"claimed_total", saved.ClaimedTotal.String(),
			"total_amount", saved.TotalAmount.String(),
		)
	}
	s.logger.InfoContext(ctx, "room payment recorded",
		"report_id", report.ID,
		"room_number", saved.RoomNumber,
		"receipt_id", saved.ReceiptID,
		"total_amount", saved.TotalAmount.String(),
	)

	resp := payroll.PaymentReceiptResponse{
		ReceiptID:          saved.ReceiptID,
		ReportID:           report.ID,
		ReportDate:         report.Date.Format(dateLayout),
		RoomNumber:         saved.RoomNumber,
		ReceiverID:         saved.ReceiverID,
		ReceiverName:       saved.ReceiverName,
		ReceiverIsResident: resident,
		PaidAt:             saved.PaidAt.UTC().Format(time.RFC3339),
		TotalAmount:        saved.TotalAmount,
		ClaimedTotal:       saved.ClaimedTotal,
		AmountMismatch:     saved.AmountMismatch(),
		Employees:          make([]payroll.RoomEmployeeResponse, 0, len(records)),
	}
	for _, rec := range records {
		resp.Employees = append(resp.Employees, toRoomEmployee(rec))
	}
	sortRoomEmployees(resp.Employees)
	return resp, nil
}

// explainPaymentFailure turns a refused guarded insert into an error that
// names the room and report date.
func (s *PayrollServiceImpl) explainPaymentFailure(ctx context.Context, report payroll.Report, roomNumber string, err error) error {
	switch {
	case errors.Is(err, payroll.ErrRoomAlreadyPaid):
		receiptID := ""
		if current, getErr := s.payrollRepo.GetReportByID(ctx, report.ID); getErr == nil {
			if paid, ok := current.PaidDisbursement(roomNumber); ok {
				receiptID = paid.ReceiptID
			}
		}
		s.logger.WarnContext(ctx, "double payment rejected",
			"report_id", report.ID,
			"room_number", roomNumber,
			"receipt_id", receiptID,
		)
		return conflict(report, roomNumber, receiptID)
	case errors.Is(err, payroll.ErrRoomNotFound):
		return &payroll.RoomNotFoundError{ReportID: report.ID, ReportDate: report.Date, RoomNumber: roomNumber}
	case errors.Is(err, payroll.ErrReportNotFinalized):
		return &payroll.NotFinalizedError{ReportID: report.ID, ReportDate: report.Date, Status: report.Status}
	case errors.Is(err, payroll.ErrReportNotFound):
		return err
	default:
		return fmt.Errorf("failed to record payment for room %s: %w", roomNumber, err)
	}
}

func conflict(report payroll.Report, roomNumber, receiptID string) *payroll.ConflictError {
	return &payroll.ConflictError{
		ReportID:   report.ID,
		ReportDate: report.Date,
		RoomNumber: roomNumber,
		ReceiptID:  receiptID,
	}
}
