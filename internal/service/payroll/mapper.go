package payroll

import (
	"time"

	"github.com/groundops/ops-backend-go/internal/domain/payroll"
)

func toReportResponse(report payroll.Report, records []payroll.PayRecord, shiftLabel string) payroll.ReportResponse {
	resp := payroll.ReportResponse{
		ID:            report.ID,
		Date:          report.Date.Format(dateLayout),
		Status:        string(report.Status),
		TeamTag:       report.TeamTag,
		RevenuePool:   report.RevenuePool,
		PerHeadRate:   report.PerHeadRate,
		TotalPresent:  report.TotalPresent,
		TotalAmount:   report.TotalAmount,
		Shift:         shiftLabel,
		Records:       make([]payroll.PayRecordResponse, 0, len(records)),
		Disbursements: make([]payroll.DisbursementResponse, 0, len(report.Disbursements)),
		CreatedBy:     report.CreatedBy,
		CreatedAt:     report.CreatedAt.UTC().Format(time.RFC3339),
	}

	for _, rec := range records {
		resp.Records = append(resp.Records, payroll.PayRecordResponse{
			ID:             rec.ID,
			EmployeeID:     rec.EmployeeID,
			EmployeeName:   rec.EmployeeName,
			EmployeeCode:   rec.EmployeeCode,
			Designation:    rec.Designation,
			Status:         string(rec.Status),
			IsPayable:      rec.IsPayable(),
			Shift:          rec.ShiftSnapshot,
			RoomNumber:     rec.RoomNumber,
			BaseAmount:     rec.BaseAmount,
			Deductions:     rec.Deductions,
			TotalDeduction: rec.TotalDeduction,
			FinalAmount:    rec.FinalAmount,
		})
	}

	for _, d := range report.Disbursements {
		resp.Disbursements = append(resp.Disbursements, payroll.DisbursementResponse{
			RoomNumber:     d.RoomNumber,
			IsPaid:         d.IsPaid,
			ReceiptID:      d.ReceiptID,
			ReceiverID:     d.ReceiverID,
			ReceiverName:   d.ReceiverName,
			PaidAt:         d.PaidAt.UTC().Format(time.RFC3339),
			TotalAmount:    d.TotalAmount,
			ClaimedTotal:   d.ClaimedTotal,
			AmountMismatch: d.AmountMismatch(),
			PaidBy:         d.PaidBy,
		})
	}

	return resp
}

// toReportSummary totals only the visible records; rooms are counted over
// the whole report.
func toReportSummary(report payroll.Report, visible []payroll.PayRecord) payroll.ReportSummaryResponse {
	rooms := make(map[string]struct{})
	for _, rec := range report.Records {
		rooms[rec.RoomNumber] = struct{}{}
	}
	paid := 0
	for number := range rooms {
		if _, ok := report.PaidDisbursement(number); ok {
			paid++
		}
	}

	present := 0
	for _, rec := range visible {
		if rec.IsPayable() {
			present++
		}
	}

	return payroll.ReportSummaryResponse{
		ID:            report.ID,
		Date:          report.Date.Format(dateLayout),
		Status:        string(report.Status),
		TeamTag:       report.TeamTag,
		RevenuePool:   report.RevenuePool,
		PerHeadRate:   report.PerHeadRate,
		RecordCount:   len(visible),
		TotalPresent:  present,
		TotalAmount:   payroll.PayableTotal(visible),
		RoomCount:     len(rooms),
		PaidRoomCount: paid,
		CreatedAt:     report.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toRoomEmployee(rec payroll.PayRecord) payroll.RoomEmployeeResponse {
	return payroll.RoomEmployeeResponse{
		EmployeeID:   rec.EmployeeID,
		EmployeeName: rec.EmployeeName,
		EmployeeCode: rec.EmployeeCode,
		Designation:  rec.Designation,
		Status:       string(rec.Status),
		IsPayable:    rec.IsPayable(),
		Shift:        rec.ShiftSnapshot,
		FinalAmount:  rec.FinalAmount,
	}
}

func toReceiptInfo(d payroll.RoomDisbursement) *payroll.ReceiptInfo {
	return &payroll.ReceiptInfo{
		ReceiptID:      d.ReceiptID,
		ReceiverID:     d.ReceiverID,
		ReceiverName:   d.ReceiverName,
		PaidAt:         d.PaidAt.UTC().Format(time.RFC3339),
		TotalAmount:    d.TotalAmount,
		ClaimedTotal:   d.ClaimedTotal,
		AmountMismatch: d.AmountMismatch(),
	}
}
