package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/groundops/ops-backend-go/internal/domain/attendance"
	"github.com/groundops/ops-backend-go/internal/domain/employee"
	"github.com/groundops/ops-backend-go/internal/domain/payroll"
	"github.com/groundops/ops-backend-go/internal/domain/recovery"
	"github.com/groundops/ops-backend-go/internal/domain/room"
	"github.com/groundops/ops-backend-go/internal/domain/shift"
	"github.com/groundops/ops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type PayrollServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	roomRepo       room.RoomRepository
	recoveryRepo   recovery.RecoveryRepository
	policy         Policy
	logger         *slog.Logger
	now            func() time.Time
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	roomRepo room.RoomRepository,
	recoveryRepo recovery.RecoveryRepository,
	policy Policy,
	logger *slog.Logger,
) payroll.PayrollService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollServiceImpl{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		roomRepo:       roomRepo,
		recoveryRepo:   recoveryRepo,
		policy:         policy,
		logger:         logger.With("component", "payroll"),
		now:            time.Now,
	}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ========== BUILD ==========

func (s *PayrollServiceImpl) BuildReport(ctx context.Context, req payroll.BuildReportRequest) (payroll.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ReportResponse{}, err
	}
	date, _ := validator.IsValidDate(req.Date)

	roster, err := s.readRoster(ctx, date)
	if err != nil {
		return payroll.ReportResponse{}, err
	}
	if len(roster) == 0 {
		return payroll.ReportResponse{}, validator.ValidationErrors{
			{Field: "date", Message: "no active employees to build a roster for " + req.Date},
		}
	}

	var payableIDs []string
	for _, entry := range roster {
		if entry.Status.IsPayable() {
			payableIDs = append(payableIDs, entry.Employee.ID)
		}
	}

	perHeadRate := derivePerHeadRate(req.RevenuePool, len(payableIDs))
	if req.PerHeadRate != nil {
		perHeadRate = *req.PerHeadRate
	}

	recoveries := map[string][]recovery.Recovery{}
	if len(payableIDs) > 0 {
		recoveries, err = s.recoveryRepo.ListActiveByEmployeeIDs(ctx, payableIDs)
		if err != nil {
			return payroll.ReportResponse{}, fmt.Errorf("failed to read recoveries: %w", err)
		}
	}

	report := payroll.Report{
		ID:           newID(),
		Date:         date,
		RevenuePool:  req.RevenuePool,
		PerHeadRate:  perHeadRate,
		TotalPresent: len(payableIDs),
		TeamTag:      shift.Ptr(req.Team),
		Status:       payroll.ReportStatusFinalized,
		CreatedBy:    req.CreatedBy,
		CreatedAt:    s.now().UTC(),
		Records:      make([]payroll.PayRecord, 0, len(roster)),
	}

	for _, entry := range roster {
		rec := payroll.PayRecord{
			ID:            newID(),
			ReportID:      report.ID,
			EmployeeID:    entry.Employee.ID,
			EmployeeName:  entry.Employee.FullName,
			EmployeeCode:  entry.Employee.EmployeeCode,
			Designation:   entry.Employee.Designation,
			Status:        entry.Status,
			ShiftSnapshot: entry.Shift,
			RoomNumber:    entry.RoomNumber,
		}
		priceRecord(&rec, perHeadRate, recoveries[entry.Employee.ID], s.policy)
		report.Records = append(report.Records, rec)
	}
	report.TotalAmount = payroll.PayableTotal(report.Records)

	created, err := s.payrollRepo.CreateReport(ctx, report)
	if err != nil {
		return payroll.ReportResponse{}, err
	}

	s.logger.InfoContext(ctx, "payroll report built",
		"report_id", created.ID,
		"date", req.Date,
		"records", len(created.Records),
		"total_present", created.TotalPresent,
		"per_head_rate", created.PerHeadRate.String(),
		"total_amount", created.TotalAmount.String(),
	)

	return toReportResponse(created, created.Records, shift.All), nil
}

// ========== REPORTS ==========

func (s *PayrollServiceImpl) GetReport(ctx context.Context, id string, requesting string) (payroll.ReportResponse, error) {
	report, err := s.payrollRepo.GetReportByID(ctx, id)
	if err != nil {
		return payroll.ReportResponse{}, err
	}

	filter, err := s.newShiftFilter(ctx, requesting, report)
	if err != nil {
		return payroll.ReportResponse{}, err
	}

	return toReportResponse(report, s.visibleRecords(ctx, filter, report), filter.label()), nil
}

func (s *PayrollServiceImpl) ListReports(ctx context.Context, filter payroll.ReportFilter) (payroll.ListReportResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListReportResponse{}, err
	}
	dateFrom, dateTo, _ := validator.ParseDateRange(filter.DateFrom, filter.DateTo)

	reports, total, err := s.payrollRepo.ListReports(ctx, payroll.ReportListFilter{
		DateFrom: dateFrom,
		DateTo:   dateTo,
		TeamTag:  shift.Ptr(filter.Team),
		Limit:    filter.Limit,
		Offset:   (filter.Page - 1) * filter.Limit,
	})
	if err != nil {
		return payroll.ListReportResponse{}, err
	}

	sf, err := s.newShiftFilter(ctx, filter.Shift, reports...)
	if err != nil {
		return payroll.ListReportResponse{}, err
	}

	data := make([]payroll.ReportSummaryResponse, 0, len(reports))
	for _, rep := range reports {
		data = append(data, toReportSummary(rep, s.visibleRecords(ctx, sf, rep)))
	}

	return payroll.ListReportResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ========== HISTORY ==========

func (s *PayrollServiceImpl) GetEmployeeHistory(ctx context.Context, filter payroll.HistoryFilter) (payroll.EmployeeHistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.EmployeeHistoryResponse{}, err
	}
	dateFrom, dateTo, _ := validator.ParseDateRange(filter.DateFrom, filter.DateTo)

	emp, err := s.employeeRepo.GetByID(ctx, filter.EmployeeID)
	if err != nil {
		return payroll.EmployeeHistoryResponse{}, err
	}

	entries, err := s.payrollRepo.ListEmployeeHistory(ctx, payroll.HistoryListFilter{
		EmployeeID: emp.ID,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
	})
	if err != nil {
		return payroll.EmployeeHistoryResponse{}, err
	}

	resp := payroll.EmployeeHistoryResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		EmployeeCode: emp.EmployeeCode,
		Entries:      make([]payroll.EmployeeHistoryEntry, 0, len(entries)),
	}
	for _, e := range entries {
		amount := e.FinalAmount
		if !e.Status.IsPayable() {
			amount = decimal.Zero
		}
		entry := payroll.EmployeeHistoryEntry{
			ReportID:   e.ReportID,
			Date:       e.Date.Format(dateLayout),
			Status:     string(e.Status),
			Amount:     amount,
			RoomNumber: e.RoomNumber,
			IsPaid:     e.IsPaid,
			ReceiptID:  e.ReceiptID,
		}
		if e.PaidAt != nil {
			paidAt := e.PaidAt.UTC().Format(time.RFC3339)
			entry.PaidAt = &paidAt
		}
		resp.Entries = append(resp.Entries, entry)
	}
	return resp, nil
}
