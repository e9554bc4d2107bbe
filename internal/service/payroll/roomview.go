package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/groundops/ops-backend-go/internal/domain/payroll"
	"github.com/groundops/ops-backend-go/internal/domain/room"
	"github.com/groundops/ops-backend-go/internal/pkg/natsort"
	"github.com/groundops/ops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

func (s *PayrollServiceImpl) GetRoomView(ctx context.Context, query payroll.RoomViewQuery) (payroll.RoomViewResponse, error) {
	if err := query.Validate(); err != nil {
		return payroll.RoomViewResponse{}, err
	}

	notFound := payroll.RoomViewResponse{
		Found:       false,
		Date:        query.Date,
		Shift:       shiftFilter{requesting: strings.TrimSpace(query.Shift)}.label(),
		Rooms:       []payroll.RoomResponse{},
		TotalAmount: decimal.Zero,
	}

	var report payroll.Report
	var err error
	if !validator.IsEmpty(query.ReportID) {
		report, err = s.payrollRepo.GetReportByID(ctx, query.ReportID)
		if err != nil {
			return payroll.RoomViewResponse{}, err
		}
		if !report.IsFinalized() {
			notFound.Date = report.Date.Format(dateLayout)
			return notFound, nil
		}
	} else {
		date, _ := validator.IsValidDate(query.Date)
		report, err = s.payrollRepo.GetLatestFinalizedByDate(ctx, date)
		if errors.Is(err, payroll.ErrReportNotFound) {
			return notFound, nil
		}
		if err != nil {
			return payroll.RoomViewResponse{}, err
		}
	}

	filter, err := s.newShiftFilter(ctx, query.Shift, report)
	if err != nil {
		return payroll.RoomViewResponse{}, err
	}
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return payroll.RoomViewResponse{}, fmt.Errorf("failed to list rooms: %w", err)
	}

	return s.aggregateRooms(ctx, report, filter, rooms), nil
}

// aggregateRooms groups the report's records by room. Every room that holds
// a record is returned; the shift filter only narrows its employee list and
// total.
func (s *PayrollServiceImpl) aggregateRooms(ctx context.Context, report payroll.Report, filter shiftFilter, directory []room.Room) payroll.RoomViewResponse {
	known := make(map[string]room.Room, len(directory))
	for _, r := range directory {
		known[r.Number] = r
	}

	groups := make(map[string]*payroll.RoomResponse)
	var numbers []string
	for _, rec := range report.Records {
		if _, ok := groups[rec.RoomNumber]; ok {
			continue
		}
		g := &payroll.RoomResponse{
			RoomNumber:  rec.RoomNumber,
			TotalAmount: decimal.Zero,
			Employees:   []payroll.RoomEmployeeResponse{},
		}
		if r, ok := known[rec.RoomNumber]; ok {
			capacity := r.Capacity
			g.ShiftScope = r.ShiftScope
			g.Capacity = &capacity
		}
		if d, ok := report.PaidDisbursement(rec.RoomNumber); ok {
			g.IsPaid = true
			g.Receipt = toReceiptInfo(d)
		}
		groups[rec.RoomNumber] = g
		numbers = append(numbers, rec.RoomNumber)
	}

	resp := payroll.RoomViewResponse{
		Found:       true,
		ReportID:    &report.ID,
		Date:        report.Date.Format(dateLayout),
		Shift:       filter.label(),
		Rooms:       make([]payroll.RoomResponse, 0, len(numbers)),
		TotalAmount: decimal.Zero,
	}

	for _, rec := range s.visibleRecords(ctx, filter, report) {
		g := groups[rec.RoomNumber]
		g.Employees = append(g.Employees, toRoomEmployee(rec))
		if rec.IsPayable() {
			g.TotalAmount = g.TotalAmount.Add(rec.FinalAmount)
			g.PayableCount++
		}
	}

	sort.SliceStable(numbers, func(i, j int) bool {
		return natsort.Less(numbers[i], numbers[j])
	})
	for _, number := range numbers {
		g := groups[number]
		sortRoomEmployees(g.Employees)
		resp.Rooms = append(resp.Rooms, *g)
		resp.TotalPresent += g.PayableCount
		resp.TotalAmount = resp.TotalAmount.Add(g.TotalAmount)
	}

	return resp
}

func sortRoomEmployees(employees []payroll.RoomEmployeeResponse) {
	sort.SliceStable(employees, func(i, j int) bool {
		a, b := strings.ToLower(employees[i].EmployeeName), strings.ToLower(employees[j].EmployeeName)
		if a != b {
			return a < b
		}
		return natsort.Less(employees[i].EmployeeCode, employees[j].EmployeeCode)
	})
}
