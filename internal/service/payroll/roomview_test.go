package payroll

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/groundops/ops-backend-go/internal/domain/attendance"
	"github.com/groundops/ops-backend-go/internal/domain/employee"
	"github.com/groundops/ops-backend-go/internal/domain/payroll"
	"github.com/groundops/ops-backend-go/internal/domain/room"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietService() *PayrollServiceImpl {
	return &PayrollServiceImpl{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func record(id, roomNumber string, status attendance.Status, amount string, snapshot *string) payroll.PayRecord {
	return payroll.PayRecord{
		ID:            "rec-" + id,
		EmployeeID:    id,
		EmployeeName:  "Employee " + id,
		EmployeeCode:  id,
		Status:        status,
		ShiftSnapshot: snapshot,
		RoomNumber:    roomNumber,
		FinalAmount:   dec(amount),
	}
}

func TestAggregateRooms_NaturalOrder(t *testing.T) {
	report := payroll.Report{
		ID:   "r1",
		Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Records: []payroll.PayRecord{
			record("1", "10A", attendance.StatusPresent, "50", nil),
			record("2", payroll.UnassignedRoom, attendance.StatusPresent, "50", nil),
			record("3", "B2", attendance.StatusPresent, "50", nil),
			record("4", "10", attendance.StatusPresent, "50", nil),
			record("5", "b1", attendance.StatusPresent, "50", nil),
			record("6", "2", attendance.StatusPresent, "50", nil),
		},
	}

	view := quietService().aggregateRooms(context.Background(), report, shiftFilter{requesting: "All"}, nil)

	var numbers []string
	for _, r := range view.Rooms {
		numbers = append(numbers, r.RoomNumber)
	}
	assert.Equal(t, []string{"2", "10", "10A", "b1", "B2", payroll.UnassignedRoom}, numbers)
	assert.True(t, view.TotalAmount.Equal(dec("300")))
	assert.Equal(t, 6, view.TotalPresent)
	assert.Equal(t, "All", view.Shift)
	assert.Equal(t, "2024-05-01", view.Date)
}

func TestAggregateRooms_StrictDefaultHidesButKeepsRoom(t *testing.T) {
	report := payroll.Report{
		ID: "r1",
		Records: []payroll.PayRecord{
			record("1", "5", attendance.StatusPresent, "50", nil),
			record("2", "5", attendance.StatusPresent, "50", strPtr("Night")),
			record("3", "6", attendance.StatusPresent, "50", nil),
		},
	}
	filter := shiftFilter{
		requesting: "Night",
		live: map[string]employee.Employee{
			"3": {ID: "3", Shift: strPtr("night")},
		},
	}

	view := quietService().aggregateRooms(context.Background(), report, filter, nil)

	require.Len(t, view.Rooms, 2)
	require.Len(t, view.Rooms[0].Employees, 1, "record with no shift signal is hidden")
	assert.Equal(t, "2", view.Rooms[0].Employees[0].EmployeeID)
	require.Len(t, view.Rooms[1].Employees, 1, "live shift decides when there is no snapshot")
	assert.True(t, view.TotalAmount.Equal(dec("100")))
}

func TestAggregateRooms_MergesDirectoryAndDisbursement(t *testing.T) {
	paidAt := time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)
	report := payroll.Report{
		ID: "r1",
		Records: []payroll.PayRecord{
			record("2", "3", attendance.StatusPresent, "40", nil),
			record("1", "3", attendance.StatusAbsent, "0", nil),
		},
		Disbursements: []payroll.RoomDisbursement{
			{RoomNumber: "3", IsPaid: true, ReceiptID: "RCP-20240501-193000-0000ABCD", ReceiverName: "Employee 2",
				PaidAt: paidAt, TotalAmount: dec("40"), ClaimedTotal: dec("40")},
		},
	}
	directory := []room.Room{{Number: "3", Capacity: 6, ShiftScope: strPtr("Day")}}

	view := quietService().aggregateRooms(context.Background(), report, shiftFilter{}, directory)

	require.Len(t, view.Rooms, 1)
	r := view.Rooms[0]
	assert.True(t, r.IsPaid)
	require.NotNil(t, r.Receipt)
	assert.Equal(t, "2024-05-01T19:30:00Z", r.Receipt.PaidAt)
	assert.False(t, r.Receipt.AmountMismatch)
	assert.Equal(t, 6, *r.Capacity)
	assert.Equal(t, "Day", *r.ShiftScope)
	assert.Equal(t, 1, r.PayableCount)
	require.Len(t, r.Employees, 2)
	assert.Equal(t, "Employee 1", r.Employees[0].EmployeeName, "employees sorted by name")
}
