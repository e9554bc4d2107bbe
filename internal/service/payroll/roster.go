package payroll

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/groundops/ops-backend-go/internal/domain/attendance"
	"github.com/groundops/ops-backend-go/internal/domain/employee"
	"github.com/groundops/ops-backend-go/internal/domain/payroll"
	"github.com/groundops/ops-backend-go/internal/domain/room"
	"github.com/groundops/ops-backend-go/internal/domain/shift"
	"github.com/groundops/ops-backend-go/internal/pkg/natsort"
)

// rosterEntry is one active employee's standing on the day being paid.
type rosterEntry struct {
	Employee   employee.Employee
	Status     attendance.Status
	Shift      *string
	RoomNumber string
}

// readRoster joins the day's attendance with the active employee list and
// the room directory. Every active employee appears exactly once; one with no
// attendance row is absent.
func (s *PayrollServiceImpl) readRoster(ctx context.Context, date time.Time) ([]rosterEntry, error) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	records, err := s.attendanceRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to read attendance: %w", err)
	}
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	active := make(map[string]struct{}, len(employees))
	for _, e := range employees {
		active[e.ID] = struct{}{}
	}

	byEmployee := make(map[string]attendance.AttendanceRecord, len(records))
	for _, rec := range records {
		if _, ok := active[rec.EmployeeID]; !ok {
			s.logger.WarnContext(ctx, "attendance row for unknown or inactive employee ignored",
				"date", date.Format(dateLayout),
				"employee_id", rec.EmployeeID,
				"status", rec.Status,
			)
			continue
		}
		byEmployee[rec.EmployeeID] = rec
	}

	roomOf := assignRooms(rooms)

	roster := make([]rosterEntry, 0, len(employees))
	for _, e := range employees {
		entry := rosterEntry{
			Employee:   e,
			Status:     attendance.StatusAbsent,
			Shift:      shift.Ptr(e.Shift),
			RoomNumber: payroll.UnassignedRoom,
		}
		if rec, ok := byEmployee[e.ID]; ok {
			entry.Status = rec.Status
			if tag := shift.Ptr(rec.ShiftTag); tag != nil {
				entry.Shift = tag
			}
		}
		if number, ok := roomOf[e.ID]; ok {
			entry.RoomNumber = number
		}
		roster = append(roster, entry)
	}

	sort.SliceStable(roster, func(i, j int) bool {
		return natsort.Less(roster[i].Employee.EmployeeCode, roster[j].Employee.EmployeeCode)
	})
	return roster, nil
}

// assignRooms maps each employee to the first room, in natural order, that
// lists them as a member.
func assignRooms(rooms []room.Room) map[string]string {
	sorted := make([]room.Room, len(rooms))
	copy(sorted, rooms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return natsort.Less(sorted[i].Number, sorted[j].Number)
	})

	roomOf := make(map[string]string)
	for _, r := range sorted {
		for _, id := range r.MemberIDs {
			if _, taken := roomOf[id]; !taken {
				roomOf[id] = r.Number
			}
		}
	}
	return roomOf
}
