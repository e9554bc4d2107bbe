package payroll

import (
	"context"
	"fmt"
	"strings"

	"github.com/groundops/ops-backend-go/internal/domain/employee"
	"github.com/groundops/ops-backend-go/internal/domain/payroll"
	"github.com/groundops/ops-backend-go/internal/domain/shift"
)

// shiftFilter applies the shift policy for one requesting shift. live holds
// the current profiles of employees whose records carry no shift snapshot.
type shiftFilter struct {
	requesting string
	live       map[string]employee.Employee
}

func (s *PayrollServiceImpl) newShiftFilter(ctx context.Context, requesting string, reports ...payroll.Report) (shiftFilter, error) {
	f := shiftFilter{requesting: strings.TrimSpace(requesting)}
	if shift.IsWildcard(f.requesting) {
		return f, nil
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, rep := range reports {
		for _, rec := range rep.Records {
			if _, ok := shift.Normalize(rec.ShiftSnapshot); ok {
				continue
			}
			if _, dup := seen[rec.EmployeeID]; dup {
				continue
			}
			seen[rec.EmployeeID] = struct{}{}
			ids = append(ids, rec.EmployeeID)
		}
	}
	if len(ids) == 0 {
		return f, nil
	}

	live, err := s.employeeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return shiftFilter{}, fmt.Errorf("failed to load live employee shifts: %w", err)
	}
	f.live = live
	return f, nil
}

func (f shiftFilter) decide(report payroll.Report, rec payroll.PayRecord) shift.Decision {
	var live *string
	if e, ok := f.live[rec.EmployeeID]; ok {
		live = e.Shift
	}
	return shift.Resolve(rec.ShiftSnapshot, live, report.TeamTag, f.requesting)
}

// label is the requesting shift as echoed back to callers.
func (f shiftFilter) label() string {
	if shift.IsWildcard(f.requesting) {
		return shift.All
	}
	return f.requesting
}

// visibleRecords returns the records of report that belong to the requesting
// shift. Records hidden because no signal named a shift are logged.
func (s *PayrollServiceImpl) visibleRecords(ctx context.Context, f shiftFilter, report payroll.Report) []payroll.PayRecord {
	visible := make([]payroll.PayRecord, 0, len(report.Records))
	hidden := 0
	for _, rec := range report.Records {
		d := f.decide(report, rec)
		if d.Ambiguous() {
			hidden++
			s.logger.DebugContext(ctx, "shift policy ambiguity, record hidden",
				"report_id", report.ID,
				"employee_id", rec.EmployeeID,
				"requesting_shift", f.requesting,
			)
		}
		if d.Belongs {
			visible = append(visible, rec)
		}
	}
	if hidden > 0 {
		s.logger.InfoContext(ctx, "records without any shift signal hidden",
			"report_id", report.ID,
			"requesting_shift", f.requesting,
			"count", hidden,
		)
	}
	return visible
}
