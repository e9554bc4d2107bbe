package payroll

import (
	"context"
	"time"
)

// PayrollRepository persists the Report aggregate. Pay records and
// disbursements are only written through it.
type PayrollRepository interface {
	// CreateReport stores the report and all of its records in one
	// transaction.
	CreateReport(ctx context.Context, report Report) (Report, error)
	// GetReportByID loads the report with its records and disbursements.
	GetReportByID(ctx context.Context, id string) (Report, error)
	// GetLatestFinalizedByDate loads the most recently built finalized report
	// for the calendar day.
	GetLatestFinalizedByDate(ctx context.Context, date time.Time) (Report, error)
	// ListReports returns finalized reports, newest date first, with their
	// records and disbursements.
	ListReports(ctx context.Context, filter ReportListFilter) ([]Report, int64, error)
	// RecordDisbursement appends a paid disbursement if, and only if, the
	// report is finalized, the room has records in it and the room has not
	// been paid. The check and the insert are a single statement.
	RecordDisbursement(ctx context.Context, d RoomDisbursement) (RoomDisbursement, error)
	ListEmployeeHistory(ctx context.Context, filter HistoryListFilter) ([]HistoryEntry, error)
}
