package payroll

import "context"

type PayrollService interface {
	// Reports
	BuildReport(ctx context.Context, req BuildReportRequest) (ReportResponse, error)
	GetReport(ctx context.Context, id string, shift string) (ReportResponse, error)
	ListReports(ctx context.Context, filter ReportFilter) (ListReportResponse, error)

	// Rooms
	GetRoomView(ctx context.Context, query RoomViewQuery) (RoomViewResponse, error)
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (PaymentReceiptResponse, error)

	// Employees
	GetEmployeeHistory(ctx context.Context, filter HistoryFilter) (EmployeeHistoryResponse, error)
}
