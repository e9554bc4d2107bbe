package payroll

import (
	"errors"
	"testing"

	"github.com/groundops/ops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationMap(t *testing.T, err error) map[string]string {
	t.Helper()
	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs), "expected ValidationErrors, got %v", err)
	return errs.ToMap()
}

func TestBuildReportRequest_Validate(t *testing.T) {
	rate := decimal.NewFromInt(50)
	ok := BuildReportRequest{Date: "2024-05-01", RevenuePool: decimal.NewFromInt(10000), PerHeadRate: &rate}
	assert.NoError(t, ok.Validate())

	noRate := BuildReportRequest{Date: "2024-05-01", RevenuePool: decimal.NewFromInt(10000)}
	assert.NoError(t, noRate.Validate())

	missingDate := BuildReportRequest{RevenuePool: decimal.NewFromInt(1)}
	assert.Equal(t, "is required", validationMap(t, missingDate.Validate())["date"])

	badDate := BuildReportRequest{Date: "2024-02-30"}
	assert.Contains(t, validationMap(t, badDate.Validate()), "date")

	negative := decimal.NewFromInt(-1)
	negRate := BuildReportRequest{Date: "2024-05-01", PerHeadRate: &negative}
	assert.Contains(t, validationMap(t, negRate.Validate()), "per_head_rate")

	negPool := BuildReportRequest{Date: "2024-05-01", RevenuePool: negative}
	assert.Contains(t, validationMap(t, negPool.Validate()), "revenue_pool")

	tiny := decimal.RequireFromString("-1e-400")
	tinyNeg := BuildReportRequest{Date: "2024-05-01", RevenuePool: tiny, PerHeadRate: &tiny}
	got := validationMap(t, tinyNeg.Validate())
	assert.Contains(t, got, "per_head_rate")
	assert.Contains(t, got, "revenue_pool")
}

func TestRoomViewQuery_Validate(t *testing.T) {
	assert.NoError(t, (&RoomViewQuery{Date: "2024-05-01"}).Validate())
	assert.NoError(t, (&RoomViewQuery{ReportID: "abc"}).Validate())
	assert.Contains(t, validationMap(t, (&RoomViewQuery{}).Validate()), "date")
	assert.Contains(t, validationMap(t, (&RoomViewQuery{Date: "01/05/2024"}).Validate()), "date")
}

func TestRecordPaymentRequest_Validate(t *testing.T) {
	req := RecordPaymentRequest{ReportID: "r1", RoomNumber: "12", ReceiverID: "e1"}
	assert.NoError(t, req.Validate())

	blank := RecordPaymentRequest{RoomNumber: "  "}
	got := validationMap(t, blank.Validate())
	assert.Equal(t, "is required", got["report_id"])
	assert.Equal(t, "is required", got["room_number"])
	assert.Equal(t, "is required", got["receiver_id"])

	negative := decimal.NewFromInt(-10)
	req.ClaimedTotal = &negative
	assert.Contains(t, validationMap(t, req.Validate()), "claimed_total")

	tiny := decimal.RequireFromString("-1e-400")
	req.ClaimedTotal = &tiny
	assert.Contains(t, validationMap(t, req.Validate()), "claimed_total")
}

func TestReportFilter_ValidateDefaults(t *testing.T) {
	f := ReportFilter{}
	require.NoError(t, f.Validate())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)

	f = ReportFilter{Limit: 500}
	assert.Contains(t, validationMap(t, f.Validate()), "limit")
}

func TestHistoryFilter_Validate(t *testing.T) {
	from, to := "2024-05-10", "2024-05-01"
	f := HistoryFilter{EmployeeID: "e1", DateFrom: &from, DateTo: &to}
	assert.Contains(t, validationMap(t, f.Validate()), "date_to")

	f = HistoryFilter{}
	assert.Contains(t, validationMap(t, f.Validate()), "employee_id")
}
