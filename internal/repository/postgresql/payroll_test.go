package postgresql

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/groundops/ops-backend-go/internal/domain/attendance"
	"github.com/groundops/ops-backend-go/internal/domain/payroll"
	"github.com/groundops/ops-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	db, err := database.NewPostgreSQLDB(ctx, dsn, 5)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, Migrate(ctx, db))
	return db
}

func newReport(date time.Time) payroll.Report {
	id := uuid.Must(uuid.NewV7()).String()
	fifty := decimal.NewFromInt(50)
	return payroll.Report{
		ID:           id,
		Date:         date,
		RevenuePool:  decimal.NewFromInt(100),
		PerHeadRate:  fifty,
		TotalPresent: 1,
		TotalAmount:  fifty,
		Status:       payroll.ReportStatusFinalized,
		CreatedAt:    time.Now().UTC(),
		Records: []payroll.PayRecord{{
			ID:             uuid.Must(uuid.NewV7()).String(),
			EmployeeID:     uuid.NewString(),
			EmployeeName:   "Ana",
			EmployeeCode:   "E001",
			Status:         attendance.StatusPresent,
			RoomNumber:     "12",
			BaseAmount:     fifty,
			Deductions:     []payroll.Deduction{},
			TotalDeduction: decimal.Zero,
			FinalAmount:    fifty,
		}},
	}
}

func TestPayrollRepository_DisbursementGuard(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPayrollRepository(db)

	// A far-future date keeps reruns from colliding with earlier data.
	date := time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(time.Now().UnixNano()%3650))
	report, err := repo.CreateReport(ctx, newReport(date))
	require.NoError(t, err)

	d := payroll.RoomDisbursement{
		ID:           uuid.Must(uuid.NewV7()).String(),
		ReportID:     report.ID,
		RoomNumber:   "12",
		IsPaid:       true,
		ReceiverID:   report.Records[0].EmployeeID,
		ReceiverName: "Ana",
		ReceiptID:    "RCP-" + uuid.NewString(),
		PaidAt:       time.Now().UTC(),
		TotalAmount:  decimal.NewFromInt(50),
		ClaimedTotal: decimal.NewFromInt(50),
	}
	_, err = repo.RecordDisbursement(ctx, d)
	require.NoError(t, err)

	again := d
	again.ID = uuid.Must(uuid.NewV7()).String()
	again.ReceiptID = "RCP-" + uuid.NewString()
	_, err = repo.RecordDisbursement(ctx, again)
	assert.ErrorIs(t, err, payroll.ErrRoomAlreadyPaid)

	missingRoom := again
	missingRoom.RoomNumber = "99"
	_, err = repo.RecordDisbursement(ctx, missingRoom)
	assert.ErrorIs(t, err, payroll.ErrRoomNotFound)

	got, err := repo.GetReportByID(ctx, report.ID)
	require.NoError(t, err)
	require.Len(t, got.Disbursements, 1)
	assert.Equal(t, d.ReceiptID, got.Disbursements[0].ReceiptID)

	latest, err := repo.GetLatestFinalizedByDate(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, report.ID, latest.ID)
}
