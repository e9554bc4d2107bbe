package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/groundops/ops-backend-go/internal/domain/attendance"
	"github.com/groundops/ops-backend-go/internal/domain/employee"
	"github.com/groundops/ops-backend-go/internal/domain/room"
	"github.com/groundops/ops-backend-go/internal/domain/user"
	"github.com/groundops/ops-backend-go/internal/handler/http/response"
	"github.com/groundops/ops-backend-go/internal/pkg/database"
	"github.com/groundops/ops-backend-go/internal/pkg/jwt"
	"github.com/groundops/ops-backend-go/internal/repository/sqlite"
	payrollService "github.com/groundops/ops-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type testServer struct {
	router     *chi.Mux
	jwt        jwt.Service
	employeeID map[string]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLiteDB(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db))

	employeeRepo := sqlite.NewEmployeeRepository(db)
	attendanceRepo := sqlite.NewAttendanceRepository(db)
	roomRepo := sqlite.NewRoomRepository(db)

	ts := &testServer{employeeID: map[string]string{}}
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, seed := range []struct {
		code, name, shift, room string
		status              attendance.Status
	}{
		{"E001", "Ana", "A", "12", attendance.StatusPresent},
		{"E002", "Budi", "A", "12", attendance.StatusPresent},
		{"E003", "Citra", "B", "7", attendance.StatusPresent},
	} {
		shift := seed.shift
		e, err := employeeRepo.Upsert(ctx, employee.Employee{EmployeeCode: seed.code, FullName: seed.name, Shift: &shift, IsActive: true})
		require.NoError(t, err)
		ts.employeeID[seed.code] = e.ID
		_, err = attendanceRepo.Upsert(ctx, attendance.AttendanceRecord{EmployeeID: e.ID, Date: day, Status: seed.status})
		require.NoError(t, err)
	}
	require.NoError(t, roomRepo.Upsert(ctx, room.Room{Number: "12", Capacity: 4, MemberIDs: []string{ts.employeeID["E001"], ts.employeeID["E002"]}}))
	require.NoError(t, roomRepo.Upsert(ctx, room.Room{Number: "7", Capacity: 4, MemberIDs: []string{ts.employeeID["E003"]}}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := payrollService.NewPayrollService(
		sqlite.NewPayrollRepository(db),
		employeeRepo,
		attendanceRepo,
		roomRepo,
		sqlite.NewRecoveryRepository(db),
		payrollService.Policy{MinFinalAmount: decimal.Zero, DefaultRecoveryRate: decimal.NewFromInt(100)},
		logger,
	)

	ts.jwt = jwt.NewJWTService(handlerTestSecret, "1h")
	ts.router = NewRouter(RouterOptions{Logger: logger, LogLevel: slog.LevelError}, ts.jwt, NewPayrollHandler(svc))
	return ts
}

func (ts *testServer) token(t *testing.T, role user.Role, shift, employeeID *string) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateAccessToken(user.Principal{UserID: "user-" + string(role), Role: role, Shift: shift, EmployeeID: employeeID})
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var resp response.Response
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func (ts *testServer) buildReport(t *testing.T) string {
	t.Helper()
	admin := ts.token(t, user.RoleAdmin, nil, nil)
	rec, resp := ts.do(t, http.MethodPost, "/api/v1/payroll/reports", admin, map[string]interface{}{
		"date":          "2024-05-01",
		"revenue_pool":  "150",
		"per_head_rate": "50",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "user-admin", data["created_by"])
	return data["id"].(string)
}

func strPtr(s string) *string {
	return &s
}

func TestPayrollRoutes_RequireToken(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.do(t, http.MethodGet, "/api/v1/payroll/rooms?date=2024-05-01", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPayrollRoutes_PermissionDenied(t *testing.T) {
	ts := newTestServer(t)
	employeeToken := ts.token(t, user.RoleEmployee, strPtr("A"), nil)

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/payroll/reports", employeeToken, map[string]interface{}{"date": "2024-05-01"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBuildReport_ValidationError(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, user.RoleAdmin, nil, nil)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/payroll/reports", admin, map[string]interface{}{"date": "01/05/2024"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "date")
}

func TestRoomView_ShiftPinning(t *testing.T) {
	ts := newTestServer(t)
	ts.buildReport(t)

	cashier := ts.token(t, user.RoleCashier, strPtr("A"), nil)
	rec, resp := ts.do(t, http.MethodGet, "/api/v1/payroll/rooms?date=2024-05-01", cashier, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "A", data["shift"])
	assert.Equal(t, "100", data["total_amount"])
	assert.Len(t, data["rooms"], 2, "rooms are listed even when filtered empty")

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/payroll/rooms?date=2024-05-01&shift=B", cashier, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/payroll/rooms?date=2024-05-01&shift=All", cashier, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	unassigned := ts.token(t, user.RoleCashier, nil, nil)
	rec, _ = ts.do(t, http.MethodGet, "/api/v1/payroll/rooms?date=2024-05-01", unassigned, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	supervisor := ts.token(t, user.RoleSupervisor, nil, nil)
	rec, resp = ts.do(t, http.MethodGet, "/api/v1/payroll/rooms?date=2024-05-01&shift=All", supervisor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, "150", data["total_amount"])
}

func TestRoomView_NoReportIsNotAnError(t *testing.T) {
	ts := newTestServer(t)
	supervisor := ts.token(t, user.RoleSupervisor, nil, nil)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/payroll/rooms?date=2024-06-01", supervisor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, false, data["found"])

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/payroll/rooms?report_id=does-not-exist", supervisor, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "an explicit id that names no report is not found")
}

func TestRecordPayment_DoublePaymentConflict(t *testing.T) {
	ts := newTestServer(t)
	reportID := ts.buildReport(t)
	cashier := ts.token(t, user.RoleCashier, strPtr("A"), nil)
	path := "/api/v1/payroll/reports/" + reportID + "/payments"
	body := map[string]interface{}{"room_number": "12", "receiver_id": ts.employeeID["E001"]}

	rec, resp := ts.do(t, http.MethodPost, path, cashier, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "100", data["total_amount"])
	assert.NotEmpty(t, data["receipt_id"])

	rec, resp = ts.do(t, http.MethodPost, path, cashier, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "room 12")
	assert.Contains(t, resp.Error.Message, "2024-05-01")

	rec, _ = ts.do(t, http.MethodPost, path, cashier, map[string]interface{}{"room_number": "99", "receiver_id": ts.employeeID["E001"]})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/payroll/reports/missing/payments", cashier, body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistory_Routes(t *testing.T) {
	ts := newTestServer(t)
	ts.buildReport(t)

	anaID := ts.employeeID["E001"]
	self := ts.token(t, user.RoleEmployee, strPtr("A"), &anaID)
	rec, resp := ts.do(t, http.MethodGet, "/api/v1/payroll/me/history", self, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Ana", data["employee_name"])
	assert.Len(t, data["entries"], 1)

	unlinked := ts.token(t, user.RoleEmployee, strPtr("A"), nil)
	rec, _ = ts.do(t, http.MethodGet, "/api/v1/payroll/me/history", unlinked, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/payroll/employees/"+anaID+"/history", self, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, "employees may only read their own history")

	admin := ts.token(t, user.RoleAdmin, nil, nil)
	rec, _ = ts.do(t, http.MethodGet, "/api/v1/payroll/employees/unknown/history", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolveShift(t *testing.T) {
	supervisor := user.Principal{Role: user.RoleSupervisor, Shift: strPtr("Night")}
	got, err := resolveShift(supervisor, "")
	require.NoError(t, err)
	assert.Equal(t, "Night", got)

	got, err = resolveShift(user.Principal{Role: user.RoleAdmin}, "")
	require.NoError(t, err)
	assert.Equal(t, "All", got)

	got, err = resolveShift(user.Principal{Role: user.RoleCashier, Shift: strPtr(" Day ")}, "day")
	require.NoError(t, err)
	assert.Equal(t, "Day", got)

	_, err = resolveShift(user.Principal{Role: user.RoleCashier, Shift: strPtr("Day")}, "Night")
	assert.ErrorIs(t, err, user.ErrShiftAccessDenied)

	_, err = resolveShift(user.Principal{Role: user.RoleCashier}, "")
	assert.ErrorIs(t, err, user.ErrShiftAssignmentRequired)
}

func TestPayrollRoutes_ListReportsPaginated(t *testing.T) {
	ts := newTestServer(t)
	ts.buildReport(t)
	ts.buildReport(t)

	cashier := ts.token(t, user.RoleCashier, strPtr("A"), nil)
	rec, resp := ts.do(t, http.MethodGet, "/api/v1/payroll/reports?limit=1", cashier, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 1, resp.Meta.Limit)
	assert.Equal(t, int64(2), resp.Meta.TotalItems)
	assert.Equal(t, 2, resp.Meta.TotalPages)

	data := resp.Data.([]interface{})
	require.Len(t, data, 1)
	summary := data[0].(map[string]interface{})
	assert.Equal(t, float64(2), summary["record_count"])
	assert.Equal(t, "100", summary["total_amount"])

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/payroll/reports?date_from=2024-06-01&date_to=2024-05-01", cashier, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
