package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/groundops/ops-backend-go/internal/domain/payroll"
	"github.com/groundops/ops-backend-go/internal/domain/shift"
	"github.com/groundops/ops-backend-go/internal/domain/user"
	"github.com/groundops/ops-backend-go/internal/handler/http/middleware"
	"github.com/groundops/ops-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Reports
	BuildReport(w http.ResponseWriter, r *http.Request)
	ListReports(w http.ResponseWriter, r *http.Request)
	GetReport(w http.ResponseWriter, r *http.Request)

	// Rooms
	GetRoomView(w http.ResponseWriter, r *http.Request)
	RecordPayment(w http.ResponseWriter, r *http.Request)

	// History
	GetEmployeeHistory(w http.ResponseWriter, r *http.Request)
	GetMyHistory(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// resolveShift returns the shift the caller reads as. Callers allowed to see
// every shift get what they ask for, their own shift, or All. Everyone else
// is pinned to the shift on their token.
func resolveShift(p user.Principal, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	own, hasOwn := shift.Normalize(p.Shift)

	if p.Can(user.PermissionPayrollViewAllShifts) {
		switch {
		case requested != "":
			return requested, nil
		case hasOwn:
			return own, nil
		default:
			return shift.All, nil
		}
	}

	if !hasOwn {
		return "", user.ErrShiftAssignmentRequired
	}
	if requested == "" || strings.EqualFold(requested, own) {
		return own, nil
	}
	return "", user.ErrShiftAccessDenied
}

func optionalQuery(r *http.Request, key string) *string {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		return &v
	}
	return nil
}

// ========== REPORTS ==========

func (h *payrollHandlerImpl) BuildReport(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.BuildReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.CreatedBy = &p.UserID

	result, err := h.payrollService.BuildReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll report built", result)
}

func (h *payrollHandlerImpl) ListReports(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	shiftTag, err := resolveShift(p, r.URL.Query().Get("shift"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := payroll.ReportFilter{
		DateFrom: optionalQuery(r, "date_from"),
		DateTo:   optionalQuery(r, "date_to"),
		Team:     optionalQuery(r, "team"),
		Shift:    shiftTag,
		Page:     1,
		Limit:    20,
	}
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	result, err := h.payrollService.ListReports(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := 0
	if result.Limit > 0 {
		totalPages = int((result.TotalCount + int64(result.Limit) - 1) / int64(result.Limit))
	}
	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages,
	})
}

func (h *payrollHandlerImpl) GetReport(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	shiftTag, err := resolveShift(p, r.URL.Query().Get("shift"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	result, err := h.payrollService.GetReport(r.Context(), id, shiftTag)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== ROOMS ==========

func (h *payrollHandlerImpl) GetRoomView(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	shiftTag, err := resolveShift(p, r.URL.Query().Get("shift"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	query := payroll.RoomViewQuery{
		ReportID: strings.TrimSpace(r.URL.Query().Get("report_id")),
		Date:     strings.TrimSpace(r.URL.Query().Get("date")),
		Shift:    shiftTag,
	}

	result, err := h.payrollService.GetRoomView(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) RecordPayment(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ReportID = chi.URLParam(r, "id")
	req.PaidBy = &p.UserID

	result, err := h.payrollService.RecordPayment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Room payment recorded", result)
}

// ========== HISTORY ==========

func (h *payrollHandlerImpl) GetEmployeeHistory(w http.ResponseWriter, r *http.Request) {
	filter := payroll.HistoryFilter{
		EmployeeID: chi.URLParam(r, "employeeId"),
		DateFrom:   optionalQuery(r, "date_from"),
		DateTo:     optionalQuery(r, "date_to"),
	}

	result, err := h.payrollService.GetEmployeeHistory(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if p.EmployeeID == nil || *p.EmployeeID == "" {
		response.HandleError(w, user.ErrEmployeeLinkRequired)
		return
	}

	filter := payroll.HistoryFilter{
		EmployeeID: *p.EmployeeID,
		DateFrom:   optionalQuery(r, "date_from"),
		DateTo:     optionalQuery(r, "date_to"),
	}

	result, err := h.payrollService.GetEmployeeHistory(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
