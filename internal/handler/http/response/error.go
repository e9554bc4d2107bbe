package response

import (
	"errors"
	"net/http"

	"github.com/groundops/ops-backend-go/internal/domain/auth"
	"github.com/groundops/ops-backend-go/internal/domain/employee"
	"github.com/groundops/ops-backend-go/internal/domain/payroll"
	"github.com/groundops/ops-backend-go/internal/domain/user"
	"github.com/groundops/ops-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")

	// Access errors
	case errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrShiftAccessDenied),
		errors.Is(err, user.ErrShiftAssignmentRequired),
		errors.Is(err, user.ErrEmployeeLinkRequired):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Payroll domain errors; messages name the room and report date
	case errors.Is(err, payroll.ErrReportNotFound):
		NotFound(w, "Payroll report not found")
	case errors.Is(err, payroll.ErrRoomNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, payroll.ErrReceiverNotFound):
		NotFound(w, "Receiver employee not found")
	case errors.Is(err, payroll.ErrRoomAlreadyPaid):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrReportNotFinalized):
		Conflict(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
