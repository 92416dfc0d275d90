package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/attendance"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/auth"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/leave"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/payroll"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/validator"
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
	// Authentication
	case errors.Is(err, user.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, err.Error())

	// Authorization
	case errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, leave.ErrNotRequestOwner),
		errors.Is(err, payroll.ErrAccessDenied):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, payroll.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll not found")

	// Conflicts and invalid transitions
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed),
		errors.Is(err, leave.ErrOnlyPendingCancellable),
		errors.Is(err, leave.ErrCascadeNotApplicable),
		errors.Is(err, user.ErrUserEmailExists),
		errors.Is(err, user.ErrEmployeeIDExists),
		errors.Is(err, payroll.ErrPayrollAlreadyExists),
		errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
