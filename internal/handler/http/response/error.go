package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, []validator.ValidationError(validationErrs))
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "EMPLOYEE_NOT_FOUND", "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "EMPLOYEE_EMAIL_EXISTS", "An employee with this email already exists")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "EMPLOYEE_CODE_EXISTS", "An employee with this code already exists")
	case errors.Is(err, employee.ErrEmployeeConflict):
		Conflict(w, "EMPLOYEE_CONFLICT", "Employee data conflicts with existing records")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "ATTENDANCE_NOT_FOUND", "Attendance record not found")
	case errors.Is(err, attendance.ErrAttendanceDuplicate):
		Conflict(w, "ATTENDANCE_DUPLICATE", "Attendance already recorded for this date")
	case errors.Is(err, attendance.ErrFutureDate):
		Unprocessable(w, "FUTURE_DATE", "Attendance date cannot be in the future")
	case errors.Is(err, attendance.ErrBeforeJoining):
		Unprocessable(w, "ATTENDANCE_BEFORE_JOINING", "Attendance date cannot be before employee's joining date")

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w)
	}
}
