package response

import (
	"errors"
	"net/http"

	"github.com/tabelhr/payroll-backend-go/internal/domain/employee"
	"github.com/tabelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/tabelhr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Payroll domain errors
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrPeriodAlreadyExists):
		Conflict(w, "Payroll period already exists")
	case errors.Is(err, payroll.ErrPeriodClosed):
		Conflict(w, "Payroll period is closed")
	case errors.Is(err, payroll.ErrUnknownEmployee):
		NotFound(w, "No payroll line for employee in this period")
	case errors.Is(err, payroll.ErrLineApproved):
		Conflict(w, "Payroll line is approved and cannot be modified")
	case errors.Is(err, payroll.ErrInvalidInput):
		BadRequest(w, "Hours and rate must be non-negative", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrTabNumberExists):
		Conflict(w, "Tab number already registered")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
