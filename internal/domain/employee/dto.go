package employee

import (
	"github.com/shopspring/decimal"

	"github.com/tabelhr/payroll-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	TabNumber  string          `json:"tab_number"`
	FullName   string          `json:"full_name"`
	Department string          `json:"department"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidTabNumber(r.TabNumber) {
		errs = append(errs, validator.ValidationError{Field: "tab_number", Message: "must be a 4-digit tab number"})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "is required"})
	}
	if !r.HourlyRate.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRateRequest struct {
	HourlyRate decimal.Decimal `json:"hourly_rate"`
}

func (r *UpdateRateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.HourlyRate.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID         string          `json:"id"`
	TabNumber  string          `json:"tab_number"`
	FullName   string          `json:"full_name"`
	Department string          `json:"department"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	IsActive   bool            `json:"is_active"`
}
