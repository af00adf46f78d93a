package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tabelhr/payroll-backend-go/internal/pkg/validator"
)

type OpenPeriodRequest struct {
	Name          string  `json:"name"`
	PeriodMonth   int     `json:"period_month"`
	PeriodYear    int     `json:"period_year"`
	EditableUntil *string `json:"editable_until,omitempty"`

	editableUntil *time.Time
}

func (r *OpenPeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if r.PeriodYear < 2020 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2020 or later"})
	}
	if r.EditableUntil != nil {
		until, ok := validator.IsValidDate(*r.EditableUntil)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "editable_until", Message: "must be a YYYY-MM-DD date"})
		} else {
			r.editableUntil = &until
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EditableUntilDate returns the deadline parsed during Validate, if one was
// supplied.
func (r *OpenPeriodRequest) EditableUntilDate() *time.Time {
	return r.editableUntil
}

type CorrectionRequest struct {
	TabNumber     string          `json:"tab_number"`
	Amount        decimal.Decimal `json:"amount"`
	Justification string          `json:"justification"`
}

func (r *CorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidTabNumber(r.TabNumber) {
		errs = append(errs, validator.ValidationError{Field: "tab_number", Message: "must be a 4-digit tab number"})
	}
	if r.Amount.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-zero"})
	}
	if validator.IsEmpty(r.Justification) {
		errs = append(errs, validator.ValidationError{Field: "justification", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PeriodResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	PeriodMonth   int     `json:"period_month"`
	PeriodYear    int     `json:"period_year"`
	Status        string  `json:"status"`
	EditableUntil *string `json:"editable_until,omitempty"`
}

type PayrollLineResponse struct {
	TabNumber  string          `json:"tab_number"`
	FullName   string          `json:"full_name"`
	Hours      decimal.Decimal `json:"hours"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	BasePay    decimal.Decimal `json:"base_pay"`
	Bonus      decimal.Decimal `json:"bonus"`
	Gross      decimal.Decimal `json:"gross"`
	Tax        decimal.Decimal `json:"tax"`
	Net        decimal.Decimal `json:"net"`
	Status     string          `json:"status"`
}

type TotalsResponse struct {
	Gross decimal.Decimal `json:"gross"`
	Tax   decimal.Decimal `json:"tax"`
	Net   decimal.Decimal `json:"net"`
	Lines int             `json:"lines"`
}

type CorrectionResponse struct {
	ID            string          `json:"id"`
	TabNumber     string          `json:"tab_number"`
	Amount        decimal.Decimal `json:"amount"`
	Justification string          `json:"justification"`
	AppliedAt     string          `json:"applied_at"`
}
