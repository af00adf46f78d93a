package payroll

import "errors"

var (
	ErrPeriodNotFound      = errors.New("payroll period not found")
	ErrPeriodAlreadyExists = errors.New("payroll period already exists")
	ErrPeriodClosed        = errors.New("payroll period is closed")
	ErrUnknownEmployee     = errors.New("no payroll line for employee in this period")
	ErrLineApproved        = errors.New("payroll line is approved, cannot modify")
	ErrInvalidInput        = errors.New("hours and rate must be non-negative")
)
