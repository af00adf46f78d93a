package employee

import "errors"

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrTabNumberExists   = errors.New("tab number already registered")
	ErrInvalidTabNumber  = errors.New("invalid tab number format")
	ErrInvalidHourlyRate = errors.New("hourly rate must be positive")
)
