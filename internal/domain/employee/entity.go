package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is one person on the payroll roster. TabNumber is the stable
// payroll identity, unique across the roster; HourlyRate is mutated only
// through the employee service, never by payroll flows.
type Employee struct {
	ID         string
	TabNumber  string
	FullName   string
	Department string
	HourlyRate decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
